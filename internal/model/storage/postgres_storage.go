package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	sq "github.com/Masterminds/squirrel"

	// postgres driver
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"max.ks1230/expense-tracker/internal/entity/budget"
	"max.ks1230/expense-tracker/internal/entity/expense"
	"max.ks1230/expense-tracker/internal/model/customerr"
)

const dsnTemplate = "user=%s password=%s host=%s dbname=%s sslmode=disable"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type config interface {
	Host() string
	Username() string
	Password() string
	Database() string
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config config) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", fmt.Sprintf(dsnTemplate,
		config.Username(),
		config.Password(),
		config.Host(),
		config.Database()))
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	if err = db.Ping(); err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	return &PostgresStorage{db}, nil
}

// ListExpenses returns the user's records newest entry first, the same
// order the in-memory list keeps.
func (s *PostgresStorage) ListExpenses(ctx context.Context, userID int64) ([]expense.Record, error) {
	query := psql.Select("id", "item", "qty", "price", "total", "expense_date", "method", "category").
		From("expenses").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC")

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, &customerr.StorageError{Op: "list expenses", Err: err}
	}
	defer func() {
		rowErr := rows.Close()
		if rowErr != nil {
			log.Println("error closing rows", rowErr)
		}
	}()

	exps := make([]expense.Record, 0)
	for rows.Next() {
		var e expense.Record
		err = rows.Scan(&e.ID, &e.Item, &e.Qty, &e.Price, &e.Total, &e.Date, &e.Method, &e.Category)
		if err != nil {
			return nil, &customerr.StorageError{Op: "list expenses", Err: err}
		}
		exps = append(exps, e)
	}
	if err = rows.Err(); err != nil {
		return nil, &customerr.StorageError{Op: "list expenses", Err: err}
	}

	return exps, nil
}

func (s *PostgresStorage) SaveExpense(ctx context.Context, userID int64, rec expense.Record) error {
	query := psql.Insert("expenses").
		Columns("user_id", "id", "item", "qty", "price", "total", "expense_date", "method", "category", "created_at").
		Values(userID, rec.ID, rec.Item, rec.Qty, rec.Price, rec.Total, rec.Date, rec.Method, rec.Category, time.Now())

	_, err := query.RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return &customerr.StorageError{Op: "save expense", Err: err}
	}
	return nil
}

func (s *PostgresStorage) UpdateExpense(ctx context.Context, userID int64, rec expense.Record) error {
	query := psql.Update("expenses").
		Set("item", rec.Item).
		Set("qty", rec.Qty).
		Set("price", rec.Price).
		Set("total", rec.Total).
		Set("expense_date", rec.Date).
		Set("method", rec.Method).
		Set("category", rec.Category).
		Where(sq.Eq{"user_id": userID, "id": rec.ID})

	res, err := query.RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return &customerr.StorageError{Op: "update expense", Err: err}
	}
	return ensureFound(res, rec.ID)
}

func (s *PostgresStorage) DeleteExpense(ctx context.Context, userID int64, id string) error {
	query := psql.Delete("expenses").
		Where(sq.Eq{"user_id": userID, "id": id})

	res, err := query.RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return &customerr.StorageError{Op: "delete expense", Err: err}
	}
	return ensureFound(res, id)
}

func (s *PostgresStorage) GetBudget(ctx context.Context, userID int64) (budget.Config, error) {
	var cfg budget.Config

	query := psql.Select("daily_budget").
		From("users").
		Where(sq.Eq{"id": userID})
	err := query.RunWith(s.db).QueryRowContext(ctx).Scan(&cfg.Daily)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return budget.Config{}, &customerr.StorageError{Op: "get budget", Err: err}
	}

	catQuery := psql.Select("category", "amount").
		From("category_budgets").
		Where(sq.Eq{"user_id": userID})
	rows, err := catQuery.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return budget.Config{}, &customerr.StorageError{Op: "get budget", Err: err}
	}
	defer func() {
		rowErr := rows.Close()
		if rowErr != nil {
			log.Println("error closing rows", rowErr)
		}
	}()

	for rows.Next() {
		var cat string
		var amount int64
		if err = rows.Scan(&cat, &amount); err != nil {
			return budget.Config{}, &customerr.StorageError{Op: "get budget", Err: err}
		}
		if cfg.Categories == nil {
			cfg.Categories = make(map[string]int64)
		}
		cfg.Categories[cat] = amount
	}
	if err = rows.Err(); err != nil {
		return budget.Config{}, &customerr.StorageError{Op: "get budget", Err: err}
	}
	return cfg, nil
}

func (s *PostgresStorage) SaveBudget(ctx context.Context, userID int64, cfg budget.Config) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &customerr.StorageError{Op: "save budget", Err: err}
	}
	defer func() {
		txErr := tx.Rollback()
		if txErr != nil && !errors.Is(txErr, sql.ErrTxDone) {
			log.Println("error when transaction rollback", txErr)
		}
	}()

	userQuery := psql.Insert("users").
		Columns("id", "daily_budget", "updated_at").
		Values(userID, cfg.Daily, time.Now()).
		Suffix("ON CONFLICT(id) DO UPDATE SET daily_budget = ?, updated_at = ?",
			cfg.Daily, time.Now())
	if _, err = userQuery.RunWith(tx).ExecContext(ctx); err != nil {
		return &customerr.StorageError{Op: "save budget", Err: err}
	}

	clear := psql.Delete("category_budgets").Where(sq.Eq{"user_id": userID})
	if _, err = clear.RunWith(tx).ExecContext(ctx); err != nil {
		return &customerr.StorageError{Op: "save budget", Err: err}
	}
	for cat, amount := range cfg.Categories {
		ins := psql.Insert("category_budgets").
			Columns("user_id", "category", "amount").
			Values(userID, cat, amount)
		if _, err = ins.RunWith(tx).ExecContext(ctx); err != nil {
			return &customerr.StorageError{Op: "save budget", Err: err}
		}
	}

	if err = tx.Commit(); err != nil {
		return &customerr.StorageError{Op: "save budget", Err: err}
	}
	return nil
}

func ensureFound(res sql.Result, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return &customerr.StorageError{Op: "rows affected", Err: err}
	}
	if affected == 0 {
		return &customerr.NotFoundError{ID: id}
	}
	return nil
}
