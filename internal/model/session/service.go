package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	budgetent "max.ks1230/expense-tracker/internal/entity/budget"
	"max.ks1230/expense-tracker/internal/entity/expense"
	sessionent "max.ks1230/expense-tracker/internal/entity/session"
	"max.ks1230/expense-tracker/internal/logger"
	"max.ks1230/expense-tracker/internal/model/aggregate"
	"max.ks1230/expense-tracker/internal/model/budget"
	"max.ks1230/expense-tracker/internal/model/filter"
)

type userStorage interface {
	ListExpenses(ctx context.Context, userID int64) ([]expense.Record, error)
	SaveExpense(ctx context.Context, userID int64, rec expense.Record) error
	UpdateExpense(ctx context.Context, userID int64, rec expense.Record) error
	DeleteExpense(ctx context.Context, userID int64, id string) error
	GetBudget(ctx context.Context, userID int64) (budgetent.Config, error)
	SaveBudget(ctx context.Context, userID int64, cfg budgetent.Config) error
}

type summaryCache interface {
	CacheSummary(userID int64, day string, payload string) error
	GetSummary(userID int64, day string) (string, error)
	InvalidateSummary(userID int64, day string) error
}

type alertProducer interface {
	ProduceMessage(message []byte) error
}

// Service orchestrates the engines around storage: it validates input,
// mutates the store, re-aggregates and emits budget alerts. All
// computations run on an explicit snapshot and an explicit reference
// instant; the service holds no record state of its own.
type Service struct {
	storage  userStorage
	cache    summaryCache
	producer alertProducer
}

// NewService wires the session model. Cache and producer are optional; a
// nil collaborator disables caching or alert publishing.
func NewService(storage userStorage, cache summaryCache, producer alertProducer) *Service {
	return &Service{
		storage:  storage,
		cache:    cache,
		producer: producer,
	}
}

// Load reads the whole per-user snapshot, replacing any previous session.
func (s *Service) Load(ctx context.Context, userID int64) (sessionent.Session, error) {
	exps, err := s.storage.ListExpenses(ctx, userID)
	if err != nil {
		return sessionent.Session{}, errors.Wrap(err, "load session")
	}
	cfg, err := s.storage.GetBudget(ctx, userID)
	if err != nil {
		return sessionent.Session{}, errors.Wrap(err, "load session")
	}
	return sessionent.Session{UserID: userID, Expenses: exps, Budget: cfg}, nil
}

// AddExpense validates and stores a new record, prepending it to the list.
// When the addition pushes today's spending over a daily-budget tier, the
// returned alert is non-nil and has been published.
func (s *Service) AddExpense(ctx context.Context, userID int64, item string, qty, price int64, date, method, category string, at time.Time) (expense.Record, *budget.Alert, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "addExpense")
	defer span.Finish()

	if err := validateInput(item, qty, price, date, method, category); err != nil {
		return expense.Record{}, nil, err
	}

	sess, err := s.Load(ctx, userID)
	if err != nil {
		ext.Error.Set(span, true)
		return expense.Record{}, nil, errors.Wrap(err, "add expense")
	}

	rec := expense.New(item, qty, price, date, method, category, at)
	if err = s.storage.SaveExpense(ctx, userID, rec); err != nil {
		ext.Error.Set(span, true)
		return expense.Record{}, nil, errors.Wrap(err, "add expense")
	}
	s.invalidate(userID, at)

	today := at.Format(expense.DateLayout)
	before := spentOn(sess.Expenses, today)
	after := before
	if rec.Date == today {
		after += rec.Total
	}
	alert := s.emitAlert(userID, today, before, after, sess.Budget.Daily)
	return rec, alert, nil
}

// UpdateExpense edits a record in place, preserving identity and
// recomputing the total. Like AddExpense it reports a daily-budget tier
// crossing caused by the edit.
func (s *Service) UpdateExpense(ctx context.Context, userID int64, id, item string, qty, price int64, date, method, category string, at time.Time) (expense.Record, *budget.Alert, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "updateExpense")
	defer span.Finish()

	if err := validateInput(item, qty, price, date, method, category); err != nil {
		return expense.Record{}, nil, err
	}

	sess, err := s.Load(ctx, userID)
	if err != nil {
		ext.Error.Set(span, true)
		return expense.Record{}, nil, errors.Wrap(err, "update expense")
	}

	rec, _ := sess.Find(id)
	old := rec
	rec.ID = id
	rec.Update(item, qty, price, date, method, category)
	if err = s.storage.UpdateExpense(ctx, userID, rec); err != nil {
		ext.Error.Set(span, true)
		return expense.Record{}, nil, errors.Wrap(err, "update expense")
	}
	s.invalidate(userID, at)

	today := at.Format(expense.DateLayout)
	before := spentOn(sess.Expenses, today)
	after := before
	if old.Date == today {
		after -= old.Total
	}
	if rec.Date == today {
		after += rec.Total
	}
	alert := s.emitAlert(userID, today, before, after, sess.Budget.Daily)
	return rec, alert, nil
}

func (s *Service) DeleteExpense(ctx context.Context, userID int64, id string, at time.Time) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "deleteExpense")
	defer span.Finish()

	if err := s.storage.DeleteExpense(ctx, userID, id); err != nil {
		ext.Error.Set(span, true)
		return errors.Wrap(err, "delete expense")
	}
	s.invalidate(userID, at)
	return nil
}

// Summary aggregates the snapshot at the given instant, reading through
// the per-day cache so chart rendering can be deferred without
// recomputation.
func (s *Service) Summary(ctx context.Context, userID int64, at time.Time) (aggregate.Summary, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "summary")
	defer span.Finish()

	day := at.Format(expense.DateLayout)
	if s.cache != nil {
		if payload, err := s.cache.GetSummary(userID, day); err == nil {
			var cached aggregate.Summary
			if err = json.Unmarshal([]byte(payload), &cached); err == nil {
				return cached, nil
			}
			logger.Error("cannot decode cached summary", zap.Error(err))
		}
	}

	exps, err := s.storage.ListExpenses(ctx, userID)
	if err != nil {
		ext.Error.Set(span, true)
		return aggregate.Summary{}, errors.Wrap(err, "summary")
	}
	sum := aggregate.Compute(exps, at)

	if s.cache != nil {
		payload, err := json.Marshal(sum)
		if err == nil {
			err = s.cache.CacheSummary(userID, day, string(payload))
		}
		if err != nil {
			logger.Error("cannot cache summary", zap.Error(err))
		}
	}
	return sum, nil
}

// Filtered applies the criteria over the full list, order preserved.
func (s *Service) Filtered(ctx context.Context, userID int64, c filter.Criteria) (filter.Result, error) {
	exps, err := s.storage.ListExpenses(ctx, userID)
	if err != nil {
		return filter.Result{}, errors.Wrap(err, "filtered view")
	}
	return filter.Apply(exps, c), nil
}

// ChartData feeds the two charts: the trailing-7-day daily series and the
// whole-set category distribution.
type ChartData struct {
	Daily      []aggregate.DayTotal
	Categories []aggregate.CategoryTotal
}

func (s *Service) Charts(ctx context.Context, userID int64, at time.Time) (ChartData, error) {
	exps, err := s.storage.ListExpenses(ctx, userID)
	if err != nil {
		return ChartData{}, errors.Wrap(err, "charts")
	}
	return ChartData{
		Daily:      aggregate.DailySeries(exps, at),
		Categories: aggregate.Distribution(exps),
	}, nil
}

func (s *Service) SetDailyBudget(ctx context.Context, userID int64, amount int64, at time.Time) error {
	if amount < 0 {
		return errNegativeBudget
	}
	cfg, err := s.storage.GetBudget(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "set daily budget")
	}
	if err = s.storage.SaveBudget(ctx, userID, cfg.WithDaily(amount)); err != nil {
		return errors.Wrap(err, "set daily budget")
	}
	s.invalidate(userID, at)
	return nil
}

func (s *Service) SetCategoryBudget(ctx context.Context, userID int64, category string, amount int64, at time.Time) error {
	if amount < 0 {
		return errNegativeBudget
	}
	cfg, err := s.storage.GetBudget(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "set category budget")
	}
	if err = s.storage.SaveBudget(ctx, userID, cfg.WithCategory(category, amount)); err != nil {
		return errors.Wrap(err, "set category budget")
	}
	s.invalidate(userID, at)
	return nil
}

// CategoryStatus pairs a category total with its budget evaluation.
type CategoryStatus struct {
	aggregate.CategoryTotal
	Evaluation budget.Evaluation
}

// BudgetReport is what the budget card and category cards render: today's
// spending against the daily budget and each category against its own.
type BudgetReport struct {
	Daily      budget.Evaluation
	Categories []CategoryStatus
}

func (s *Service) BudgetReport(ctx context.Context, userID int64, at time.Time) (BudgetReport, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "budgetReport")
	defer span.Finish()

	sess, err := s.Load(ctx, userID)
	if err != nil {
		ext.Error.Set(span, true)
		return BudgetReport{}, errors.Wrap(err, "budget report")
	}

	today := at.Format(expense.DateLayout)
	rep := BudgetReport{
		Daily: budget.Evaluate(spentOn(sess.Expenses, today), sess.Budget.Daily),
	}
	for _, ct := range aggregate.CategoryTotals(sess.Expenses) {
		rep.Categories = append(rep.Categories, CategoryStatus{
			CategoryTotal: ct,
			Evaluation:    budget.Evaluate(ct.Total, sess.Budget.CategoryLimit(ct.Category)),
		})
	}
	return rep, nil
}

// emitAlert publishes a tier-crossed alert once per causing mutation.
func (s *Service) emitAlert(userID int64, day string, spentBefore, spentAfter, limit int64) *budget.Alert {
	level, crossed := budget.Crossed(
		budget.Evaluate(spentBefore, limit),
		budget.Evaluate(spentAfter, limit),
	)
	if !crossed {
		return nil
	}
	eval := budget.Evaluate(spentAfter, limit)
	alert := &budget.Alert{
		UserID:     userID,
		Date:       day,
		Level:      level.String(),
		Spent:      eval.Spent,
		Limit:      eval.Limit,
		Percentage: eval.Percentage,
	}
	if s.producer == nil {
		return alert
	}
	msg, err := alert.Marshal()
	if err == nil {
		err = s.producer.ProduceMessage(msg)
	}
	if err != nil {
		logger.Error("cannot publish budget alert", zap.Error(err), zap.Int64("userID", userID))
	}
	return alert
}

func (s *Service) invalidate(userID int64, at time.Time) {
	if s.cache == nil {
		return
	}
	err := s.cache.InvalidateSummary(userID, at.Format(expense.DateLayout))
	if err != nil {
		logger.Error("cannot invalidate summary cache", zap.Error(err), zap.Int64("userID", userID))
	}
}

func spentOn(records []expense.Record, day string) int64 {
	var total int64
	for _, rec := range records {
		if rec.Date == day {
			total += rec.Total
		}
	}
	return total
}
