package storage

import (
	"context"

	"max.ks1230/expense-tracker/internal/entity/budget"
	"max.ks1230/expense-tracker/internal/entity/expense"
	"max.ks1230/expense-tracker/internal/model/customerr"
)

type userState struct {
	expenses []expense.Record
	budget   budget.Config
}

// InMemStorage keeps per-user state in a map. It backs tests and offline
// runs; the record list is newest entry first, matching the persistent
// store.
type InMemStorage struct {
	users map[int64]*userState
}

func NewInMemStorage() *InMemStorage {
	return &InMemStorage{users: make(map[int64]*userState)}
}

func (s *InMemStorage) state(userID int64) *userState {
	u, ok := s.users[userID]
	if !ok {
		u = &userState{}
		s.users[userID] = u
	}
	return u
}

func (s *InMemStorage) ListExpenses(_ context.Context, userID int64) ([]expense.Record, error) {
	u := s.state(userID)
	res := make([]expense.Record, len(u.expenses))
	copy(res, u.expenses)
	return res, nil
}

func (s *InMemStorage) SaveExpense(_ context.Context, userID int64, rec expense.Record) error {
	u := s.state(userID)
	u.expenses = append([]expense.Record{rec}, u.expenses...)
	return nil
}

func (s *InMemStorage) UpdateExpense(_ context.Context, userID int64, rec expense.Record) error {
	u := s.state(userID)
	for i := range u.expenses {
		if u.expenses[i].ID == rec.ID {
			u.expenses[i] = rec
			return nil
		}
	}
	return &customerr.NotFoundError{ID: rec.ID}
}

func (s *InMemStorage) DeleteExpense(_ context.Context, userID int64, id string) error {
	u := s.state(userID)
	for i := range u.expenses {
		if u.expenses[i].ID == id {
			u.expenses = append(u.expenses[:i], u.expenses[i+1:]...)
			return nil
		}
	}
	return &customerr.NotFoundError{ID: id}
}

func (s *InMemStorage) GetBudget(_ context.Context, userID int64) (budget.Config, error) {
	return s.state(userID).budget, nil
}

func (s *InMemStorage) SaveBudget(_ context.Context, userID int64, cfg budget.Config) error {
	s.state(userID).budget = cfg
	return nil
}
