package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"max.ks1230/expense-tracker/internal/entity/expense"
	"max.ks1230/expense-tracker/internal/model/budget"
	"max.ks1230/expense-tracker/internal/model/customerr"
	"max.ks1230/expense-tracker/internal/model/filter"
	"max.ks1230/expense-tracker/internal/model/storage"
)

var wednesday = time.Date(2024, time.April, 10, 12, 0, 0, 0, time.UTC)

const today = "2024-04-10"

type producerStub struct {
	messages [][]byte
}

func (p *producerStub) ProduceMessage(message []byte) error {
	p.messages = append(p.messages, message)
	return nil
}

type cacheStub struct {
	items map[string]string
}

func newCacheStub() *cacheStub {
	return &cacheStub{items: make(map[string]string)}
}

func (c *cacheStub) key(userID int64, day string) string {
	return fmt.Sprintf("%d:%s", userID, day)
}

func (c *cacheStub) CacheSummary(userID int64, day string, payload string) error {
	c.items[c.key(userID, day)] = payload
	return nil
}

func (c *cacheStub) GetSummary(userID int64, day string) (string, error) {
	payload, ok := c.items[c.key(userID, day)]
	if !ok {
		return "", errors.New("cache miss")
	}
	return payload, nil
}

func (c *cacheStub) InvalidateSummary(userID int64, day string) error {
	delete(c.items, c.key(userID, day))
	return nil
}

func Test_OnAddExpense_ShouldStoreDerivedRecord(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewInMemStorage(), nil, nil)

	rec, alert, err := s.AddExpense(ctx, 1, "Coffee", 2, 15000, today, expense.MethodCash, expense.CategoryFood, wednesday)

	require.NoError(t, err)
	assert.Nil(t, alert)
	assert.Equal(t, int64(30000), rec.Total)

	sess, err := s.Load(ctx, 1)
	require.NoError(t, err)
	require.Len(t, sess.Expenses, 1)
	assert.Equal(t, rec, sess.Expenses[0])
}

func Test_OnAddExpenseWithBadInput_ShouldRejectWithoutMutation(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewInMemStorage(), nil, nil)

	cases := []struct {
		name string
		item string
		qty  int64
		prc  int64
		date string
	}{
		{"empty item", "  ", 1, 100, today},
		{"zero qty", "Coffee", 0, 100, today},
		{"negative price", "Coffee", 1, -5, today},
		{"missing date", "Coffee", 1, 100, ""},
	}
	for _, tc := range cases {
		_, _, err := s.AddExpense(ctx, 1, tc.item, tc.qty, tc.prc, tc.date, expense.MethodCash, expense.CategoryFood, wednesday)
		var validation *customerr.ValidationError
		assert.True(t, errors.As(err, &validation), tc.name)
	}

	sess, err := s.Load(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, sess.Expenses)
}

func Test_OnAddExpenseCrossingTier_ShouldPublishAlertOnce(t *testing.T) {
	ctx := context.Background()
	producer := &producerStub{}
	s := NewService(storage.NewInMemStorage(), nil, producer)

	require.NoError(t, s.SetDailyBudget(ctx, 1, 50000, wednesday))

	// 60% of the daily budget: still ok, nothing published.
	_, alert, err := s.AddExpense(ctx, 1, "Coffee", 2, 15000, today, expense.MethodCash, expense.CategoryFood, wednesday)
	require.NoError(t, err)
	assert.Nil(t, alert)
	assert.Empty(t, producer.messages)

	// 90%: crossing straight into critical fires exactly one alert.
	_, alert, err = s.AddExpense(ctx, 1, "Lunch", 1, 15000, today, expense.MethodCash, expense.CategoryFood, wednesday.Add(time.Millisecond))
	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.Equal(t, "critical", alert.Level)
	assert.InDelta(t, 90.0, alert.Percentage, 1e-9)
	require.Len(t, producer.messages, 1)

	published, err := budget.UnmarshalAlert(producer.messages[0])
	require.NoError(t, err)
	assert.Equal(t, *alert, published)

	// Staying inside the same tier is silent.
	_, alert, err = s.AddExpense(ctx, 1, "Snack", 1, 1000, today, expense.MethodCash, expense.CategoryFood, wednesday.Add(2*time.Millisecond))
	require.NoError(t, err)
	assert.Nil(t, alert)
	assert.Len(t, producer.messages, 1)
}

func Test_OnBudgetReport_ShouldEvaluateDailyAndCategories(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewInMemStorage(), nil, nil)

	require.NoError(t, s.SetDailyBudget(ctx, 1, 50000, wednesday))
	require.NoError(t, s.SetCategoryBudget(ctx, 1, expense.CategoryFood, 40000, wednesday))
	_, _, err := s.AddExpense(ctx, 1, "Coffee", 2, 15000, today, expense.MethodCash, expense.CategoryFood, wednesday)
	require.NoError(t, err)

	rep, err := s.BudgetReport(ctx, 1, wednesday)
	require.NoError(t, err)

	assert.InDelta(t, 60.0, rep.Daily.Percentage, 1e-9)
	assert.Equal(t, "ok", rep.Daily.Level.String())
	require.Len(t, rep.Categories, 1)
	assert.Equal(t, expense.CategoryFood, rep.Categories[0].Category)
	assert.InDelta(t, 75.0, rep.Categories[0].Evaluation.Percentage, 1e-9)
	assert.Equal(t, "warning", rep.Categories[0].Evaluation.Level.String())
}

func Test_OnUpdateExpense_ShouldRecomputeTotal(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewInMemStorage(), nil, nil)

	rec, _, err := s.AddExpense(ctx, 1, "Coffee", 2, 15000, today, expense.MethodCash, expense.CategoryFood, wednesday)
	require.NoError(t, err)

	updated, _, err := s.UpdateExpense(ctx, 1, rec.ID, "Coffee", 3, 15000, today, expense.MethodCard, expense.CategoryFood, wednesday)
	require.NoError(t, err)

	assert.Equal(t, rec.ID, updated.ID)
	assert.Equal(t, int64(45000), updated.Total)
	assert.Equal(t, updated.Qty*updated.Price, updated.Total)

	sess, _ := s.Load(ctx, 1)
	assert.Equal(t, updated, sess.Expenses[0])
}

func Test_OnUpdateUnknownExpense_ShouldReturnNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewInMemStorage(), nil, nil)

	_, _, err := s.UpdateExpense(ctx, 1, "ghost", "Coffee", 1, 100, today, expense.MethodCash, expense.CategoryFood, wednesday)

	var notFound *customerr.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func Test_OnDeleteUnknownExpense_ShouldReturnNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewInMemStorage(), nil, nil)

	err := s.DeleteExpense(ctx, 1, "ghost", wednesday)

	var notFound *customerr.NotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func Test_OnSummary_ShouldReadThroughCacheUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	store := storage.NewInMemStorage()
	cache := newCacheStub()
	s := NewService(store, cache, nil)

	_, _, err := s.AddExpense(ctx, 1, "Coffee", 2, 15000, today, expense.MethodCash, expense.CategoryFood, wednesday)
	require.NoError(t, err)

	first, err := s.Summary(ctx, 1, wednesday)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), first.Today.Total)

	// A write behind the service's back is invisible while cached.
	require.NoError(t, store.SaveExpense(ctx, 1, expense.Record{ID: "x", Total: 99, Date: today}))
	cached, err := s.Summary(ctx, 1, wednesday)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	// A mutation through the service invalidates and recomputes.
	_, _, err = s.AddExpense(ctx, 1, "Bus", 1, 1000, today, expense.MethodCash, expense.CategoryTransport, wednesday.Add(time.Millisecond))
	require.NoError(t, err)
	fresh, err := s.Summary(ctx, 1, wednesday)
	require.NoError(t, err)
	assert.Equal(t, int64(31099), fresh.Today.Total)
}

func Test_OnFiltered_ShouldApplyCriteriaOverSnapshot(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewInMemStorage(), nil, nil)

	_, _, err := s.AddExpense(ctx, 1, "Coffee", 2, 15000, today, expense.MethodCash, expense.CategoryFood, wednesday)
	require.NoError(t, err)
	_, _, err = s.AddExpense(ctx, 1, "Bus", 1, 1000, today, expense.MethodCard, expense.CategoryTransport, wednesday.Add(time.Millisecond))
	require.NoError(t, err)

	res, err := s.Filtered(ctx, 1, filter.Criteria{Category: expense.CategoryFood})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "Coffee", res.Records[0].Item)

	all, err := s.Filtered(ctx, 1, filter.Criteria{})
	require.NoError(t, err)
	assert.False(t, all.Active)
	assert.Len(t, all.Records, 2)
}

func Test_OnCharts_ShouldReturnSeriesAndDistribution(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewInMemStorage(), nil, nil)

	_, _, err := s.AddExpense(ctx, 1, "Coffee", 2, 15000, today, expense.MethodCash, expense.CategoryFood, wednesday)
	require.NoError(t, err)

	charts, err := s.Charts(ctx, 1, wednesday)
	require.NoError(t, err)

	require.Len(t, charts.Daily, 7)
	assert.Equal(t, int64(30000), charts.Daily[6].Total)
	require.Len(t, charts.Categories, 1)
	assert.Equal(t, int64(30000), charts.Categories[0].Total)
}
