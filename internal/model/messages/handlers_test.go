package messages

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"max.ks1230/expense-tracker/internal/model/session"
	"max.ks1230/expense-tracker/internal/model/storage"
)

var wednesday = time.Date(2024, time.April, 10, 12, 0, 0, 0, time.UTC)

type configStub struct{}

func (configStub) CurrencySymbol() string { return "Rp" }

func (configStub) Timezone() string { return "UTC" }

// tickingClock advances a millisecond per reading so consecutive adds get
// distinct record IDs while staying on the same day.
func tickingClock() func() time.Time {
	var n int64
	return func() time.Time {
		n++
		return wednesday.Add(time.Duration(n) * time.Millisecond)
	}
}

func newTestHandler() *HandlerService {
	tracker := session.NewService(storage.NewInMemStorage(), nil, nil)
	h := newHandler(tracker, configStub{})
	h.clock = tickingClock()
	return h
}

func Test_OnStartCommand_ShouldAnswerWithIntroMessage(t *testing.T) {
	h := newTestHandler()

	answer, err := h.HandleMessage(context.Background(), "/start", 1)

	require.NoError(t, err)
	assert.Equal(t, helloMessage, answer)
}

func Test_OnUnknownCommand_ShouldAnswerWithDontUnderstand(t *testing.T) {
	h := newTestHandler()

	answer, err := h.HandleMessage(context.Background(), "/whatever", 1)

	require.NoError(t, err)
	assert.Equal(t, dontUnderstandMessage, answer)
}

func Test_OnPlainText_ShouldAnswerWithSmallTalk(t *testing.T) {
	h := newTestHandler()

	answer, err := h.HandleMessage(context.Background(), "hello there", 1)

	require.NoError(t, err)
	assert.Equal(t, loveToTalkMessage, answer)
}

func Test_OnAddCommand_ShouldRecordAndListExpense(t *testing.T) {
	ctx := context.Background()
	h := newTestHandler()

	answer, err := h.HandleMessage(ctx, "/add Coffee 2 15000", 1)
	require.NoError(t, err)
	assert.Equal(t, addedMessage, answer)

	list, err := h.HandleMessage(ctx, "/list", 1)
	require.NoError(t, err)
	assert.Contains(t, list, "Coffee x2 @ Rp 15.000 = Rp 30.000")
	assert.Contains(t, list, "Total: Rp 30.000")
}

func Test_OnAddCommandWithBadUsage_ShouldExplain(t *testing.T) {
	ctx := context.Background()
	h := newTestHandler()

	answer, err := h.HandleMessage(ctx, "/add Coffee", 1)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(answer, incorrectUsageMessage))

	answer, err = h.HandleMessage(ctx, "/add Coffee two 15000", 1)
	require.NoError(t, err)
	assert.Contains(t, answer, `qty "two" is not a whole number`)
}

func Test_OnAddCommandWithUnknownCategory_ShouldAnswerWithValidationText(t *testing.T) {
	h := newTestHandler()

	answer, err := h.HandleMessage(context.Background(), "/add Coffee 2 15000 2024-04-10 Cash Weird", 1)

	require.NoError(t, err)
	assert.Equal(t, "unknown category Weird", answer)
}

func Test_OnEditCommand_ShouldUpdateRecord(t *testing.T) {
	ctx := context.Background()
	h := newTestHandler()

	_, err := h.HandleMessage(ctx, "/add Coffee 2 15000", 1)
	require.NoError(t, err)

	id := strconv.FormatInt(wednesday.Add(time.Millisecond).UnixMilli(), 10)
	answer, err := h.HandleMessage(ctx, "/edit "+id+" Coffee 3 15000", 1)
	require.NoError(t, err)
	assert.Equal(t, updatedMessage, answer)

	list, err := h.HandleMessage(ctx, "/list", 1)
	require.NoError(t, err)
	assert.Contains(t, list, "Coffee x3 @ Rp 15.000 = Rp 45.000")
}

func Test_OnDeleteCommandWithUnknownID_ShouldAnswerNotFound(t *testing.T) {
	h := newTestHandler()

	answer, err := h.HandleMessage(context.Background(), "/del ghost", 1)

	require.NoError(t, err)
	assert.Equal(t, recordNotFoundMessage, answer)
}

func Test_OnListCommandWithoutExpenses_ShouldAnswerNoExpenses(t *testing.T) {
	h := newTestHandler()

	answer, err := h.HandleMessage(context.Background(), "/list", 1)

	require.NoError(t, err)
	assert.Equal(t, noExpensesMessage, answer)
}

func Test_OnFilterCommand_ShouldScopeList(t *testing.T) {
	ctx := context.Background()
	h := newTestHandler()

	_, err := h.HandleMessage(ctx, "/add Coffee 2 15000 2024-04-10 Cash Food", 1)
	require.NoError(t, err)
	_, err = h.HandleMessage(ctx, "/add Bus 1 5000 2024-04-10 Card Transport", 1)
	require.NoError(t, err)

	answer, err := h.HandleMessage(ctx, "/filter category=Transport", 1)
	require.NoError(t, err)
	assert.Equal(t, "Filter: category=Transport", answer)

	list, err := h.HandleMessage(ctx, "/list", 1)
	require.NoError(t, err)
	assert.Contains(t, list, "Filtered view:")
	assert.Contains(t, list, "Bus")
	assert.NotContains(t, list, "Coffee")

	_, err = h.HandleMessage(ctx, "/filter category=Bills", 1)
	require.NoError(t, err)
	list, err = h.HandleMessage(ctx, "/list", 1)
	require.NoError(t, err)
	assert.Equal(t, "Nothing matches the current filter", list)

	answer, err = h.HandleMessage(ctx, "/filter off", 1)
	require.NoError(t, err)
	assert.Equal(t, filterOffMsg, answer)

	answer, err = h.HandleMessage(ctx, "/filter", 1)
	require.NoError(t, err)
	assert.Equal(t, "No filter active", answer)
}

func Test_OnEconomyCommand_ShouldToggleUnnecessaryMarks(t *testing.T) {
	ctx := context.Background()
	h := newTestHandler()

	_, err := h.HandleMessage(ctx, "/add Cinema 1 50000 2024-04-10 Cash Entertainment", 1)
	require.NoError(t, err)
	_, err = h.HandleMessage(ctx, "/add Sofa 1 150000 2024-04-10 Card Shopping", 1)
	require.NoError(t, err)
	_, err = h.HandleMessage(ctx, "/add Groceries 1 40000 2024-04-10 Cash Food", 1)
	require.NoError(t, err)

	list, err := h.HandleMessage(ctx, "/list", 1)
	require.NoError(t, err)
	assert.NotContains(t, list, "❗")

	answer, err := h.HandleMessage(ctx, "/economy", 1)
	require.NoError(t, err)
	assert.Equal(t, economyOnMsg, answer)

	list, err = h.HandleMessage(ctx, "/list", 1)
	require.NoError(t, err)
	for _, line := range strings.Split(list, "\n") {
		switch {
		case strings.Contains(line, "Cinema"), strings.Contains(line, "Sofa"):
			assert.True(t, strings.HasSuffix(line, "❗"), line)
		case strings.Contains(line, "Groceries"):
			assert.False(t, strings.HasSuffix(line, "❗"), line)
		}
	}

	answer, err = h.HandleMessage(ctx, "/economy", 1)
	require.NoError(t, err)
	assert.Equal(t, economyOffMsg, answer)

	list, err = h.HandleMessage(ctx, "/list", 1)
	require.NoError(t, err)
	assert.NotContains(t, list, "❗")
}

func Test_OnBudgetCommand_ShouldSetAndReport(t *testing.T) {
	ctx := context.Background()
	h := newTestHandler()

	answer, err := h.HandleMessage(ctx, "/budget abc", 1)
	require.NoError(t, err)
	assert.Equal(t, incorrectAmountMessage, answer)

	answer, err = h.HandleMessage(ctx, "/budget 50000", 1)
	require.NoError(t, err)
	assert.Equal(t, budgetSetMsg, answer)

	_, err = h.HandleMessage(ctx, "/add Coffee 2 15000", 1)
	require.NoError(t, err)

	report, err := h.HandleMessage(ctx, "/budget", 1)
	require.NoError(t, err)
	assert.Contains(t, report, "Daily budget: Rp 30.000 of Rp 50.000 (60%) ✓")
	assert.Contains(t, report, "Other: Rp 30.000 spent, no budget set")
}

func Test_OnAddCommandCrossingBudget_ShouldAppendAlert(t *testing.T) {
	ctx := context.Background()
	h := newTestHandler()

	_, err := h.HandleMessage(ctx, "/budget 50000", 1)
	require.NoError(t, err)

	answer, err := h.HandleMessage(ctx, "/add Coffee 2 15000", 1)
	require.NoError(t, err)
	assert.Equal(t, addedMessage, answer)

	answer, err = h.HandleMessage(ctx, "/add Lunch 1 15000", 1)
	require.NoError(t, err)
	assert.Contains(t, answer, addedMessage)
	assert.Contains(t, answer, "⚠️ Daily budget almost gone: 90% spent")
}

func Test_OnSummaryCommand_ShouldRenderTotals(t *testing.T) {
	ctx := context.Background()
	h := newTestHandler()

	_, err := h.HandleMessage(ctx, "/add Coffee 2 15000", 1)
	require.NoError(t, err)

	answer, err := h.HandleMessage(ctx, "/summary", 1)
	require.NoError(t, err)
	assert.Contains(t, answer, "Today: Rp 30.000")
	assert.Contains(t, answer, "Overall: Rp 30.000")
	assert.Contains(t, answer, "Other: Rp 30.000 (1 records)")
}

func Test_OnChartCommand_ShouldRenderSeries(t *testing.T) {
	ctx := context.Background()
	h := newTestHandler()

	_, err := h.HandleMessage(ctx, "/add Coffee 2 15000", 1)
	require.NoError(t, err)

	answer, err := h.HandleMessage(ctx, "/chart", 1)
	require.NoError(t, err)
	assert.Contains(t, answer, "Last 7 days:")
	assert.Contains(t, answer, "2024-04-04: Rp 0")
	assert.Contains(t, answer, "2024-04-10: Rp 30.000")
}

func Test_OnExportCommand_ShouldRenderCSV(t *testing.T) {
	ctx := context.Background()
	h := newTestHandler()

	answer, err := h.HandleMessage(ctx, "/export", 1)
	require.NoError(t, err)
	assert.Equal(t, noExpensesMessage, answer)

	_, err = h.HandleMessage(ctx, "/add Coffee 2 15000", 1)
	require.NoError(t, err)

	answer, err = h.HandleMessage(ctx, "/export", 1)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(answer), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Item,Qty,Price,Total,Date,Method,Category", lines[0])
	assert.Equal(t, `"Coffee","2","15000","30000","2024-04-10","Cash","Other"`, lines[1])
}

func Test_FormatAmount_ShouldInsertSeparators(t *testing.T) {
	h := newTestHandler()

	cases := map[int64]string{
		0:       "Rp 0",
		999:     "Rp 999",
		30000:   "Rp 30.000",
		1234567: "Rp 1.234.567",
	}
	for n, want := range cases {
		assert.Equal(t, want, h.formatAmount(n))
	}
}
