package messages

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"max.ks1230/expense-tracker/internal/entity/expense"
	"max.ks1230/expense-tracker/internal/model/aggregate"
	"max.ks1230/expense-tracker/internal/model/budget"
	"max.ks1230/expense-tracker/internal/model/customerr"
	"max.ks1230/expense-tracker/internal/model/filter"
	"max.ks1230/expense-tracker/internal/model/session"
)

const (
	dontUnderstandMessage = "I don't understand you :("
	helloMessage          = "Hello! I am ExpenseTracker bot 🤖\n" +
		"/add <item> <qty> <price> [date] [method] [category] — record an expense\n" +
		"/edit <id> <item> <qty> <price> [date] [method] [category] — edit one\n" +
		"/del <id> — delete one\n" +
		"/list — show records (current filter applies)\n" +
		"/summary — totals and trends\n" +
		"/budget [amount] — show or set the daily budget\n" +
		"/catbudget <category> <amount> — set a category budget\n" +
		"/filter key=value ... | /filter off — filter the list\n" +
		"/economy — toggle marking of unnecessary expenses\n" +
		"/chart — last 7 days and category split\n" +
		"/export — records as CSV"
	loveToTalkMessage = "I would love to talk about it more!"
	noExpensesMessage = "You have no expenses yet"

	addedMessage   = "Expense recorded ✅"
	updatedMessage = "Expense updated ✅"
	deletedMessage = "Expense deleted ✅"
	budgetSetMsg   = "Budget saved ✅"
	filterOffMsg   = "Filter cleared"

	economyOnMsg  = "Economy mode on: unnecessary expenses are marked ❗"
	economyOffMsg = "Economy mode off"

	incorrectUsageMessage  = "That is an incorrect command usage"
	cannotGetDataMessage   = "Can't get your expenses atm. Try later"
	cannotSaveDataMessage  = "Can't save your expense atm. Try later"
	recordNotFoundMessage  = "I can't find that record"
	incorrectAmountMessage = "The amount should be a whole non-negative number"
)

const (
	startCommand     = "/start"
	addCommand       = "/add"
	editCommand      = "/edit"
	deleteCommand    = "/del"
	listCommand      = "/list"
	summaryCommand   = "/summary"
	budgetCommand    = "/budget"
	catBudgetCommand = "/catbudget"
	filterCommand    = "/filter"
	economyCommand   = "/economy"
	chartCommand     = "/chart"
	exportCommand    = "/export"
)

type tracker interface {
	AddExpense(ctx context.Context, userID int64, item string, qty, price int64, date, method, category string, at time.Time) (expense.Record, *budget.Alert, error)
	UpdateExpense(ctx context.Context, userID int64, id, item string, qty, price int64, date, method, category string, at time.Time) (expense.Record, *budget.Alert, error)
	DeleteExpense(ctx context.Context, userID int64, id string, at time.Time) error
	Summary(ctx context.Context, userID int64, at time.Time) (aggregate.Summary, error)
	Filtered(ctx context.Context, userID int64, c filter.Criteria) (filter.Result, error)
	Charts(ctx context.Context, userID int64, at time.Time) (session.ChartData, error)
	BudgetReport(ctx context.Context, userID int64, at time.Time) (session.BudgetReport, error)
	SetDailyBudget(ctx context.Context, userID int64, amount int64, at time.Time) error
	SetCategoryBudget(ctx context.Context, userID int64, category string, amount int64, at time.Time) error
}

type config interface {
	CurrencySymbol() string
	Timezone() string
}

type handler func(ctx context.Context, arg string, user int64) (string, error)

type handlerMap map[string]handler

type HandlerService struct {
	handlersMap handlerMap
	tracker     tracker
	currency    string
	loc         *time.Location
	clock       func() time.Time

	// filters and economy are transient presentation state, one criteria
	// set and one economy-mode flag per user.
	filters map[int64]filter.Criteria
	economy map[int64]bool
}

func newHandler(tracker tracker, config config) *HandlerService {
	res := &HandlerService{
		handlersMap: nil,
		tracker:     tracker,
		currency:    config.CurrencySymbol(),
		loc:         location(config.Timezone()),
		clock:       time.Now,
		filters:     make(map[int64]filter.Criteria),
		economy:     make(map[int64]bool),
	}
	res.handlersMap = newMap(res)
	return res
}

func (s *HandlerService) HandleMessage(ctx context.Context, text string, userID int64) (string, error) {
	cmd, arg := parseCommand(text)

	handler, ok := s.handlersMap[cmd]
	if ok {
		return handler(ctx, arg, userID)
	}
	return dontUnderstandMessage, nil
}

func newMap(s *HandlerService) handlerMap {
	m := make(handlerMap)
	m[startCommand] = s.handleStart
	m[addCommand] = s.handleAdd
	m[editCommand] = s.handleEdit
	m[deleteCommand] = s.handleDelete
	m[listCommand] = s.handleList
	m[summaryCommand] = s.handleSummary
	m[budgetCommand] = s.handleBudget
	m[catBudgetCommand] = s.handleCategoryBudget
	m[filterCommand] = s.handleFilter
	m[economyCommand] = s.handleEconomy
	m[chartCommand] = s.handleChart
	m[exportCommand] = s.handleExport

	m[""] = s.handleNoCommand

	return m
}

func (s *HandlerService) now() time.Time {
	return s.clock().In(s.loc)
}

func (s *HandlerService) handleStart(_ context.Context, _ string, _ int64) (string, error) {
	return helloMessage, nil
}

func (s *HandlerService) handleAdd(ctx context.Context, arg string, userID int64) (string, error) {
	at := s.now()
	in, err := parseEntry(arg, at)
	if err != nil {
		return incorrectUsageMessage + "\n" + err.Error(), nil
	}

	_, alert, err := s.tracker.AddExpense(ctx, userID, in.item, in.qty, in.price, in.date, in.method, in.category, at)
	if err != nil {
		return reactToError(err, cannotSaveDataMessage)
	}
	return addedMessage + s.formatAlert(alert), nil
}

func (s *HandlerService) handleEdit(ctx context.Context, arg string, userID int64) (string, error) {
	id, rest := splitFirst(arg)
	if id == "" {
		return incorrectUsageMessage, nil
	}
	at := s.now()
	in, err := parseEntry(rest, at)
	if err != nil {
		return incorrectUsageMessage + "\n" + err.Error(), nil
	}

	_, alert, err := s.tracker.UpdateExpense(ctx, userID, id, in.item, in.qty, in.price, in.date, in.method, in.category, at)
	if err != nil {
		return reactToError(err, cannotSaveDataMessage)
	}
	return updatedMessage + s.formatAlert(alert), nil
}

func (s *HandlerService) handleDelete(ctx context.Context, arg string, userID int64) (string, error) {
	id := strings.TrimSpace(arg)
	if id == "" {
		return incorrectUsageMessage, nil
	}
	err := s.tracker.DeleteExpense(ctx, userID, id, s.now())
	if err != nil {
		return reactToError(err, cannotSaveDataMessage)
	}
	return deletedMessage, nil
}

func (s *HandlerService) handleList(ctx context.Context, _ string, userID int64) (string, error) {
	res, err := s.tracker.Filtered(ctx, userID, s.filters[userID])
	if err != nil {
		return cannotGetDataMessage, errors.Wrap(err, "handle list")
	}
	if len(res.Records) == 0 {
		if res.Active {
			return "Nothing matches the current filter", nil
		}
		return noExpensesMessage, nil
	}
	return s.formatRecords(res, s.economy[userID]), nil
}

func (s *HandlerService) handleSummary(ctx context.Context, _ string, userID int64) (string, error) {
	sum, err := s.tracker.Summary(ctx, userID, s.now())
	if err != nil {
		return cannotGetDataMessage, errors.Wrap(err, "handle summary")
	}
	return s.formatSummary(sum), nil
}

func (s *HandlerService) handleBudget(ctx context.Context, arg string, userID int64) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		rep, err := s.tracker.BudgetReport(ctx, userID, s.now())
		if err != nil {
			return cannotGetDataMessage, errors.Wrap(err, "handle budget")
		}
		return s.formatBudgetReport(rep), nil
	}

	amount, err := parseAmount(arg)
	if err != nil {
		return incorrectAmountMessage, nil
	}
	if err = s.tracker.SetDailyBudget(ctx, userID, amount, s.now()); err != nil {
		return reactToError(err, cannotSaveDataMessage)
	}
	return budgetSetMsg, nil
}

func (s *HandlerService) handleCategoryBudget(ctx context.Context, arg string, userID int64) (string, error) {
	category, rest := splitFirst(arg)
	amount, err := parseAmount(strings.TrimSpace(rest))
	if category == "" || err != nil {
		return incorrectUsageMessage, nil
	}
	if err = s.tracker.SetCategoryBudget(ctx, userID, category, amount, s.now()); err != nil {
		return reactToError(err, cannotSaveDataMessage)
	}
	return budgetSetMsg, nil
}

func (s *HandlerService) handleFilter(_ context.Context, arg string, userID int64) (string, error) {
	arg = strings.TrimSpace(arg)
	switch arg {
	case "":
		return s.formatCriteria(s.filters[userID]), nil
	case "off":
		delete(s.filters, userID)
		return filterOffMsg, nil
	}

	criteria, err := parseCriteria(arg)
	if err != nil {
		return incorrectUsageMessage + "\n" + err.Error(), nil
	}
	s.filters[userID] = criteria
	return s.formatCriteria(criteria), nil
}

func (s *HandlerService) handleEconomy(_ context.Context, _ string, userID int64) (string, error) {
	if s.economy[userID] {
		delete(s.economy, userID)
		return economyOffMsg, nil
	}
	s.economy[userID] = true
	return economyOnMsg, nil
}

func (s *HandlerService) handleChart(ctx context.Context, _ string, userID int64) (string, error) {
	charts, err := s.tracker.Charts(ctx, userID, s.now())
	if err != nil {
		return cannotGetDataMessage, errors.Wrap(err, "handle chart")
	}
	return s.formatCharts(charts), nil
}

func (s *HandlerService) handleExport(ctx context.Context, _ string, userID int64) (string, error) {
	res, err := s.tracker.Filtered(ctx, userID, filter.Criteria{})
	if err != nil {
		return cannotGetDataMessage, errors.Wrap(err, "handle export")
	}
	if len(res.Records) == 0 {
		return noExpensesMessage, nil
	}
	return formatCSV(res.Records)
}

func (s *HandlerService) handleNoCommand(_ context.Context, _ string, _ int64) (string, error) {
	return loveToTalkMessage, nil
}

// reactToError keeps user-caused failures conversational and lets real
// failures propagate.
func reactToError(err error, fallback string) (string, error) {
	var validation *customerr.ValidationError
	if errors.As(err, &validation) {
		return validation.Err, nil
	}
	var notFound *customerr.NotFoundError
	if errors.As(err, &notFound) {
		return recordNotFoundMessage, nil
	}
	return fallback, err
}
