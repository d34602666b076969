package alerts

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"max.ks1230/expense-tracker/internal/logger"
	"max.ks1230/expense-tracker/internal/model/budget"
	"max.ks1230/expense-tracker/internal/model/tier"
)

const (
	warningText  = "⚡ Daily budget reached 70%%: %d of %d spent"
	criticalText = "⚠️ Daily budget almost gone: %d of %d spent"
)

type messageSender interface {
	SendMessage(text string, userID int64) error
}

// Notifier turns budget alerts into user-facing notifications. Display
// goes back through the same message channel the tracker answers on.
type Notifier struct {
	sender messageSender
}

func NewNotifier(sender messageSender) *Notifier {
	return &Notifier{sender: sender}
}

func (n *Notifier) HandleAlert(ctx context.Context, alert budget.Alert) error {
	logger.Info("notify budget alert",
		zap.Int64("userID", alert.UserID),
		zap.String("level", alert.Level),
		zap.Float64("percentage", alert.Percentage),
	)

	text := fmt.Sprintf(warningText, alert.Spent, alert.Limit)
	if alert.Level == tier.LevelCritical.String() {
		text = fmt.Sprintf(criticalText, alert.Spent, alert.Limit)
	}
	return n.sender.SendMessage(text, alert.UserID)
}
