package kafka

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Shopify/sarama"
	"max.ks1230/expense-tracker/internal/logger"
	"max.ks1230/expense-tracker/internal/model/budget"
)

type consumerConfig interface {
	producerConfig
	ConsumerGroup() string
}

type alertHandler interface {
	HandleAlert(ctx context.Context, alert budget.Alert) error
}

type Consumer struct {
	consumerGroup sarama.ConsumerGroup
	topic         string
	handler       alertHandler
}

func NewConsumer(cfg consumerConfig, handler alertHandler) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V2_5_0_0
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	consumerGroup, err := sarama.NewConsumerGroup(cfg.Brokers(), cfg.ConsumerGroup(), config)
	return &Consumer{
		consumerGroup: consumerGroup,
		topic:         cfg.AlertsTopic(),
		handler:       handler,
	}, err
}

func (c *Consumer) StartConsuming(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			err := c.consumerGroup.Consume(ctx, []string{c.topic}, c)
			if err != nil {
				return errors.Wrap(err, fmt.Sprintf("consume from %s", c.topic))
			}
		}
	}
}

func (c *Consumer) Setup(sarama.ConsumerGroupSession) error {
	logger.Info("consumer - setup")
	return nil
}

func (c *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	logger.Info("consumer - cleanup")
	return nil
}

func (c *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		alert, err := budget.UnmarshalAlert(message.Value)
		if err != nil {
			logger.Error("cannot unmarshal kafka message", zap.Error(err))
		} else {
			logger.Info(
				"received budget alert",
				zap.ByteString("key", message.Key),
				zap.Int64("userID", alert.UserID),
				zap.String("level", alert.Level),
			)
			c.processAlert(session.Context(), alert)
		}
		session.MarkMessage(message, "")
	}

	return nil
}

func (c *Consumer) processAlert(ctx context.Context, alert budget.Alert) {
	err := c.handler.HandleAlert(ctx, alert)
	if err != nil {
		logger.Error("failed to handle alert", zap.Error(err))
	}
}
