// Package kafka hosts the consumer group that delivers remote order
// lifecycle events into the ordering core. Delivery may be out of order;
// the order store's monotonicity guard makes re-delivery and reordering
// safe, so handlers only need to be idempotent per message.
package kafka

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/manify/cram-eats/pkg/mylogger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type HandlerFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

type ConsumerGroup struct {
	brokers []string
	groupID string
	topics  []string
	handler HandlerFunc
	logger  *zap.Logger
}

func NewConsumerGroup(brokers []string, groupID string, topics []string, handler HandlerFunc, logger *zap.Logger) *ConsumerGroup {
	return &ConsumerGroup{
		brokers: brokers,
		groupID: groupID,
		topics:  topics,
		handler: handler,
		logger:  logger,
	}
}

// Run consumes until ctx is cancelled. Handler errors leave the message
// unmarked so it is redelivered.
func (c *ConsumerGroup) Run(ctx context.Context) error {
	config := sarama.NewConfig()
	config.Version = sarama.V3_0_0_0
	config.Consumer.Return.Errors = true
	config.Consumer.Offsets.Initial = sarama.OffsetOldest
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.BalanceStrategyRoundRobin}

	group, err := sarama.NewConsumerGroup(c.brokers, c.groupID, config)
	if err != nil {
		return fmt.Errorf("create consumer group: %w", err)
	}
	defer func() {
		if err := group.Close(); err != nil {
			c.logger.Error("failed to close consumer group", zap.Error(err))
		}
	}()

	h := &groupHandler{handler: c.handler, logger: c.logger}

	for {
		if err := group.Consume(ctx, c.topics, h); err != nil {
			mylogger.Error(ctx, c.logger, "consume loop error", zap.Error(err))
		}
		if ctx.Err() != nil {
			mylogger.Info(ctx, c.logger, "context cancelled, consumer shutting down")
			return nil
		}
	}
}

type groupHandler struct {
	handler HandlerFunc
	logger  *zap.Logger
}

func (h *groupHandler) Setup(_ sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(_ sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		ctx, span := h.spanFor(session.Context(), msg)

		err := h.handler(ctx, msg)
		if err == nil {
			session.MarkMessage(msg, "")
		} else {
			mylogger.Error(
				ctx,
				h.logger,
				"failed to process message",
				zap.String("topic", msg.Topic),
				zap.Int32("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}

		span.End()
	}
	return nil
}

func (h *groupHandler) spanFor(ctx context.Context, msg *sarama.ConsumerMessage) (context.Context, trace.Span) {
	carrier := propagation.MapCarrier{}
	for _, header := range msg.Headers {
		carrier[string(header.Key)] = string(header.Value)
	}
	ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)

	return otel.Tracer("pkg/kafka").Start(ctx, "kafka_process",
		trace.WithSpanKind(trace.SpanKindConsumer),
	)
}
