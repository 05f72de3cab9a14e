package alert

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/navid-fn/radar/internal/models"
	"github.com/segmentio/kafka-go"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const writeTimeout = 5 * time.Second

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes one message per opportunity, keyed by symbol so
// that every asset lands on a stable partition.
type KafkaNotifier struct {
	writer messageWriter
	logger *slog.Logger
}

func NewKafkaNotifier(broker, topic string, logger *slog.Logger) *KafkaNotifier {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		Compression:  kafka.Zstd,
	}
	return newKafkaNotifier(writer, logger)
}

func newKafkaNotifier(writer messageWriter, logger *slog.Logger) *KafkaNotifier {
	return &KafkaNotifier{writer: writer, logger: logger.With("notifier", "kafka")}
}

func (n *KafkaNotifier) Name() string { return "kafka" }

func (n *KafkaNotifier) Notify(ctx context.Context, ops []models.Opportunity) error {
	msgs := make([]kafka.Message, 0, len(ops))
	for _, op := range ops {
		value, err := EncodeOpportunity(op)
		if err != nil {
			return fmt.Errorf("encode %s: %w", op.Symbol, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(op.Symbol),
			Value: value,
			Time:  op.Timestamp,
		})
	}

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := n.writer.WriteMessages(writeCtx, msgs...); err != nil {
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	n.logger.Debug("Opportunities published", "count", len(msgs))
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// EncodeOpportunity serializes op as a protobuf google.protobuf.Struct.
func EncodeOpportunity(op models.Opportunity) ([]byte, error) {
	s, err := structpb.NewStruct(map[string]any{
		"timestamp":             op.Timestamp.UTC().Format(time.RFC3339),
		"symbol":                op.Symbol,
		"usdt_price":            op.USDTPrice.InexactFloat64(),
		"bridged_price":         op.BridgedPrice.InexactFloat64(),
		"tmn_price":             op.TMNPrice.InexactFloat64(),
		"price_difference":      op.PriceDifference.InexactFloat64(),
		"percentage_difference": op.PercentageDifference.InexactFloat64(),
		"usdt_quote_volume":     op.USDTQuoteVolume.InexactFloat64(),
		"tmn_quote_volume":      op.TMNQuoteVolume.InexactFloat64(),
	})
	if err != nil {
		return nil, err
	}
	return proto.Marshal(s)
}
