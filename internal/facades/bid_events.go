package facades

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/sbilibin2017/auction-live/internal/logger"
	"github.com/sbilibin2017/auction-live/internal/models"
)

//go:generate mockgen -source=bid_events.go -destination=mock_bid_events.go -package=facades

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// BidEventsKafkaFacade publishes accepted bids to Kafka.
type BidEventsKafkaFacade struct {
	writer KafkaWriter
}

// NewBidEventsKafkaFacade creates a facade writing through writer.
func NewBidEventsKafkaFacade(writer KafkaWriter) *BidEventsKafkaFacade {
	return &BidEventsKafkaFacade{writer: writer}
}

// NewKafkaWriter creates a writer for topic on the given brokers.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// PublishBidPlaced writes the event keyed by item id, so events of one item stay ordered.
func (f *BidEventsKafkaFacade) PublishBidPlaced(ctx context.Context, event models.BidEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.ItemID),
		Value: data,
	}

	if err := f.writer.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish bid event", "event_id", event.EventID, "error", err)
		return err
	}

	logger.Log.Infow("bid event published", "event_id", event.EventID, "item_id", event.ItemID, "amount", event.Amount)
	return nil
}

// Close closes the underlying writer.
func (f *BidEventsKafkaFacade) Close() error {
	return f.writer.Close()
}
