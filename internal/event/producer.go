package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/travelgo/travel-booking/pkg/kafka"
	"github.com/travelgo/travel-booking/pkg/logger"
)

// Kafka topics for wishlist domain events.
var (
	TopicWishlistItemAdded   = kafka.Topic("wishlist", "item_added")
	TopicWishlistItemRemoved = kafka.Topic("wishlist", "item_removed")
)

// Event types carried in the envelope.
const (
	TypeWishlistItemAdded   = "wishlist.item_added"
	TypeWishlistItemRemoved = "wishlist.item_removed"
)

// AggregateTypeTour keys wishlist events by tour so per-tour counters
// downstream see them in order.
const AggregateTypeTour = "tour"

// SourceTravelBooking identifies events originating from this service.
const SourceTravelBooking = "travel-booking"

// WishlistItemData is the payload for wishlist item events.
type WishlistItemData struct {
	UserID     string    `json:"user_id"`
	TourID     string    `json:"tour_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher is the low-level event sink.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *kafka.Event) error
}

// Producer publishes wishlist domain events.
type Producer struct {
	publisher Publisher
	logger    *slog.Logger
}

// NewProducer creates a new wishlist event producer.
func NewProducer(publisher Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		publisher: publisher,
		logger:    logger,
	}
}

// PublishItemAdded publishes a wishlist.item_added event.
func (p *Producer) PublishItemAdded(ctx context.Context, userID, tourID string) error {
	return p.publish(ctx, TopicWishlistItemAdded, TypeWishlistItemAdded, userID, tourID)
}

// PublishItemRemoved publishes a wishlist.item_removed event.
func (p *Producer) PublishItemRemoved(ctx context.Context, userID, tourID string) error {
	return p.publish(ctx, TopicWishlistItemRemoved, TypeWishlistItemRemoved, userID, tourID)
}

func (p *Producer) publish(ctx context.Context, topic, eventType, userID, tourID string) error {
	data := WishlistItemData{
		UserID:     userID,
		TourID:     tourID,
		OccurredAt: time.Now().UTC(),
	}

	ev, err := kafka.NewEvent(eventType, tourID, AggregateTypeTour, SourceTravelBooking, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", eventType, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		ev.WithCorrelationID(id)
	}

	if err := p.publisher.Publish(ctx, topic, ev); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}

	p.logger.DebugContext(ctx, "published "+eventType+" event",
		slog.String("user_id", userID),
		slog.String("tour_id", tourID),
	)

	return nil
}
