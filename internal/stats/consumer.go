package stats

import (
	"context"
	"encoding/json"
	"log"

	"ridemyway/internal/events"
	"ridemyway/internal/requests"
	"ridemyway/pkg/kafka"
)

// Subscriber reads domain events from a topic.
type Subscriber interface {
	Subscribe(ctx context.Context, topic, groupID string, handler func([]byte) error)
}

// Store applies counter updates to user accounts.
type Store interface {
	ApplyAccepted(ctx context.Context, ownerID, passengerID int64) error
}

// Consumer listens for resolved ride requests and keeps the per-user
// rides_given / rides_taken counters current.
type Consumer struct {
	sub   Subscriber
	store Store
}

// NewConsumer creates a stats consumer.
func NewConsumer(sub Subscriber, store Store) *Consumer {
	return &Consumer{sub: sub, store: store}
}

// Start begins consuming ride.request.resolved in a background goroutine.
func (c *Consumer) Start(ctx context.Context) {
	c.sub.Subscribe(ctx, kafka.TopicRequestResolved, "stats-group", func(data []byte) error {
		var ev events.RequestResolvedEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return err
		}
		if ev.Status != requests.StatusAccepted {
			return nil
		}

		log.Printf("[stats] request %d accepted → owner=%d passenger=%d", ev.RequestID, ev.OwnerID, ev.PassengerID)
		if err := c.store.ApplyAccepted(ctx, ev.OwnerID, ev.PassengerID); err != nil {
			log.Printf("[stats] failed to update counters for request %d: %v", ev.RequestID, err)
			return err
		}
		return nil
	})
}
