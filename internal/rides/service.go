package rides

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"ridemyway/internal/events"
	"ridemyway/pkg/kafka"
	"ridemyway/pkg/validation"
)

// Service failure categories.
var (
	ErrUserNotFound = errors.New("user account does not exist")
	ErrRideNotFound = errors.New("ride offer not found")
	ErrInvalidRide  = errors.New("origin and destination are required and price must not be negative")
)

// Cache is the read-through cache for single ride offers.
type Cache interface {
	CacheRide(ctx context.Context, rideID int64, fields map[string]string) error
	GetCachedRide(ctx context.Context, rideID int64) (map[string]string, error)
}

// Publisher emits domain events.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

// Service contains ride-offer business logic.
type Service struct {
	store Store
	cache Cache
	pub   Publisher
}

// NewService creates a ride service.
func NewService(store Store, cache Cache, pub Publisher) *Service {
	return &Service{store: store, cache: cache, pub: pub}
}

// Create publishes a new ride offer owned by the authenticated user.
// Price defaults to 0 when absent.
func (s *Service) Create(ctx context.Context, username string, req CreateRequest) (*Ride, error) {
	if !validation.ValidatePlace(req.Origin) || !validation.ValidatePlace(req.Destination) {
		return nil, ErrInvalidRide
	}
	var price int64
	if req.Price != nil {
		price = *req.Price
	}
	if !validation.ValidatePrice(price) {
		return nil, ErrInvalidRide
	}

	ownerID, err := s.store.UserIDByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	ride, err := s.store.Insert(ctx, ownerID, req.Origin, req.Destination, price)
	if err != nil {
		return nil, err
	}

	if err := s.cache.CacheRide(ctx, ride.ID, rideToFields(ride)); err != nil {
		log.Printf("[rides] failed to cache ride %d: %v", ride.ID, err)
	}

	// Async Kafka publish
	go func() {
		ev := events.RideOfferedEvent{
			EventID:     uuid.NewString(),
			RideID:      ride.ID,
			OwnerID:     ride.OwnerID,
			Origin:      ride.Origin,
			Destination: ride.Destination,
			Price:       ride.Price,
			OfferedAt:   ride.CreatedAt.Format(time.RFC3339),
		}
		if err := s.pub.Publish(context.Background(), kafka.TopicRideOffered, strconv.FormatInt(ride.ID, 10), ev); err != nil {
			log.Printf("[rides] failed to publish ride.offered: %v", err)
		}
	}()

	return ride, nil
}

// GetByID fetches a single offer, served from cache when possible.
func (s *Service) GetByID(ctx context.Context, id int64) (*Ride, error) {
	if fields, err := s.cache.GetCachedRide(ctx, id); err == nil && len(fields) > 0 {
		if ride, ok := rideFromFields(id, fields); ok {
			return ride, nil
		}
	}

	ride, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.CacheRide(ctx, ride.ID, rideToFields(ride)); err != nil {
		log.Printf("[rides] failed to cache ride %d: %v", ride.ID, err)
	}
	return ride, nil
}

// List returns every published offer, ordered by id ascending.
func (s *Service) List(ctx context.Context) ([]Ride, error) {
	return s.store.List(ctx)
}

// ---- cache encoding ----

func rideToFields(r *Ride) map[string]string {
	return map[string]string{
		"owner_id":    strconv.FormatInt(r.OwnerID, 10),
		"owner":       r.Owner,
		"origin":      r.Origin,
		"destination": r.Destination,
		"price":       strconv.FormatInt(r.Price, 10),
		"created_at":  r.CreatedAt.Format(time.RFC3339Nano),
	}
}

func rideFromFields(id int64, fields map[string]string) (*Ride, bool) {
	ownerID, err := strconv.ParseInt(fields["owner_id"], 10, 64)
	if err != nil {
		return nil, false
	}
	price, err := strconv.ParseInt(fields["price"], 10, 64)
	if err != nil {
		return nil, false
	}
	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return nil, false
	}
	if fields["owner"] == "" || fields["origin"] == "" || fields["destination"] == "" {
		return nil, false
	}
	return &Ride{
		ID:          id,
		OwnerID:     ownerID,
		Owner:       fields["owner"],
		Origin:      fields["origin"],
		Destination: fields["destination"],
		Price:       price,
		CreatedAt:   createdAt,
	}, true
}
