package requests

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"ridemyway/internal/events"
	"ridemyway/pkg/kafka"
)

// Service failure categories.
var (
	ErrUserNotFound    = errors.New("user account does not exist")
	ErrRideNotFound    = errors.New("ride offer not found")
	ErrRequestNotFound = errors.New("ride request not found")
	ErrInvalidDecision = errors.New("specify your decision by setting the decision key to accept or reject")
	ErrAlreadyResolved = errors.New("this ride request has already been resolved")

	// ErrNotRideOwner gates listing; the message matches the public contract.
	ErrNotRideOwner = errors.New("You are not authorized to view these ride requests because you did not create this ride offer")
	// ErrNotRequestOwner gates resolution.
	ErrNotRequestOwner = errors.New("You are not authorized to resolve this ride request because you did not create this ride offer")

	errNotOwner = errors.New("caller does not own this ride")
)

// Publisher emits domain events.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

// Service owns the request lifecycle: creation in PENDING state and the
// owner-only transition to ACCEPTED or REJECTED.
type Service struct {
	store Store
	pub   Publisher
}

// NewService creates a request service.
func NewService(store Store, pub Publisher) *Service {
	return &Service{store: store, pub: pub}
}

// Create adds a PENDING request for a seat on an existing ride.
// A user may request their own ride, and may request the same ride more
// than once; neither is restricted.
func (s *Service) Create(ctx context.Context, rideID int64, username string) (*RideRequest, error) {
	passengerID, err := s.store.UserIDByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.RideOwnerID(ctx, rideID); err != nil {
		return nil, err
	}

	req, err := s.store.Insert(ctx, rideID, passengerID)
	if err != nil {
		return nil, err
	}

	// Async Kafka publish
	go func() {
		ev := events.RequestCreatedEvent{
			EventID:     uuid.NewString(),
			RequestID:   req.ID,
			RideID:      req.RideID,
			PassengerID: req.PassengerID,
			RequestedAt: req.CreatedAt.Format(time.RFC3339),
		}
		if err := s.pub.Publish(context.Background(), kafka.TopicRequestCreated, strconv.FormatInt(req.ID, 10), ev); err != nil {
			log.Printf("[requests] failed to publish ride.request.created: %v", err)
		}
	}()

	return req, nil
}

// ListForRide returns all requests for a ride. Only the ride owner may
// view them.
func (s *Service) ListForRide(ctx context.Context, rideID int64, username string) ([]RideRequest, error) {
	if _, err := s.assertOwner(ctx, rideID, username); err != nil {
		if errors.Is(err, errNotOwner) {
			return nil, ErrNotRideOwner
		}
		return nil, err
	}
	return s.store.ListByRide(ctx, rideID)
}

// Resolve applies the owner's decision to a PENDING request and returns
// the new state. The transition is a single conditional update, so a
// request resolves at most once even under concurrent calls.
func (s *Service) Resolve(ctx context.Context, rideID, requestID int64, username, decision string) (string, error) {
	var status string
	switch decision {
	case DecisionAccept:
		status = StatusAccepted
	case DecisionReject:
		status = StatusRejected
	default:
		return "", ErrInvalidDecision
	}

	req, err := s.store.GetByID(ctx, requestID)
	if err != nil {
		return "", err
	}
	if req.RideID != rideID {
		return "", ErrRequestNotFound
	}

	// Ownership is derived from the request's own ride reference, never
	// from the caller-supplied path.
	ownerID, err := s.assertOwner(ctx, req.RideID, username)
	if err != nil {
		if errors.Is(err, errNotOwner) {
			return "", ErrNotRequestOwner
		}
		return "", err
	}

	resolved, err := s.store.ResolveIfPending(ctx, requestID, status)
	if err != nil {
		return "", err
	}
	if !resolved {
		return "", ErrAlreadyResolved
	}
	log.Printf("[requests] request %d resolved to %s by user %q", requestID, status, username)

	// Async Kafka publish
	go func() {
		ev := events.RequestResolvedEvent{
			EventID:     uuid.NewString(),
			RequestID:   requestID,
			RideID:      req.RideID,
			OwnerID:     ownerID,
			PassengerID: req.PassengerID,
			Status:      status,
			ResolvedAt:  time.Now().Format(time.RFC3339),
		}
		if err := s.pub.Publish(context.Background(), kafka.TopicRequestResolved, strconv.FormatInt(requestID, 10), ev); err != nil {
			log.Printf("[requests] failed to publish ride.request.resolved: %v", err)
		}
	}()

	return status, nil
}

// assertOwner checks that the authenticated user owns the ride and
// returns the owner id. It is the single capability check shared by
// every owner-gated operation.
func (s *Service) assertOwner(ctx context.Context, rideID int64, username string) (int64, error) {
	ownerID, err := s.store.RideOwnerID(ctx, rideID)
	if err != nil {
		return 0, err
	}
	callerID, err := s.store.UserIDByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	if ownerID != callerID {
		return 0, errNotOwner
	}
	return ownerID, nil
}
