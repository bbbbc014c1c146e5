package requests

import "time"

// Resolution states. PENDING is initial; ACCEPTED and REJECTED are
// terminal, no transition leaves either.
const (
	StatusPending  = "PENDING"
	StatusAccepted = "ACCEPTED"
	StatusRejected = "REJECTED"
)

// Owner decisions accepted by the resolve endpoint.
const (
	DecisionAccept = "accept"
	DecisionReject = "reject"
)

// RideRequest represents a passenger's request to join a ride offer.
// It is mutated exactly once, by the ride owner.
type RideRequest struct {
	ID          int64     `json:"id"`
	RideID      int64     `json:"ride_id"`
	PassengerID int64     `json:"passenger_id"`
	Passenger   string    `json:"passenger"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ResolveRequest is the body for PUT /users/rides/{id}/requests/{requestID}.
type ResolveRequest struct {
	Decision string `json:"decision"`
}
