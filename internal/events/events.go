package events

// RideOfferedEvent is published to ride.offered.
type RideOfferedEvent struct {
	EventID     string `json:"event_id"`
	RideID      int64  `json:"ride_id"`
	OwnerID     int64  `json:"owner_id"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Price       int64  `json:"price"`
	OfferedAt   string `json:"offered_at"`
}

// RequestCreatedEvent is published to ride.request.created.
type RequestCreatedEvent struct {
	EventID     string `json:"event_id"`
	RequestID   int64  `json:"request_id"`
	RideID      int64  `json:"ride_id"`
	PassengerID int64  `json:"passenger_id"`
	RequestedAt string `json:"requested_at"`
}

// RequestResolvedEvent is published to ride.request.resolved.
type RequestResolvedEvent struct {
	EventID     string `json:"event_id"`
	RequestID   int64  `json:"request_id"`
	RideID      int64  `json:"ride_id"`
	OwnerID     int64  `json:"owner_id"`
	PassengerID int64  `json:"passenger_id"`
	Status      string `json:"status"`
	ResolvedAt  string `json:"resolved_at"`
}
