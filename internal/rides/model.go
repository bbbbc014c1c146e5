package rides

import "time"

// Ride represents a published ride offer. The owner is fixed at creation
// and never reassigned.
type Ride struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	Owner       string    `json:"owner"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Price       int64     `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateRequest is the body for POST /users/rides.
type CreateRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Price       *int64 `json:"price,omitempty"`
}
