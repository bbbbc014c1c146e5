package auth

import "time"

// User represents an account that can both offer and request rides.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RidesTaken   int       `json:"rides_taken"`
	RidesGiven   int       `json:"rides_given"`
	CreatedAt    time.Time `json:"created_at"`
}

// SignUpRequest is the body for POST /auth/signup.
type SignUpRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
