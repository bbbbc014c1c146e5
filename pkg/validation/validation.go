package validation

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateUsername requires a non-empty name.
func ValidateUsername(username string) bool {
	username = strings.TrimSpace(username)
	return username != "" && len(username) <= 200
}

// ValidatePassword requires at least 5 characters.
func ValidatePassword(password string) bool {
	return len(password) >= 5 && len(password) <= 100
}

// ValidateEmail checks the address format. An empty email is allowed;
// accounts can be created without one.
func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return true
	}
	return emailRegex.MatchString(email) && len(email) <= 200
}

// ValidatePlace checks an origin or destination value.
func ValidatePlace(place string) bool {
	place = strings.TrimSpace(place)
	return place != "" && len(place) <= 255
}

// ValidatePrice requires a non-negative fare.
func ValidatePrice(price int64) bool {
	return price >= 0
}
