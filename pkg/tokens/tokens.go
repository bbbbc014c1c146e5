package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Verification failure categories.
var (
	ErrExpired = errors.New("token expired")
	ErrInvalid = errors.New("token invalid")
)

// Claims is the signed token payload. The username travels under the
// "user" key, with expiry and issue time in the registered claims.
type Claims struct {
	Username string `json:"user"`
	gojwt.RegisteredClaims
}

type ctxKey string

const usernameCtxKey ctxKey = "auth_username"

// Service issues and verifies signed identity tokens. The secret and
// TTL are fixed at construction; the service itself is stateless.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// New creates a token service. The secret must be non-empty.
func New(secret string, ttl time.Duration) (*Service, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{secret: []byte(secret), ttl: ttl}, nil
}

// Issue creates a signed token binding the username to an expiry instant.
func (s *Service) Issue(username string) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses a raw token and returns the encoded username.
// Fails with ErrExpired past the encoded expiry and ErrInvalid for a bad
// signature or malformed payload. The username is not re-checked against
// the credential store; a token stays valid until expiry regardless.
func (s *Service) Verify(raw string) (string, error) {
	token, err := gojwt.ParseWithClaims(raw, &Claims{}, func(t *gojwt.Token) (any, error) {
		if _, ok := t.Method.(*gojwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, gojwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrInvalid
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Username == "" {
		return "", ErrInvalid
	}
	return claims.Username, nil
}

// ---- HTTP Middleware ----

// RequireAuth rejects requests without a verifiable token and stores the
// authenticated username in the request context. The Authorization header
// is taken as a raw token value; a standard "Bearer " prefix is stripped
// when present.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("Authorization")
		if raw == "" {
			unauthorized(w, "authorization header required")
			return
		}
		raw = strings.TrimPrefix(raw, "Bearer ")

		username, err := s.Verify(raw)
		if err != nil {
			unauthorized(w, err.Error())
			return
		}
		ctx := context.WithValue(r.Context(), usernameCtxKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Username retrieves the authenticated username from context
// ("" if the request did not pass RequireAuth).
func Username(ctx context.Context) string {
	u, _ := ctx.Value(usernameCtxKey).(string)
	return u
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   "Unauthorized",
		"message": message,
	})
}
