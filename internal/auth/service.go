package auth

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"

	"ridemyway/pkg/tokens"
	"ridemyway/pkg/validation"
)

// Service failure categories.
var (
	ErrUsernameTaken      = errors.New("user already exists, choose a different username")
	ErrUserNotFound       = errors.New("user account does not exist")
	ErrInvalidCredentials = errors.New("invalid user credentials")
	ErrInvalidInput       = errors.New("a username and a password of at least 5 characters are required")
	ErrInvalidEmail       = errors.New("email is in the wrong format")
)

// Service contains signup and login logic.
type Service struct {
	users  UserStore
	tokens *tokens.Service
}

// NewService creates an auth service.
func NewService(users UserStore, tokens *tokens.Service) *Service {
	return &Service{users: users, tokens: tokens}
}

// SignUp creates a new account and returns it with the assigned id.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*User, error) {
	if !validation.ValidateUsername(req.Username) || !validation.ValidatePassword(req.Password) {
		return nil, ErrInvalidInput
	}
	if !validation.ValidateEmail(req.Email) {
		return nil, ErrInvalidEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	id, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id

	log.Printf("[auth] user %q signed up (id=%d)", user.Username, id)
	return user, nil
}

// Login verifies the credentials and issues an identity token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (string, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return "", err
	}
	log.Printf("[auth] user %q logged in", user.Username)
	return token, nil
}
