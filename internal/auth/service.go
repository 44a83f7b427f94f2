package auth

import (
	"context"
	"errors"
	"fmt"

	"spendlog/internal/core"
)

var (
	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords; callers must not distinguish the two.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrLockedOut is returned while a username is inside its lockout
	// window. Credentials are not checked in that state.
	ErrLockedOut = errors.New("too many failed attempts")
)

// UserStore is the slice of the storage layer the auth service needs.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (*core.User, error)
}

// Service handles account creation and credential verification. The lockout
// tracker is injected so the state machine is testable without a web session.
type Service struct {
	users   UserStore
	lockout *LockoutTracker
}

func NewService(users UserStore, lockout *LockoutTracker) *Service {
	return &Service{users: users, lockout: lockout}
}

// CreateAccount validates the signup input, hashes the password, and
// persists the account. A taken username maps to core.ErrDuplicateUsername.
func (s *Service) CreateAccount(ctx context.Context, username, password string) (int64, error) {
	if err := core.ValidateSignup(username, password); err != nil {
		return 0, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.users.CreateUser(ctx, username, hash)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Login verifies credentials for username. The lockout check runs first:
// while locked, credentials are not examined at all. A failed check
// increments the counter; a success resets it.
func (s *Service) Login(ctx context.Context, username, password string) (*core.User, error) {
	if s.lockout.Locked(username) {
		return nil, ErrLockedOut
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			s.lockout.RecordFailure(username)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	if !CheckPassword(password, user.PasswordHash) {
		s.lockout.RecordFailure(username)
		return nil, ErrInvalidCredentials
	}

	s.lockout.Reset(username)
	return user, nil
}
