package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bulletin-backend-go/internal/db"
	"bulletin-backend-go/internal/models"
)

// userService implements the UserService interface.
type userService struct {
	userRepo db.UserRepository
}

// NewUserService creates a new UserService instance.
func NewUserService(userRepo db.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// GetByUID retrieves a user record by Firebase Auth UID.
func (s *userService) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: uid '%s'", ErrUserNotFound, uid)
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", uid, err)
	}
	return user, nil
}

// EnsureUser retrieves the record for uid, creating it when absent. Returns
// the record and whether it was created.
func (s *userService) EnsureUser(ctx context.Context, uid, email, displayName, photoURL string) (*models.User, bool, error) {
	user, err := s.userRepo.GetByUID(ctx, uid)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to get user '%s': %w", uid, err)
	}

	now := time.Now().UTC()
	newUser := &models.User{
		UID:         uid,
		Email:       email,
		DisplayName: displayName,
		PhotoURL:    photoURL,
		CreatedAt:   now,
		LastLogin:   now,
	}
	if createErr := s.userRepo.Create(ctx, newUser); createErr != nil {
		return nil, false, fmt.Errorf("failed to create user '%s' after not found: %w", uid, createErr)
	}
	return newUser, true, nil
}
