package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"bulletin-backend-go/internal/models"
)

const usersCollection = "users"

// firestoreUserRepository implements the UserRepository interface using Firestore.
type firestoreUserRepository struct {
	client *firestore.Client
}

// NewFirestoreUserRepository creates a new instance of firestoreUserRepository.
func NewFirestoreUserRepository(client *firestore.Client) UserRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for UserRepository.")
	}
	return &firestoreUserRepository{client: client}
}

// Create adds a new user document. The Firebase Auth UID is the document ID.
func (r *firestoreUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.UID == "" {
		return errors.New("user UID cannot be empty for Create operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(user.UID).Create(ctx, user)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("user '%s' already exists: %w", user.UID, err)
		}
		return fmt.Errorf("failed to create user '%s': %w", user.UID, err)
	}
	return nil
}

// GetByUID retrieves a user document by Firebase Auth UID.
func (r *firestoreUserRepository) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	if uid == "" {
		return nil, errors.New("uid cannot be empty for GetByUID operation")
	}
	docSnap, err := r.client.Collection(usersCollection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("user '%s' not found: %w", uid, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", uid, err)
	}

	var user models.User
	if err := docSnap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user '%s': %w", uid, err)
	}
	user.UID = docSnap.Ref.ID
	return &user, nil
}

// UpdateLastLogin stamps the user's lastLogin field with the current time.
func (r *firestoreUserRepository) UpdateLastLogin(ctx context.Context, uid string) error {
	return r.updateField(ctx, uid, "lastLogin")
}

// UpdateLastPasswordChange stamps the user's lastPasswordChange field with the
// current time.
func (r *firestoreUserRepository) UpdateLastPasswordChange(ctx context.Context, uid string) error {
	return r.updateField(ctx, uid, "lastPasswordChange")
}

func (r *firestoreUserRepository) updateField(ctx context.Context, uid, field string) error {
	if uid == "" {
		return errors.New("uid cannot be empty for update operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(uid).Update(ctx, []firestore.Update{
		{Path: field, Value: time.Now().UTC()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("user '%s' not found: %w", uid, ErrNotFound)
		}
		return fmt.Errorf("failed to update %s for user '%s': %w", field, uid, err)
	}
	return nil
}
