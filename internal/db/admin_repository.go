package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const adminsCollection = "admins"

// firestoreAdminRepository implements AdminRepository against the admins
// collection, where document existence under admins/{uid} is the whole check.
type firestoreAdminRepository struct {
	client *firestore.Client
}

// NewFirestoreAdminRepository creates a new instance of firestoreAdminRepository.
func NewFirestoreAdminRepository(client *firestore.Client) AdminRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for AdminRepository.")
	}
	return &firestoreAdminRepository{client: client}
}

// IsAdmin reports whether a document exists under admins/{uid}.
func (r *firestoreAdminRepository) IsAdmin(ctx context.Context, uid string) (bool, error) {
	if uid == "" {
		return false, errors.New("uid cannot be empty for IsAdmin operation")
	}
	_, err := r.client.Collection(adminsCollection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to check admin membership for '%s': %w", uid, err)
	}
	return true, nil
}
