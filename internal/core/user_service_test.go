package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetByUIDUnknownUser(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	_, err := svc.GetByUID(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestEnsureUserCreatesOnFirstSight(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	user, created, err := svc.EnsureUser(context.Background(), "uid-1", "a@school.edu", "A", "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "uid-1", user.UID)
	assert.False(t, user.CreatedAt.IsZero())

	stored, err := repo.GetByUID(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "a@school.edu", stored.Email)
}

func TestEnsureUserReturnsExistingRecord(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	first, created, err := svc.EnsureUser(context.Background(), "uid-1", "a@school.edu", "A", "")
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := svc.EnsureUser(context.Background(), "uid-1", "changed@school.edu", "B", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.Email, second.Email, "existing record wins over login-supplied fields")
}
