package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"

	"bulletin-backend-go/internal/cache"
	"bulletin-backend-go/internal/db"
	"bulletin-backend-go/internal/identity"
)

// adminCacheTTL bounds how stale a cached admins-set lookup may be. Revoking
// an admin takes effect within this window.
const adminCacheTTL = 5 * time.Minute

// CredentialVerifier verifies email/password credentials against the identity
// provider. Satisfied by identity.Client.
type CredentialVerifier interface {
	SignInWithPassword(ctx context.Context, email, password string) (*identity.Session, error)
}

// authService implements the AuthService interface. Authorization policy:
// admins-set membership is required and checked server-side on login and on
// every privileged call; an authenticated non-admin is rejected.
type authService struct {
	verifier   CredentialVerifier
	fbAuth     *auth.Client
	userSvc    UserService
	userRepo   db.UserRepository
	adminRepo  db.AdminRepository
	adminCache cache.Cache
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService instance. adminCache may be nil;
// membership checks then always hit the store.
func NewAuthService(
	verifier CredentialVerifier,
	fbAuth *auth.Client,
	userSvc UserService,
	userRepo db.UserRepository,
	adminRepo db.AdminRepository,
	adminCache cache.Cache,
	logger *zap.Logger,
) AuthService {
	return &authService{
		verifier:   verifier,
		fbAuth:     fbAuth,
		userSvc:    userSvc,
		userRepo:   userRepo,
		adminRepo:  adminRepo,
		adminCache: adminCache,
		logger:     logger,
	}
}

// Login verifies credentials, syncs the backend user record, and enforces the
// admins-set membership check.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	session, err := s.verifier.SignInWithPassword(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidCredentials):
			return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
		case errors.Is(err, identity.ErrTooManyAttempts):
			return nil, fmt.Errorf("%w: %v", ErrTooManyAttempts, err)
		}
		return nil, fmt.Errorf("sign-in failed: %w", err)
	}

	user, created, err := s.userSvc.EnsureUser(ctx, session.UID, session.Email, session.DisplayName, "")
	if err != nil {
		// The identity provider accepted the credentials; a user-record sync
		// failure should not lock the admin out.
		s.logger.Warn("Failed to sync user record during login", zap.String("uid", session.UID), zap.Error(err))
	}
	if err == nil && !created {
		if err := s.userRepo.UpdateLastLogin(ctx, session.UID); err != nil {
			s.logger.Warn("Failed to update lastLogin", zap.String("uid", session.UID), zap.Error(err))
		}
	}

	isAdmin, err := s.IsAdmin(ctx, session.UID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify admin status: %w", err)
	}
	if !isAdmin {
		return nil, fmt.Errorf("%w: uid '%s'", ErrNotAdmin, session.UID)
	}

	return &LoginResult{
		User:         user,
		IDToken:      session.IDToken,
		RefreshToken: session.RefreshToken,
	}, nil
}

// IsAdmin reports admins-set membership, fronted by the cache when one is
// configured. Cache failures fall through to the store.
func (s *authService) IsAdmin(ctx context.Context, uid string) (bool, error) {
	key := adminCacheKey(uid)
	if s.adminCache != nil {
		if val, err := s.adminCache.Get(ctx, key); err == nil && val != "" {
			if cached, parseErr := strconv.ParseBool(val); parseErr == nil {
				return cached, nil
			}
		}
	}

	isAdmin, err := s.adminRepo.IsAdmin(ctx, uid)
	if err != nil {
		return false, err
	}

	if s.adminCache != nil {
		if err := s.adminCache.Set(ctx, key, strconv.FormatBool(isAdmin), adminCacheTTL); err != nil {
			s.logger.Warn("Failed to cache admin lookup", zap.String("uid", uid), zap.Error(err))
		}
	}
	return isAdmin, nil
}

// ChangePassword updates the account password via the Admin SDK, stamps the
// user record, and revokes refresh tokens so the admin must sign in again.
func (s *authService) ChangePassword(ctx context.Context, uid, newPassword string) error {
	if s.fbAuth == nil {
		return errors.New("firebase auth client not initialized for AuthService")
	}

	params := (&auth.UserToUpdate{}).Password(newPassword)
	if _, err := s.fbAuth.UpdateUser(ctx, uid, params); err != nil {
		return fmt.Errorf("failed to update password for '%s': %w", uid, err)
	}

	if err := s.userRepo.UpdateLastPasswordChange(ctx, uid); err != nil {
		s.logger.Warn("Failed to stamp lastPasswordChange", zap.String("uid", uid), zap.Error(err))
	}

	if err := s.fbAuth.RevokeRefreshTokens(ctx, uid); err != nil {
		s.logger.Warn("Failed to revoke refresh tokens", zap.String("uid", uid), zap.Error(err))
	}
	return nil
}

func adminCacheKey(uid string) string {
	return "admin:" + uid
}
