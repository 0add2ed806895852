package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"evmarket/internal/models"
)

const defaultProfileName = "EV User"

// UserStore persists user profiles.
type UserStore interface {
	Get(ctx context.Context, userID string) (*models.User, error)
	Upsert(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, userID string) error
}

// UserService manages user profiles, auto-provisioning a default on first read.
type UserService struct {
	repo   UserStore
	logger *zap.Logger
}

// NewUserService builds service.
func NewUserService(repo UserStore, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// GetOrCreate returns the profile, creating a default one when the user id is
// unknown. Idempotent after the first call.
func (s *UserService) GetOrCreate(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.Get(ctx, userID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	user = defaultProfile(userID)
	if err := s.repo.Upsert(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("auto-provisioned user profile", zap.String("user_id", userID))
	return user, nil
}

// UpdateProfileInput carries a partial profile update. Nil fields are left
// untouched.
type UpdateProfileInput struct {
	Name      *string
	Email     *string
	Phone     *string
	AvatarURL *string
	Address   *models.Address
}

// Upsert merges the supplied fields into the stored profile, creating one
// when absent. The user id is always forced to the path parameter.
func (s *UserService) Upsert(ctx context.Context, userID string, input UpdateProfileInput) (*models.User, error) {
	user, err := s.repo.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		user = defaultProfile(userID)
	}
	user.UserID = userID

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.AvatarURL != nil {
		user.AvatarURL = *input.AvatarURL
	}
	if input.Address != nil {
		user.Address = *input.Address
	}

	if err := s.repo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a profile.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	s.logger.Info("user profile deleted", zap.String("user_id", userID))
	return nil
}

func defaultProfile(userID string) *models.User {
	return &models.User{
		UserID: userID,
		Name:   defaultProfileName,
		Email:  fmt.Sprintf("%s@example.com", userID),
	}
}
