package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/yukikurage/task-manager/internal/imaging"
	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/repository"
)

// ErrAvatarNotFound is returned when the user exists but has no avatar.
var ErrAvatarNotFound = errors.New("avatar not found")

var profileFields = []string{"name", "email", "password", "age"}

// UserService manages the authenticated user's own profile.
type UserService struct {
	userRepo repository.UserRepository
	notifier AccountNotifier
	log      *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, notifier AccountNotifier, log *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		notifier: notifier,
		log:      log,
	}
}

// UpdateProfile applies a partial update to the user. Unknown keys and
// mistyped values fail with ErrInvalidUpdates before anything is written;
// field rules are enforced when the record is saved.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, updates map[string]any) (*models.User, error) {
	if err := checkAllowed(updates, profileFields...); err != nil {
		return nil, err
	}

	name, hasName, err := stringField(updates, "name")
	if err != nil {
		return nil, err
	}
	email, hasEmail, err := stringField(updates, "email")
	if err != nil {
		return nil, err
	}
	password, hasPassword, err := stringField(updates, "password")
	if err != nil {
		return nil, err
	}
	age, hasAge, err := intField(updates, "age")
	if err != nil {
		return nil, err
	}

	if hasName {
		user.Name = name
	}
	if hasEmail {
		user.Email = email
	}
	if hasPassword {
		user.SetPassword(password)
	}
	if hasAge {
		user.Age = age
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// Delete removes the user with their tokens and tasks, then sends the
// cancellation email in the background.
func (s *UserService) Delete(ctx context.Context, user *models.User) error {
	if err := s.userRepo.Delete(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.notifier.SendCancellation(user.Email, user.Name)
	s.log.Info("user deleted", zap.String("user_id", user.ID))

	return nil
}

// SetAvatar normalises the uploaded image and stores it on the user.
func (s *UserService) SetAvatar(ctx context.Context, user *models.User, data []byte) error {
	avatar, err := imaging.Normalize(data)
	if err != nil {
		return err
	}

	if err := s.userRepo.SetAvatar(ctx, user.ID, avatar); err != nil {
		return fmt.Errorf("failed to store avatar: %w", err)
	}
	user.Avatar = avatar

	return nil
}

// ClearAvatar removes the user's avatar. Clearing an absent avatar succeeds.
func (s *UserService) ClearAvatar(ctx context.Context, user *models.User) error {
	if err := s.userRepo.SetAvatar(ctx, user.ID, nil); err != nil {
		return fmt.Errorf("failed to clear avatar: %w", err)
	}
	user.Avatar = nil

	return nil
}

// GetAvatar returns the stored PNG avatar of any user.
func (s *UserService) GetAvatar(ctx context.Context, userID string) ([]byte, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.HasAvatar() {
		return nil, ErrAvatarNotFound
	}

	return user.Avatar, nil
}
