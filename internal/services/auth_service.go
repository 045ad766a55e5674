package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/repository"
)

var (
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("unable to login")
	ErrUnauthenticated    = errors.New("please authenticate")
	ErrUserNotFound       = errors.New("user not found")
)

// TokenIssuer signs session tokens and resolves them back to a user ID.
type TokenIssuer interface {
	Generate(userID string) (string, error)
	UserID(token string) (string, error)
}

// AccountNotifier sends account lifecycle emails. Calls must not block.
type AccountNotifier interface {
	SendWelcome(email, name string)
	SendCancellation(email, name string)
}

// AuthService handles signup, login and session tokens.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
	notifier AccountNotifier
	log      *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer, notifier AccountNotifier, log *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		notifier: notifier,
		log:      log,
	}
}

// SignupInput represents the required information to create a new user.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Age      int
}

// Signup creates a user, issues their first session token and sends the
// welcome email in the background.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.User, string, error) {
	email := normalizeEmail(input.Email)
	if email != "" {
		if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
			return nil, "", ErrEmailTaken
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, "", fmt.Errorf("failed to check email: %w", err)
		}
	}

	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Age:      input.Age,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			return nil, "", verr
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.notifier.SendWelcome(user.Email, user.Name)
	s.log.Info("user signed up", zap.String("user_id", user.ID))

	return user, token, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and issues a new session token. Unknown email
// and wrong password fail with the same error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if !user.CheckPassword(input.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Authenticate resolves a bearer token to the user holding it.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.UserID(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.userRepo.FindByIDAndToken(ctx, userID, token)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Error("token lookup failed", zap.String("user_id", userID), zap.Error(err))
		}
		return nil, ErrUnauthenticated
	}

	return user, nil
}

// Logout revokes only the given token.
func (s *AuthService) Logout(ctx context.Context, userID, token string) error {
	if err := s.userRepo.RemoveToken(ctx, userID, token); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

// LogoutAll revokes every token of the user.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	if err := s.userRepo.ClearTokens(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	return nil
}

func (s *AuthService) issueToken(ctx context.Context, userID string) (string, error) {
	token, err := s.tokens.Generate(userID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	if err := s.userRepo.AddToken(ctx, userID, token); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
