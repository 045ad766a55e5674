package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/utils"
)

// ErrNotFound is returned when no record matches.
var ErrNotFound = errors.New("record not found")

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by normalised email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByIDAndToken finds a user by ID whose token list contains token
	FindByIDAndToken(ctx context.Context, id, token string) (*models.User, error)

	// Update saves the user's own columns; hooks run
	Update(ctx context.Context, user *models.User) error

	// Delete deletes the user together with their tokens and tasks
	Delete(ctx context.Context, user *models.User) error

	// AddToken appends a session token to the user's token list
	AddToken(ctx context.Context, userID, token string) error

	// RemoveToken removes one session token
	RemoveToken(ctx context.Context, userID, token string) error

	// ClearTokens removes every session token of the user
	ClearTokens(ctx context.Context, userID string) error

	// ListTokens returns the user's tokens in issue order. Nothing on the
	// request path needs it; it exists for inspecting a user's sessions from
	// tests and operator tooling.
	ListTokens(ctx context.Context, userID string) ([]models.UserToken, error)

	// SetAvatar stores or, with nil, clears the avatar image
	SetAvatar(ctx context.Context, userID string, avatar []byte) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindOwned finds a task by ID that belongs to ownerID
	FindOwned(ctx context.Context, id, ownerID string) (*models.Task, error)

	// List retrieves the owner's tasks with filtering, sorting and pagination
	List(ctx context.Context, ownerID string, params utils.ListParams) ([]models.Task, error)

	// Update updates a task
	Update(ctx context.Context, task *models.Task) error

	// Delete deletes a task
	Delete(ctx context.Context, task *models.Task) error
}
