package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/repository"
	"github.com/yukikurage/task-manager/internal/utils"
)

var ErrTaskNotFound = errors.New("task not found")

var taskFields = []string{"description", "completed"}

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Description string
	Completed   bool
	OwnerID     string
}

// CreateTask creates a task owned by input.OwnerID.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	task := &models.Task{
		Description: input.Description,
		Completed:   input.Completed,
		OwnerID:     input.OwnerID,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			return nil, verr
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// ListTasks returns the owner's tasks filtered, sorted and paginated by params.
func (s *TaskService) ListTasks(ctx context.Context, ownerID string, params utils.ListParams) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(ctx, ownerID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns the task only if ownerID owns it. A task owned by someone
// else is reported as ErrTaskNotFound.
func (s *TaskService) GetTask(ctx context.Context, taskID, ownerID string) (*models.Task, error) {
	task, err := s.taskRepo.FindOwned(ctx, taskID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// UpdateTask applies a partial update. Only description and completed may change.
func (s *TaskService) UpdateTask(ctx context.Context, task *models.Task, updates map[string]any) (*models.Task, error) {
	if err := checkAllowed(updates, taskFields...); err != nil {
		return nil, err
	}

	description, hasDescription, err := stringField(updates, "description")
	if err != nil {
		return nil, err
	}
	completed, hasCompleted, err := boolField(updates, "completed")
	if err != nil {
		return nil, err
	}

	if hasDescription {
		task.Description = description
	}
	if hasCompleted {
		task.Completed = completed
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			return nil, verr
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask deletes the task.
func (s *TaskService) DeleteTask(ctx context.Context, task *models.Task) error {
	if err := s.taskRepo.Delete(ctx, task); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
