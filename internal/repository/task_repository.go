package repository

import (
	"context"

	"github.com/yukikurage/task-manager/internal/database"
	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/utils"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit("Owner").Create(task).Error
}

// FindOwned finds a task by ID that belongs to ownerID. A task of another
// owner is reported as ErrNotFound.
func (r *GormTaskRepository) FindOwned(ctx context.Context, id, ownerID string) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).
		Scopes(database.OwnedBy(ownerID)).
		Where("id = ?", id).
		First(&task).Error; err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

// List retrieves the owner's tasks with filtering, sorting and pagination
func (r *GormTaskRepository) List(ctx context.Context, ownerID string, params utils.ListParams) ([]models.Task, error) {
	tasks := []models.Task{}

	query := r.db.WithContext(ctx).Model(&models.Task{}).Scopes(database.OwnedBy(ownerID))
	if params.Completed != nil {
		query = query.Where("completed = ?", *params.Completed)
	}

	if err := query.
		Scopes(database.Sort(params), database.Paginate(params)).
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit("Owner").Save(task).Error
}

// Delete deletes a task
func (r *GormTaskRepository) Delete(ctx context.Context, task *models.Task) error {
	result := r.db.WithContext(ctx).Delete(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
