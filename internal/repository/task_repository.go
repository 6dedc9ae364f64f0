package repository

import (
	"context"

	"github.com/yukikurage/personal-task-api/internal/database"
	"github.com/yukikurage/personal-task-api/internal/models"
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

// List retrieves the owner's tasks with the optional status and search filters
func (r *GormTaskRepository) List(ctx context.Context, filter models.TaskFilter, ownerID uint64) ([]models.Task, error) {
	tasks := []models.Task{}

	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Scopes(database.OwnedBy(ownerID), database.WithTaskFilter(filter)).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// FindByID finds a task by ID within the owner's tasks
func (r *GormTaskRepository) FindByID(ctx context.Context, id, ownerID uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).
		Scopes(database.OwnedBy(ownerID)).
		Where("tasks.id = ?", id).
		First(&task).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// Create inserts a new task. Status always starts as OPEN.
func (r *GormTaskRepository) Create(ctx context.Context, title, description string, ownerID uint64) (*models.Task, error) {
	task := &models.Task{
		Title:       title,
		Description: description,
		Status:      models.TaskStatusOpen,
		UserID:      ownerID,
	}

	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, err
	}

	return task, nil
}

// UpdateStatus writes the status column in a single statement scoped by ID and owner
func (r *GormTaskRepository) UpdateStatus(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).
		Model(task).
		Where("user_id = ?", task.UserID).
		Update("status", task.Status).Error
}

// Delete removes the task if it belongs to the owner
func (r *GormTaskRepository) Delete(ctx context.Context, id, ownerID uint64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&models.Task{})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
