package repository

import (
	"context"

	"github.com/yukikurage/personal-task-api/internal/models"
)

// TaskRepository defines the interface for task data access.
// Every method is scoped to an owning user; a task owned by someone else is
// reported exactly like a missing one, with gorm.ErrRecordNotFound.
type TaskRepository interface {
	// List returns the owner's tasks matching filter, in store order
	List(ctx context.Context, filter models.TaskFilter, ownerID uint64) ([]models.Task, error)

	// FindByID finds a single task by ID and owner
	FindByID(ctx context.Context, id, ownerID uint64) (*models.Task, error)

	// Create inserts an OPEN task for the owner
	Create(ctx context.Context, title, description string, ownerID uint64) (*models.Task, error)

	// UpdateStatus persists the status of a task loaded by FindByID
	UpdateStatus(ctx context.Context, task *models.Task) error

	// Delete removes at most one task and reports how many rows were removed
	Delete(ctx context.Context, id, ownerID uint64) (int64, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}
