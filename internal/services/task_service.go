package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/personal-task-api/internal/models"
	"github.com/yukikurage/personal-task-api/internal/repository"
	"gorm.io/gorm"
)

var (
	// ErrTaskNotFound matches every TaskNotFoundError via errors.Is.
	ErrTaskNotFound  = errors.New("task not found")
	ErrInvalidStatus = errors.New("invalid task status")
)

// TaskNotFoundError reports a task ID that does not exist for the caller.
// A task owned by another user produces the same error.
type TaskNotFoundError struct {
	ID uint64
}

func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf(`Task with ID "%d" not found`, e.ID)
}

func (e *TaskNotFoundError) Is(target error) bool {
	return target == ErrTaskNotFound
}

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
	Title       string
	Description string
}

// GetTasks returns the user's tasks matching filter
func (s *TaskService) GetTasks(ctx context.Context, filter models.TaskFilter, user *models.User) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(ctx, filter, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListTasksForUser returns every task the user owns
func (s *TaskService) ListTasksForUser(ctx context.Context, user *models.User) ([]models.Task, error) {
	return s.GetTasks(ctx, models.TaskFilter{}, user)
}

// GetTaskByID returns one of the user's tasks
func (s *TaskService) GetTaskByID(ctx context.Context, id uint64, user *models.User) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &TaskNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask creates an OPEN task owned by the user
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput, user *models.User) (*models.Task, error) {
	task, err := s.taskRepo.Create(ctx, input.Title, input.Description, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// UpdateTaskStatus sets the status of one of the user's tasks.
// The read and the write are separate round-trips with no transaction.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, id uint64, status models.TaskStatus, user *models.User) (*models.Task, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	task, err := s.GetTaskByID(ctx, id, user)
	if err != nil {
		return nil, err
	}

	task.Status = status
	if err := s.taskRepo.UpdateStatus(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	return task, nil
}

// DeleteTask deletes one of the user's tasks
func (s *TaskService) DeleteTask(ctx context.Context, id uint64, user *models.User) error {
	affected, err := s.taskRepo.Delete(ctx, id, user.ID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if affected == 0 {
		return &TaskNotFoundError{ID: id}
	}

	return nil
}
