package dto

import (
	"time"

	"github.com/yukikurage/personal-task-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// SigninResponse carries the signed-in user and their access token
type SigninResponse struct {
	User        UserDTO `json:"user"`
	AccessToken string  `json:"accessToken"`
}

// TaskDTO represents a task in API responses. The owner is exposed only by ID.
type TaskDTO struct {
	ID          uint64            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	UserID      uint64            `json:"user_id"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// SignupRequest is the body of POST /api/auth/signup
type SignupRequest struct {
	Username string `json:"username" validate:"required,notblank,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

func (r SignupRequest) Validate() error {
	return validateStruct(r)
}

// SigninRequest is the body of POST /api/auth/signin
type SigninRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r SigninRequest) Validate() error {
	return validateStruct(r)
}

// CreateTaskRequest is the body of POST /api/tasks
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,notblank,max=255"`
	Description string `json:"description"`
}

func (r CreateTaskRequest) Validate() error {
	return validateStruct(r)
}

// TaskFilterRequest holds the query parameters of GET /api/tasks.
// A nil Search means the parameter was absent.
type TaskFilterRequest struct {
	Status string  `form:"status" validate:"omitempty,oneof=OPEN IN_PROGRESS DONE"`
	Search *string `form:"search" validate:"omitnil,notblank"`
}

func (r TaskFilterRequest) Validate() error {
	return validateStruct(r)
}

// ToFilter converts a validated request into a store filter
func (r TaskFilterRequest) ToFilter() models.TaskFilter {
	var filter models.TaskFilter
	if r.Status != "" {
		status := models.TaskStatus(r.Status)
		filter.Status = &status
	}
	if r.Search != nil {
		filter.Search = *r.Search
	}
	return filter
}

// UpdateTaskStatusRequest is the body of PATCH /api/tasks/:id/status
type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=OPEN IN_PROGRESS DONE"`
}

func (r UpdateTaskStatusRequest) Validate() error {
	return validateStruct(r)
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		UserID:      task.UserID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTaskDTOs converts a slice of tasks, never returning nil
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}
