package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yukikurage/personal-task-api/internal/models"
	"gorm.io/gorm"
)

var (
	_ TaskRepository = (*MemoryTaskRepository)(nil)
	_ UserRepository = (*MemoryUserRepository)(nil)
)

// MemoryTaskRepository keeps tasks in process memory. It mirrors the SQL
// semantics of GormTaskRepository and backs service tests.
type MemoryTaskRepository struct {
	mu     sync.RWMutex
	nextID uint64
	tasks  map[uint64]models.Task
}

// NewMemoryTaskRepository creates an empty in-memory TaskRepository
func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{
		tasks: make(map[uint64]models.Task),
	}
}

func (r *MemoryTaskRepository) List(_ context.Context, filter models.TaskFilter, ownerID uint64) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []models.Task{}
	lowerSearch := strings.ToLower(filter.Search)
	for _, task := range r.tasks {
		if task.UserID != ownerID {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(task.Title), lowerSearch) &&
			!strings.Contains(task.Description, filter.Search) {
			continue
		}
		result = append(result, task)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *MemoryTaskRepository) FindByID(_ context.Context, id, ownerID uint64) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok || task.UserID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	return &task, nil
}

func (r *MemoryTaskRepository) Create(_ context.Context, title, description string, ownerID uint64) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := time.Now()
	task := models.Task{
		ID:          r.nextID,
		Title:       title,
		Description: description,
		Status:      models.TaskStatusOpen,
		UserID:      ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.tasks[task.ID] = task

	return &task, nil
}

// UpdateStatus is a no-op when the task is gone or owned by someone else,
// matching an UPDATE that affects zero rows.
func (r *MemoryTaskRepository) UpdateStatus(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tasks[task.ID]
	if !ok || stored.UserID != task.UserID {
		return nil
	}
	stored.Status = task.Status
	stored.UpdatedAt = time.Now()
	task.UpdatedAt = stored.UpdatedAt
	r.tasks[task.ID] = stored

	return nil
}

func (r *MemoryTaskRepository) Delete(_ context.Context, id, ownerID uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok || task.UserID != ownerID {
		return 0, nil
	}
	delete(r.tasks, id)

	return 1, nil
}

// MemoryUserRepository keeps users in process memory
type MemoryUserRepository struct {
	mu     sync.RWMutex
	nextID uint64
	users  map[uint64]models.User
}

// NewMemoryUserRepository creates an empty in-memory UserRepository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[uint64]models.User),
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}

	r.nextID++
	now := time.Now()
	user.ID = r.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user

	return nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id uint64) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (r *MemoryUserRepository) FindByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
