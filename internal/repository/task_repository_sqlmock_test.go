package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/personal-task-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newPostgresMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	return db, mock
}

func TestGormTaskRepository_ListPostgresSearchClause(t *testing.T) {
	db, mock := newPostgresMock(t)
	repo := NewTaskRepository(db)

	rows := sqlmock.NewRows([]string{"id", "title", "description", "status", "user_id"}).
		AddRow(3, "Buy Milk", "2% milk", "DONE", 7)
	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE tasks\.user_id = \$1 AND tasks\.status = \$2 AND .*STRPOS\(LOWER\(tasks\.title\), \$3\) > 0 OR STRPOS\(tasks\.description, \$4\) > 0`).
		WithArgs(uint64(7), models.TaskStatusDone, "milk", "Milk").
		WillReturnRows(rows)

	status := models.TaskStatusDone
	tasks, err := repo.List(context.Background(), models.TaskFilter{Status: &status, Search: "Milk"}, 7)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, uint64(3), tasks[0].ID)
	assert.Equal(t, uint64(7), tasks[0].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskRepository_ListWithoutFilterOnlyScopesOwner(t *testing.T) {
	db, mock := newPostgresMock(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE tasks\.user_id = \$1$`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	tasks, err := repo.List(context.Background(), models.TaskFilter{}, 7)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskRepository_DeleteReportsAffectedRows(t *testing.T) {
	db, mock := newPostgresMock(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "tasks" WHERE id = \$1 AND user_id = \$2`).
		WithArgs(uint64(5), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	affected, err := repo.Delete(context.Background(), 5, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskRepository_UpdateStatusScopedByOwner(t *testing.T) {
	db, mock := newPostgresMock(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tasks" SET "status"=\$1,"updated_at"=\$2 WHERE user_id = \$3 AND .*"id" = \$4`).
		WithArgs(models.TaskStatusInProgress, sqlmock.AnyArg(), uint64(7), uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	task := &models.Task{ID: 5, UserID: 7, Status: models.TaskStatusInProgress}
	require.NoError(t, repo.UpdateStatus(context.Background(), task))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskRepository_StoreFailurePropagates(t *testing.T) {
	db, mock := newPostgresMock(t)
	repo := NewTaskRepository(db)

	boom := errors.New("connection reset")
	mock.ExpectQuery(`SELECT \* FROM "tasks"`).WillReturnError(boom)

	_, err := repo.FindByID(context.Background(), 5, 7)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
