package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/personal-task-api/internal/constants"
	"github.com/yukikurage/personal-task-api/internal/database"
	"github.com/yukikurage/personal-task-api/internal/dto"
	apierrors "github.com/yukikurage/personal-task-api/internal/errors"
	"github.com/yukikurage/personal-task-api/internal/middleware"
	"github.com/yukikurage/personal-task-api/internal/repository"
	"github.com/yukikurage/personal-task-api/internal/services"
	"gorm.io/gorm"
)

const testJWTSecret = "handler-tests-secret-0123456789abcdef"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(database.SQLiteDialector(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// newTestRouter wires the full route table over db the same way the server does.
func newTestRouter(t *testing.T, db *gorm.DB) (*gin.Engine, *services.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hasher := &services.Argon2Hasher{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32}
	authService := services.NewAuthService(repository.NewUserRepository(db), hasher,
		services.NewTokenService(testJWTSecret, time.Hour))
	taskService := services.NewTaskService(repository.NewTaskRepository(db))

	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	RegisterRoutes(r, NewAuthHandler(authService), NewTaskHandler(taskService), middleware.RequireAuth(authService))
	return r, authService
}

func doJSON(r *gin.Engine, method, url, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// TaskHandlerTestSuite drives the task endpoints through the router
type TaskHandlerTestSuite struct {
	suite.Suite
	router     *gin.Engine
	aliceToken string
	bobToken   string
}

func (suite *TaskHandlerTestSuite) SetupTest() {
	suite.router, _ = newTestRouter(suite.T(), newTestDB(suite.T()))
	suite.aliceToken = suite.signup("alice")
	suite.bobToken = suite.signup("bob")
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}

// signup registers username and returns an access token for it
func (suite *TaskHandlerTestSuite) signup(username string) string {
	creds := map[string]string{"username": username, "password": "supersecret"}

	w := doJSON(suite.router, http.MethodPost, "/api/auth/signup", "", creds)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(suite.router, http.MethodPost, "/api/auth/signin", "", creds)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp dto.SigninResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().NotEmpty(resp.AccessToken)
	return resp.AccessToken
}

func (suite *TaskHandlerTestSuite) createTask(token, title, description string) dto.TaskDTO {
	w := doJSON(suite.router, http.MethodPost, "/api/tasks", token, map[string]string{
		"title":       title,
		"description": description,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var task dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &task))
	return task
}

func (suite *TaskHandlerTestSuite) listTasks(token, query string) []dto.TaskDTO {
	w := doJSON(suite.router, http.MethodGet, "/api/tasks"+query, token, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var tasks []dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &tasks))
	return tasks
}

func (suite *TaskHandlerTestSuite) decodeError(w *httptest.ResponseRecorder) apierrors.APIError {
	var apiErr apierrors.APIError
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &apiErr))
	return apiErr
}

func (suite *TaskHandlerTestSuite) TestCreateAndReadBack() {
	task := suite.createTask(suite.aliceToken, "Buy milk", "2% milk")
	suite.Equal("OPEN", string(task.Status))
	suite.Equal("Buy milk", task.Title)

	w := doJSON(suite.router, http.MethodGet, fmt.Sprintf("/api/tasks/%d", task.ID), suite.aliceToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var got dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal(task.ID, got.ID)
	suite.Equal("2% milk", got.Description)
}

func (suite *TaskHandlerTestSuite) TestOtherUsersTaskIsNotFound() {
	task := suite.createTask(suite.aliceToken, "Buy milk", "2% milk")
	url := fmt.Sprintf("/api/tasks/%d", task.ID)

	w := doJSON(suite.router, http.MethodGet, url, suite.bobToken, nil)
	suite.Equal(http.StatusNotFound, w.Code)
	apiErr := suite.decodeError(w)
	suite.Equal(apierrors.ErrCodeNotFound, apiErr.Code)
	suite.Equal(fmt.Sprintf(`Task with ID "%d" not found`, task.ID), apiErr.Message)

	w = doJSON(suite.router, http.MethodPatch, url+"/status", suite.bobToken, map[string]string{"status": "DONE"})
	suite.Equal(http.StatusNotFound, w.Code)

	w = doJSON(suite.router, http.MethodDelete, url, suite.bobToken, nil)
	suite.Equal(http.StatusNotFound, w.Code)

	suite.Empty(suite.listTasks(suite.bobToken, ""))
	suite.Len(suite.listTasks(suite.aliceToken, ""), 1)
}

func (suite *TaskHandlerTestSuite) TestUpdateStatus() {
	task := suite.createTask(suite.aliceToken, "Buy milk", "")
	url := fmt.Sprintf("/api/tasks/%d/status", task.ID)

	w := doJSON(suite.router, http.MethodPatch, url, suite.aliceToken, map[string]string{"status": "DONE"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var updated dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &updated))
	suite.Equal("DONE", string(updated.Status))

	done := suite.listTasks(suite.aliceToken, "?status=DONE")
	suite.Require().Len(done, 1)
	suite.Equal(task.ID, done[0].ID)
	suite.Empty(suite.listTasks(suite.aliceToken, "?status=OPEN"))
}

func (suite *TaskHandlerTestSuite) TestUpdateStatusRejectsUnknownStatus() {
	task := suite.createTask(suite.aliceToken, "Buy milk", "")

	w := doJSON(suite.router, http.MethodPatch, fmt.Sprintf("/api/tasks/%d/status", task.ID),
		suite.aliceToken, map[string]string{"status": "ARCHIVED"})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apierrors.ErrCodeValidationFailed, suite.decodeError(w).Code)
}

func (suite *TaskHandlerTestSuite) TestSearch() {
	milk := suite.createTask(suite.aliceToken, "Buy Milk", "")
	suite.createTask(suite.aliceToken, "Walk dog", "")

	tasks := suite.listTasks(suite.aliceToken, "?search=milk")
	suite.Require().Len(tasks, 1)
	suite.Equal(milk.ID, tasks[0].ID)
}

func (suite *TaskHandlerTestSuite) TestListRejectsInvalidQuery() {
	w := doJSON(suite.router, http.MethodGet, "/api/tasks?status=ARCHIVED", suite.aliceToken, nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = doJSON(suite.router, http.MethodGet, "/api/tasks?search=", suite.aliceToken, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	apiErr := suite.decodeError(w)
	suite.Equal(apierrors.ErrCodeValidationFailed, apiErr.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateValidation() {
	w := doJSON(suite.router, http.MethodPost, "/api/tasks", suite.aliceToken, map[string]string{"title": "   "})
	suite.Require().Equal(http.StatusBadRequest, w.Code)

	var body struct {
		Code    string                 `json:"code"`
		Details []apierrors.FieldError `json:"details"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal(apierrors.ErrCodeValidationFailed, body.Code)
	suite.Require().Len(body.Details, 1)
	suite.Equal("title", body.Details[0].Field)
}

func (suite *TaskHandlerTestSuite) TestDelete() {
	task := suite.createTask(suite.aliceToken, "Buy milk", "")
	url := fmt.Sprintf("/api/tasks/%d", task.ID)

	w := doJSON(suite.router, http.MethodDelete, url, suite.aliceToken, nil)
	suite.Equal(http.StatusNoContent, w.Code)
	suite.Empty(w.Body.String())

	w = doJSON(suite.router, http.MethodDelete, url, suite.aliceToken, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestInvalidTaskID() {
	w := doJSON(suite.router, http.MethodGet, "/api/tasks/abc", suite.aliceToken, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Invalid task ID", suite.decodeError(w).Message)
}

func (suite *TaskHandlerTestSuite) TestRequiresAuthentication() {
	w := doJSON(suite.router, http.MethodGet, "/api/tasks", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = doJSON(suite.router, http.MethodGet, "/api/tasks", "not-a-token", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}
