package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/personal-task-api/internal/constants"
	apierrors "github.com/yukikurage/personal-task-api/internal/errors"
	"github.com/yukikurage/personal-task-api/internal/models"
	"github.com/yukikurage/personal-task-api/internal/services"
)

// RequireAuth authenticates the request with a bearer token or, failing
// that, the session, and loads the user into the context.
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := resolveUserID(c, authService)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, err := authService.GetUser(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				apierrors.Unauthorized(c, "")
			} else {
				slog.ErrorContext(c.Request.Context(), "failed to load authenticated user",
					"user_id", userID, "error", err)
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		// Store user in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

func resolveUserID(c *gin.Context, authService *services.AuthService) (uint64, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			return 0, false
		}
		userID, err := authService.UserIDFromToken(token)
		if err != nil {
			return 0, false
		}
		return userID, true
	}

	session := sessions.Default(c)
	return toUserID(session.Get(constants.ContextKeyUserID))
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUserID(userID)
}

// GetCurrentUser retrieves the authenticated user from context
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}

func toUserID(value interface{}) (uint64, bool) {
	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
