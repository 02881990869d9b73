package context

import (
	"net/http"

	sharedError "github.com/lavictoria/club-api/internal/shared/error"
	"github.com/lavictoria/club-api/internal/shared/logger"

	"github.com/gin-gonic/gin"
)

// Context keys for storing the authenticated operator
const (
	UsernameKey = "username"
)

func GetUsername(c *gin.Context) (string, bool) {
	value, exists := c.Get(UsernameKey)
	if !exists {
		return "", false
	}

	username, ok := value.(string)
	if !ok || username == "" {
		return "", false
	}
	return username, true
}

// RequireUsername retrieves the authenticated operator from the Gin context.
// If missing, an authentication error response is sent and false is returned.
func RequireUsername(c *gin.Context) (string, bool) {
	username, ok := GetUsername(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, sharedError.ErrorResponse{
			Status:  http.StatusUnauthorized,
			Code:    "AUTH-000",
			Message: "No autorizado",
		})
		c.Abort()
		logger.FromContext(c.Request.Context()).Error("[API] username missing from context")
		return "", false
	}
	return username, true
}
