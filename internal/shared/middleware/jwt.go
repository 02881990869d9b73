package middleware

import (
	"errors"
	"net/http"
	"strings"

	sharedContext "github.com/lavictoria/club-api/internal/shared/context"
	sharedError "github.com/lavictoria/club-api/internal/shared/error"
	"github.com/lavictoria/club-api/internal/shared/logger"
	"github.com/lavictoria/club-api/internal/shared/token"

	"github.com/gin-gonic/gin"
)

const (
	AuthorizationHeader = "Authorization"
	BearerScheme        = "Bearer"
)

// JWT error constants (errInfo)
const (
	missingToken  = "MISSING_TOKEN"
	invalidToken  = "INVALID_TOKEN"
	expiredToken  = "EXPIRED_TOKEN"
	invalidClaims = "INVALID_CLAIMS"
)

// Domain errors
var (
	ErrMissingToken  = sharedError.NewDomainError(missingToken)
	ErrInvalidToken  = sharedError.NewDomainError(invalidToken)
	ErrExpiredToken  = sharedError.NewDomainError(expiredToken)
	ErrInvalidClaims = sharedError.NewDomainError(invalidClaims)
)

var unauthorized = sharedError.ErrorResponse{
	Status:  http.StatusUnauthorized,
	Code:    "AUTH-000",
	Message: "Token inválido o expirado",
}

func init() {
	for _, info := range []string{missingToken, invalidToken, expiredToken, invalidClaims} {
		sharedError.RegisterDomainErrorResponse(info, unauthorized)
	}
}

// JWT authenticates Bearer tokens and stores the operator username in the context.
func JWT(tokenManager token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		method := c.Request.Method
		path := c.Request.URL.Path

		rawToken, err := extractToken(c)
		if err != nil {
			logger.FromContext(c.Request.Context()).Warn("JWT token extraction failed",
				"step", "extract_token",
				"error", err.Error(),
				"client_ip", clientIP,
				"method", method,
				"path", path,
			)
			handleJWTError(c, err)
			return
		}

		claims, err := tokenManager.ValidateToken(rawToken)
		if err != nil {
			logger.FromContext(c.Request.Context()).Warn("JWT token validation failed",
				"step", "validate_token",
				"error", err.Error(),
				"client_ip", clientIP,
				"method", method,
				"path", path,
			)
			handleJWTError(c, MapTokenError(err))
			return
		}

		c.Set(sharedContext.UsernameKey, claims.Username)
		c.Request = c.Request.WithContext(logger.With(c.Request.Context(), "operator", claims.Username))
		c.Next()
	}
}

// handleJWTError handles JWT errors using the standardized error response format
// Note: Logging is done at the point of error detection in JWT() function
func handleJWTError(c *gin.Context, err error) {
	if resp, ok := sharedError.ResolveDomainError(err); ok {
		c.JSON(resp.Status, resp)
	} else {
		c.JSON(http.StatusUnauthorized, sharedError.ErrorResponse{
			Status:  http.StatusUnauthorized,
			Code:    "AUTH-999",
			Message: "No autorizado",
		})
	}
	c.Abort()
}

func extractToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader(AuthorizationHeader)
	if authHeader == "" {
		return "", ErrMissingToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], BearerScheme) {
		return "", ErrInvalidToken
	}

	return parts[1], nil
}

// MapTokenError converts token package errors into registered domain errors.
func MapTokenError(err error) error {
	switch {
	case errors.Is(err, token.ErrExpiredToken):
		return ErrExpiredToken
	case errors.Is(err, token.ErrInvalidClaims):
		return ErrInvalidClaims
	default:
		return ErrInvalidToken
	}
}
