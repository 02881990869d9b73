package auth

import (
	"net/http"

	"github.com/lavictoria/club-api/internal/shared/handler"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *AuthService
}

func NewAuthHandler(authService *AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login answers 201 with an access token.
func (a *AuthHandler) Login(c *gin.Context) {
	var request LoginRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	response, err := a.authService.Login(c.Request.Context(), &request)
	if err != nil {
		handler.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// PasswordHash is an operator tool for provisioning accounts by hand. Disabled in production.
func (a *AuthHandler) PasswordHash(c *gin.Context) {
	var request PasswordHashRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	hash, err := a.authService.HashPassword(c.Request.Context(), request.Password)
	if err != nil {
		handler.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, PasswordHashResponse{Hash: hash})
}
