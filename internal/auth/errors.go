package auth

import (
	"net/http"

	sharedError "github.com/lavictoria/club-api/internal/shared/error"
)

const (
	userNotFound            = "USER_NOT_FOUND"            // errInfo
	invalidPassword         = "INVALID_PASSWORD"          // errInfo
	passwordHashUnavailable = "PASSWORD_HASH_UNAVAILABLE" // errInfo
)

var (
	ErrUserNotFound            = sharedError.NewDomainError(userNotFound)
	ErrInvalidPassword         = sharedError.NewDomainError(invalidPassword)
	ErrPasswordHashUnavailable = sharedError.NewDomainError(passwordHashUnavailable)
)

func init() {
	sharedError.RegisterDomainErrorResponse(userNotFound, sharedError.ErrorResponse{
		Status:  http.StatusNotFound,
		Code:    "AUTH-001",
		Message: "Usuario no encontrado",
	})

	sharedError.RegisterDomainErrorResponse(invalidPassword, sharedError.ErrorResponse{
		Status:  http.StatusUnauthorized,
		Code:    "AUTH-003",
		Message: "La contraseña ingresada es incorrecta",
	})

	sharedError.RegisterDomainErrorResponse(passwordHashUnavailable, sharedError.ErrorResponse{
		Status:  http.StatusForbidden,
		Code:    "AUTH-004",
		Message: "Operación no disponible en producción",
	})
}
