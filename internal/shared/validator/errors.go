package validator

import (
	"errors"
	"fmt"

	sharedError "github.com/lavictoria/club-api/internal/shared/error"

	"github.com/go-playground/validator/v10"
)

// ToErrorResponse converts gin binding/validator errors into a standardized response.
func ToErrorResponse(err error) (*sharedError.ErrorResponse, bool) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil, false
	}

	if len(validationErrors) == 0 {
		return nil, false
	}

	// Only the first failure is reported
	fieldErr := validationErrors[0]

	resp := sharedError.ValidationFailed
	resp.Message = getErrorMessage(fieldErr)
	return &resp, true
}

func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("El campo '%s' es obligatorio", fe.Field())
	case "email":
		return "El email no tiene un formato válido"
	case "min", "gte":
		return fmt.Sprintf("El campo '%s' debe ser mayor o igual a %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("El campo '%s' debe ser menor o igual a %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("El campo '%s' debe ser uno de: %s", fe.Field(), fe.Param())
	case "dni":
		return "El DNI ingresado no es válido"
	case "civildate":
		return fmt.Sprintf("El campo '%s' debe tener formato YYYY-MM-DD", fe.Field())
	default:
		return fmt.Sprintf("El campo '%s' no es válido", fe.Field())
	}
}
