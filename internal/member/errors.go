package member

import (
	"net/http"

	sharedError "github.com/lavictoria/club-api/internal/shared/error"
)

const (
	memberNotFound   = "MEMBER_NOT_FOUND"  // errInfo
	dniAlreadyExists = "MEMBER_DNI_EXISTS" // errInfo
)

var (
	ErrMemberNotFound   = sharedError.NewDomainError(memberNotFound)
	ErrDNIAlreadyExists = sharedError.NewDomainError(dniAlreadyExists)
)

func init() {
	sharedError.RegisterDomainErrorResponse(memberNotFound, sharedError.ErrorResponse{
		Status:  http.StatusNotFound,
		Code:    "MEMBER-001",
		Message: "Socio no encontrado",
	})

	sharedError.RegisterDomainErrorResponse(dniAlreadyExists, sharedError.ErrorResponse{
		Status:  http.StatusConflict,
		Code:    "MEMBER-002",
		Message: "El DNI ya se encuentra registrado",
	})
}
