package entry

import (
	"net/http"

	sharedError "github.com/lavictoria/club-api/internal/shared/error"
)

const (
	entryNotFound        = "ENTRY_NOT_FOUND"        // errInfo
	duplicateEntryToday  = "DUPLICATE_ENTRY_TODAY"  // errInfo
	invalidEntryIdentity = "INVALID_ENTRY_IDENTITY" // errInfo
	entryMemberNotFound  = "ENTRY_MEMBER_NOT_FOUND" // errInfo
)

var (
	ErrEntryNotFound        = sharedError.NewDomainError(entryNotFound)
	ErrDuplicateEntryToday  = sharedError.NewDomainError(duplicateEntryToday)
	ErrInvalidEntryIdentity = sharedError.NewDomainError(invalidEntryIdentity)
	ErrEntryMemberNotFound  = sharedError.NewDomainError(entryMemberNotFound)
)

func init() {
	sharedError.RegisterDomainErrorResponse(entryNotFound, sharedError.ErrorResponse{
		Status:  http.StatusNotFound,
		Code:    "ENTRY-001",
		Message: "Registro de ingreso no encontrado",
	})

	sharedError.RegisterDomainErrorResponse(duplicateEntryToday, sharedError.ErrorResponse{
		Status:  http.StatusConflict,
		Code:    "ENTRY-002",
		Message: "La persona ya registró su ingreso hoy",
	})

	sharedError.RegisterDomainErrorResponse(invalidEntryIdentity, sharedError.ErrorResponse{
		Status:  http.StatusBadRequest,
		Code:    "ENTRY-003",
		Message: "Los socios se registran con memberId y los no socios con dni",
	})

	sharedError.RegisterDomainErrorResponse(entryMemberNotFound, sharedError.ErrorResponse{
		Status:  http.StatusNotFound,
		Code:    "ENTRY-004",
		Message: "Socio no encontrado",
	})
}
