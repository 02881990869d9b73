package season

import (
	"net/http"

	sharedError "github.com/lavictoria/club-api/internal/shared/error"
)

const (
	seasonNotFound     = "SEASON_NOT_FOUND"        // errInfo
	overlappingSeasons = "SEASON_OVERLAP"          // errInfo
	alreadyEnrolled    = "SEASON_ALREADY_ENROLLED" // errInfo
	enrollmentNotFound = "ENROLLMENT_NOT_FOUND"    // errInfo
	invalidSeasonRange = "SEASON_INVALID_RANGE"    // errInfo
)

var (
	ErrSeasonNotFound     = sharedError.NewDomainError(seasonNotFound)
	ErrOverlappingSeasons = sharedError.NewDomainError(overlappingSeasons)
	ErrAlreadyEnrolled    = sharedError.NewDomainError(alreadyEnrolled)
	ErrEnrollmentNotFound = sharedError.NewDomainError(enrollmentNotFound)
	ErrInvalidSeasonRange = sharedError.NewDomainError(invalidSeasonRange)
)

func init() {
	sharedError.RegisterDomainErrorResponse(seasonNotFound, sharedError.ErrorResponse{
		Status:  http.StatusNotFound,
		Code:    "SEASON-001",
		Message: "Temporada no encontrada",
	})

	sharedError.RegisterDomainErrorResponse(overlappingSeasons, sharedError.ErrorResponse{
		Status:  http.StatusConflict,
		Code:    "SEASON-002",
		Message: "Las fechas se solapan con otra temporada existente",
	})

	sharedError.RegisterDomainErrorResponse(alreadyEnrolled, sharedError.ErrorResponse{
		Status:  http.StatusConflict,
		Code:    "SEASON-003",
		Message: "El socio ya está inscripto en la temporada",
	})

	sharedError.RegisterDomainErrorResponse(enrollmentNotFound, sharedError.ErrorResponse{
		Status:  http.StatusNotFound,
		Code:    "SEASON-004",
		Message: "Asociación no encontrada",
	})

	sharedError.RegisterDomainErrorResponse(invalidSeasonRange, sharedError.ErrorResponse{
		Status:  http.StatusBadRequest,
		Code:    "SEASON-005",
		Message: "La fecha de inicio debe ser anterior o igual a la fecha de fin",
	})
}
