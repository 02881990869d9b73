package photo

import (
	"net/http"

	sharedError "github.com/lavictoria/club-api/internal/shared/error"
)

const (
	invalidImage = "INVALID_IMAGE"
	photoUpload  = "PHOTO_UPLOAD_FAILED"
)

var (
	ErrInvalidImage = sharedError.NewDomainError(invalidImage)
	ErrPhotoUpload  = sharedError.NewDomainError(photoUpload)
)

func init() {
	sharedError.RegisterDomainErrorResponse(invalidImage, sharedError.ErrorResponse{
		Status:  http.StatusBadRequest,
		Code:    "PHOTO-001",
		Message: "La imagen debe ser JPG, PNG o WEBP y pesar como máximo 5 MB",
	})

	sharedError.RegisterDomainErrorResponse(photoUpload, sharedError.ErrorResponse{
		Status:  http.StatusBadGateway,
		Code:    "PHOTO-002",
		Message: "Error al subir la imagen",
	})
}
