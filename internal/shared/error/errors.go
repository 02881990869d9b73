package error

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError is a sentinel whose Info keys the HTTP response registered for it.
type DomainError interface {
	error
	Info() string
}

type domainSentinel struct {
	errInfo string
}

func (e *domainSentinel) Error() string { return e.errInfo }
func (e *domainSentinel) Info() string  { return e.errInfo }

// ErrorResponse is the JSON body of every error answer.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"` // shown to the operator, Spanish
}

var (
	ValidationFailed = ErrorResponse{
		Status:  http.StatusBadRequest,
		Code:    "ERROR-001",
		Message: "Error en la validación de datos",
	}

	// InvalidRequest is a body that could not be parsed at all.
	InvalidRequest = ErrorResponse{
		Status:  http.StatusBadRequest,
		Code:    "ERROR-002",
		Message: "Formato de solicitud inválido",
	}

	InternalServerError = ErrorResponse{
		Status:  http.StatusInternalServerError,
		Code:    "ERROR-003",
		Message: "Error interno del servidor",
	}

	// InvalidParameter is a malformed path or query parameter (ids, dates, dni).
	InvalidParameter = ErrorResponse{
		Status:  http.StatusBadRequest,
		Code:    "ERROR-004",
		Message: "Parámetro inválido",
	}
)

// responses is written only from package init functions.
var responses = map[string]ErrorResponse{}

func NewDomainError(errInfo string) DomainError {
	return &domainSentinel{errInfo: errInfo}
}

// RegisterDomainErrorResponse binds errInfo to resp. Registering the same errInfo twice panics.
func RegisterDomainErrorResponse(errInfo string, resp ErrorResponse) {
	if prev, ok := responses[errInfo]; ok {
		panic(fmt.Sprintf("error: %s already registered as %s", errInfo, prev.Code))
	}
	responses[errInfo] = resp
}

// ResolveDomainError finds the first DomainError in err's chain and returns its response.
func ResolveDomainError(err error) (ErrorResponse, bool) {
	var domainErr DomainError
	if err == nil || !errors.As(err, &domainErr) {
		return ErrorResponse{}, false
	}
	resp, ok := responses[domainErr.Info()]
	return resp, ok
}

// Responses returns a copy of every registered response keyed by errInfo.
func Responses() map[string]ErrorResponse {
	out := make(map[string]ErrorResponse, len(responses))
	for k, v := range responses {
		out[k] = v
	}
	return out
}
