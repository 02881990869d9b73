package handler

import (
	"net/http"
	"strconv"

	sharedError "github.com/lavictoria/club-api/internal/shared/error"
	"github.com/lavictoria/club-api/internal/shared/logger"
	"github.com/lavictoria/club-api/internal/shared/validator"

	"github.com/gin-gonic/gin"
)

// BindJSON parses and validates JSON request body
// Returns true if binding succeeded, false if failed (response already sent)
//
// Usage:
//
//	var req CreateEntryRequest
//	if !handler.BindJSON(c, &req) {
//	    return
//	}
func BindJSON(c *gin.Context, obj any) bool {
	return bind(c, obj, c.ShouldBindJSON)
}

// BindQuery binds and validates query string parameters (pagination, search, date).
func BindQuery(c *gin.Context, obj any) bool {
	return bind(c, obj, c.ShouldBindQuery)
}

// BindForm binds multipart or urlencoded forms. Files are read separately with c.FormFile.
func BindForm(c *gin.Context, obj any) bool {
	return bind(c, obj, c.ShouldBind)
}

func bind(c *gin.Context, obj any, fn func(any) error) bool {
	if err := fn(obj); err != nil {
		// Add error to context for middleware logging
		c.Error(err)

		if resp, ok := validator.ToErrorResponse(err); ok {
			c.JSON(http.StatusBadRequest, resp)
		} else {
			c.JSON(sharedError.InvalidRequest.Status, sharedError.InvalidRequest)
		}
		return false
	}
	return true
}

// ParseIDParam reads a positive numeric path parameter.
// Returns false when the value is not a valid id (response already sent).
func ParseIDParam(c *gin.Context, name string) (uint32, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		logger.FromContext(c.Request.Context()).Debug("Invalid id parameter",
			"param", name, "value", raw)
		c.JSON(sharedError.InvalidParameter.Status, sharedError.InvalidParameter)
		return 0, false
	}
	return uint32(id), true
}

// RespondError sends an error response with logging
//
// Usage:
//
//	if err := service.DoSomething(); err != nil {
//	    handler.RespondError(c, err, sharedError.InternalServerError)
//	    return
//	}
func RespondError(c *gin.Context, err error, errResp sharedError.ErrorResponse) {
	// Add error to context for middleware logging
	c.Error(err)

	c.JSON(errResp.Status, errResp)
}

// RespondServiceError resolves registered domain errors and falls back to a generic 500.
func RespondServiceError(c *gin.Context, err error) {
	if resp, ok := sharedError.ResolveDomainError(err); ok {
		RespondError(c, err, resp)
		return
	}

	logger.FromContext(c.Request.Context()).Error("Unhandled service error", "error", err)
	RespondError(c, err, sharedError.InternalServerError)
}
