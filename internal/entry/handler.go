package entry

import (
	"net/http"

	"github.com/lavictoria/club-api/internal/shared/clock"
	sharedError "github.com/lavictoria/club-api/internal/shared/error"
	"github.com/lavictoria/club-api/internal/shared/handler"
	"github.com/lavictoria/club-api/internal/shared/pagination"
	"github.com/lavictoria/club-api/internal/shared/validator"

	"github.com/gin-gonic/gin"
)

type EntryHandler struct {
	entryService *EntryService
}

func NewEntryHandler(entryService *EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

func (h *EntryHandler) Create(c *gin.Context) {
	var request CreateEntryRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	response, err := h.entryService.Create(c.Request.Context(), &request)
	if err != nil {
		handler.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *EntryHandler) List(c *gin.Context) {
	var query pagination.Query
	if !handler.BindQuery(c, &query) {
		return
	}

	page, err := h.entryService.List(c.Request.Context(), query)
	if err != nil {
		handler.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *EntryHandler) Get(c *gin.Context) {
	id, ok := handler.ParseIDParam(c, "id")
	if !ok {
		return
	}

	response, err := h.entryService.FindByID(c.Request.Context(), id)
	if err != nil {
		handler.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *EntryHandler) ByDNI(c *gin.Context) {
	dni := c.Param("dni")
	if !validator.IsDNI(dni) {
		c.JSON(sharedError.InvalidParameter.Status, sharedError.InvalidParameter)
		return
	}

	responses, err := h.entryService.FindByDNI(c.Request.Context(), dni)
	if err != nil {
		handler.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses)
}

func (h *EntryHandler) ByDateRange(c *gin.Context) {
	from, errFrom := clock.ParseCivilDate(c.Param("from"))
	to, errTo := clock.ParseCivilDate(c.Param("to"))
	if errFrom != nil || errTo != nil {
		c.JSON(sharedError.InvalidParameter.Status, sharedError.InvalidParameter)
		return
	}

	responses, err := h.entryService.FindByDateRange(c.Request.Context(), from, to)
	if err != nil {
		handler.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses)
}
