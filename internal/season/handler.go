package season

import (
	"net/http"

	"github.com/lavictoria/club-api/internal/shared/handler"
	"github.com/lavictoria/club-api/internal/shared/pagination"

	"github.com/gin-gonic/gin"
)

type SeasonHandler struct {
	seasonService *SeasonService
}

func NewSeasonHandler(seasonService *SeasonService) *SeasonHandler {
	return &SeasonHandler{seasonService: seasonService}
}

func (h *SeasonHandler) Create(c *gin.Context) {
	var request CreateSeasonRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	response, err := h.seasonService.Create(c.Request.Context(), &request)
	if err != nil {
		handler.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *SeasonHandler) List(c *gin.Context) {
	responses, err := h.seasonService.List(c.Request.Context())
	if err != nil {
		handler.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses)
}

func (h *SeasonHandler) Get(c *gin.Context) {
	id, ok := handler.ParseIDParam(c, "id")
	if !ok {
		return
	}

	response, err := h.seasonService.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *SeasonHandler) Update(c *gin.Context) {
	id, ok := handler.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var request UpdateSeasonRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	response, err := h.seasonService.Update(c.Request.Context(), id, &request)
	if err != nil {
		handler.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *SeasonHandler) Delete(c *gin.Context) {
	id, ok := handler.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.seasonService.Delete(c.Request.Context(), id); err != nil {
		handler.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Temporada eliminada exitosamente"})
}

func (h *SeasonHandler) Members(c *gin.Context) {
	id, ok := handler.ParseIDParam(c, "id")
	if !ok {
		return
	}

	responses, err := h.seasonService.MembersOf(c.Request.Context(), id)
	if err != nil {
		handler.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, responses)
}

func (h *SeasonHandler) Enroll(c *gin.Context) {
	id, ok := handler.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var request EnrollRequest
	if !handler.BindJSON(c, &request) {
		return
	}

	response, err := h.seasonService.Enroll(c.Request.Context(), id, request.MemberID)
	if err != nil {
		handler.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *SeasonHandler) Unenroll(c *gin.Context) {
	id, ok := handler.ParseIDParam(c, "id")
	if !ok {
		return
	}
	memberID, ok := handler.ParseIDParam(c, "memberId")
	if !ok {
		return
	}

	if err := h.seasonService.Unenroll(c.Request.Context(), id, memberID); err != nil {
		handler.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Socio removido de la temporada"})
}

func (h *SeasonHandler) AvailableMembers(c *gin.Context) {
	id, ok := handler.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var query pagination.Query
	if !handler.BindQuery(c, &query) {
		return
	}

	page, err := h.seasonService.AvailableMembers(c.Request.Context(), id, query)
	if err != nil {
		handler.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}
