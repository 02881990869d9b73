package statistics

import (
	"net/http"

	"github.com/lavictoria/club-api/internal/shared/clock"
	sharedError "github.com/lavictoria/club-api/internal/shared/error"
	"github.com/lavictoria/club-api/internal/shared/handler"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService *StatisticsService
}

func NewStatisticsHandler(statisticsService *StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

// Daily serves GET /statistics?date=YYYY-MM-DD. Without a date it reports today.
func (h *StatisticsHandler) Daily(c *gin.Context) {
	var date *clock.CivilDate
	if raw := c.Query("date"); raw != "" {
		parsed, err := clock.ParseCivilDate(raw)
		if err != nil {
			handler.RespondError(c, err, sharedError.InvalidParameter)
			return
		}
		date = &parsed
	}

	stats, err := h.statisticsService.Daily(c.Request.Context(), date)
	if err != nil {
		handler.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
