package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/zaryah/zaryah-backend/internal/http/response"
	"github.com/zaryah/zaryah-backend/internal/services"
)

type StatsHandler struct {
	statsService services.UserStatsService
}

func NewStatsHandler(statsService services.UserStatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GET /api/user-stats
func (sh *StatsHandler) UserStats(c *gin.Context) {
	stats, err := sh.statsService.Stats(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, stats)
}
