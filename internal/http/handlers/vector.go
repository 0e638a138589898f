package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zaryah/zaryah-backend/internal/http/response"
	"github.com/zaryah/zaryah-backend/internal/services"
)

type VectorHandler struct {
	indexService services.ProfileIndexService
}

func NewVectorHandler(indexService services.ProfileIndexService) *VectorHandler {
	return &VectorHandler{indexService: indexService}
}

// POST /api/sync-to-pinecone
func (vh *VectorHandler) SyncAll(c *gin.Context) {
	n, err := vh.indexService.SyncAll(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"message":   "Successfully synced " + strconv.Itoa(n) + " users to Pinecone",
		"count":     n,
		"timestamp": time.Now().UTC(),
	})
}

// GET /api/search-users?query=python&limit=10
func (vh *VectorHandler) SearchUsers(c *gin.Context) {
	query := c.Query("query")
	limit, _ := strconv.Atoi(c.Query("limit"))
	hits, err := vh.indexService.Search(c.Request.Context(), query, limit)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"query":   query,
		"results": hits,
		"count":   len(hits),
	})
}
