package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell-backend/internal/service"
)

type SearchHandler struct {
	searchService *service.SearchService
}

func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search matches published posts against the q parameter. Terms shorter
// than the minimum length return an empty result set.
func (h *SearchHandler) Search(c *gin.Context) {
	// A zero limit defers to the service's configured default.
	result, err := h.searchService.Search(c.Query("q"), queryLimit(c, 0))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
