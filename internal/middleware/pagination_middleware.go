package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PaginationMiddleware parses 1-indexed page/limit query parameters with
// defaults and an upper bound on the page size.
func PaginationMiddleware(defaultPageSize, maxPageSize int) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			page = 1
		}

		limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
		if err != nil || limit < 1 {
			limit = defaultPageSize
		}
		if limit > maxPageSize {
			limit = maxPageSize
		}

		c.Set("page", page)
		c.Set("limit", limit)
		c.Next()
	}
}
