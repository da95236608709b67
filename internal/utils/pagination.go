// internal/utils/pagination.go
package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/product-inventory/internal/config"
)

type PaginationParams struct {
	Page     int
	PageSize int
	// Search is only meaningful when HasSearch is set; an empty but present
	// search parameter still selects the search path.
	Search    string
	HasSearch bool
}

// GetPaginationParams reads page, pageSize and search from the query string.
// Missing or unparsable values fall back to defaults and pageSize is capped
// at cfg.MaxPageSize.
func GetPaginationParams(c *gin.Context, cfg config.PaginationConfig) PaginationParams {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(cfg.DefaultPageSize)))
	if err != nil || pageSize < 1 {
		pageSize = cfg.DefaultPageSize
	}
	if cfg.MaxPageSize > 0 && pageSize > cfg.MaxPageSize {
		pageSize = cfg.MaxPageSize
	}

	search, hasSearch := c.GetQuery("search")

	return PaginationParams{
		Page:      page,
		PageSize:  pageSize,
		Search:    search,
		HasSearch: hasSearch,
	}
}

// Offset of the first row of page. ok is false when the offset does not fit
// in an int, which means the page lies past any table.
func Offset(page, pageSize int) (offset int, ok bool) {
	if page < 1 || pageSize < 1 {
		return 0, true
	}
	if page-1 > math.MaxInt/pageSize {
		return 0, false
	}
	return (page - 1) * pageSize, true
}

func TotalPages(total int64, pageSize int) int {
	if pageSize < 1 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(pageSize)))
}

func SetPaginationHeaders(c *gin.Context, page, pageSize int, total int64, totalPages int) {
	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	c.Header("X-Page", strconv.Itoa(page))
	c.Header("X-Per-Page", strconv.Itoa(pageSize))
	c.Header("X-Total-Pages", strconv.Itoa(totalPages))
}
