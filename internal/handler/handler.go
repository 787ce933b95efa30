// Package handler wires HTTP transport to the service layer. Handlers parse
// input, call one service method and render the shared envelope; policy
// lives below them.
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// pageQuery reads the "page" query parameter, defaulting to the first page.
// Out-of-range values are passed through; the service clamps them.
func pageQuery(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return 1
	}
	return page
}
