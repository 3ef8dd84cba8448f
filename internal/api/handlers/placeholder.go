package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const maxPlaceholderDimension = 4000

// Placeholder godoc
// @Summary Placeholder image
// @Description Generate an SVG placeholder image of the requested dimensions
// @Tags tools
// @Produce image/svg+xml
// @Param width path int true "Width in pixels"
// @Param height path int true "Height in pixels"
// @Success 200 {string} string "SVG markup"
// @Failure 400 {object} object{error=string,message=string}
// @Router /placeholder/{width}/{height} [get]
func (h *Handler) Placeholder(c *gin.Context) {
	width, errW := strconv.Atoi(c.Param("width"))
	height, errH := strconv.Atoi(c.Param("height"))
	if errW != nil || errH != nil ||
		width < 1 || height < 1 ||
		width > maxPlaceholderDimension || height > maxPlaceholderDimension {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": fmt.Sprintf("Dimensions must be between 1 and %d", maxPlaceholderDimension),
		})
		return
	}

	label := c.DefaultQuery("text", fmt.Sprintf("%dx%d", width, height))
	fontSize := height / 5
	if fontSize < 10 {
		fontSize = 10
	}

	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
  <rect width="100%%" height="100%%" fill="#dddddd"/>
  <text x="50%%" y="50%%" font-family="sans-serif" font-size="%d" fill="#555555" text-anchor="middle" dominant-baseline="middle">%s</text>
</svg>`, width, height, width, height, fontSize, svgEscape(label))

	c.Data(http.StatusOK, "image/svg+xml", []byte(svg))
}

var svgEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func svgEscape(s string) string {
	return svgEscaper.Replace(s)
}
