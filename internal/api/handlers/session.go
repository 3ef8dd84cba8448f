package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetSession godoc
// @Summary Session bootstrap
// @Description Return the caller's anonymous session id, issuing the session cookie if needed
// @Tags session
// @Produce json
// @Success 200 {object} object{sessionId=string}
// @Router /session [get]
func (h *Handler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sessionId": c.GetString("session_id"),
	})
}
