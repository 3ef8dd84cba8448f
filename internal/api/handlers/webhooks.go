package handlers

import (
	"fmt"
	"net/http"
	"time"

	"hookmock/internal/constants"
	"hookmock/internal/models"
	"hookmock/internal/utils"

	"github.com/gin-gonic/gin"
)

// CreateWebhook godoc
// @Summary Create a named webhook bucket
// @Description Create a webhook bucket scoped to the caller's session, capped at 3 per session
// @Tags webhooks
// @Accept json
// @Produce json
// @Param webhook body object{name=string} true "Webhook details"
// @Success 200 {object} object{message=string,webhook=object{id=string,name=string,url=string}}
// @Failure 400 {object} object{error=string,message=string}
// @Router /webhooks [post]
func (h *Handler) CreateWebhook(c *gin.Context) {
	sessionID := c.GetString("session_id")

	var request struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "name is required",
		})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.webhooks[sessionID]) >= constants.MaxWebhooksPerSession {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": fmt.Sprintf("At most %d webhooks per session", constants.MaxWebhooksPerSession),
		})
		return
	}

	webhook := models.Webhook{
		ID:        constants.WebhookIDPrefix + utils.GenerateUUID()[:8],
		SessionID: sessionID,
		Name:      request.Name,
		CreatedAt: time.Now().UTC(),
	}
	webhook.URL = fmt.Sprintf("%s/%s", constants.WebhookNamespace, webhook.ID)
	h.webhooks[sessionID] = append(h.webhooks[sessionID], webhook)

	c.JSON(http.StatusOK, gin.H{
		"message": "Webhook created successfully",
		"webhook": webhook,
	})
}

// ListWebhooks godoc
// @Summary List the session's webhook buckets
// @Tags webhooks
// @Produce json
// @Success 200 {object} object{webhooks=[]object{id=string,name=string,url=string}}
// @Router /webhooks [get]
func (h *Handler) ListWebhooks(c *gin.Context) {
	sessionID := c.GetString("session_id")

	h.mu.RLock()
	defer h.mu.RUnlock()

	webhooks := h.webhooks[sessionID]
	if webhooks == nil {
		webhooks = []models.Webhook{}
	}
	c.JSON(http.StatusOK, gin.H{"webhooks": webhooks})
}

// DeleteWebhook godoc
// @Summary Delete a webhook bucket
// @Tags webhooks
// @Produce json
// @Param webhookId query string true "Webhook id"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string,message=string}
// @Router /webhooks [delete]
func (h *Handler) DeleteWebhook(c *gin.Context) {
	sessionID := c.GetString("session_id")
	webhookID := c.Query("webhookId")
	if webhookID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "webhookId is required",
		})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	buckets := h.webhooks[sessionID]
	for i, webhook := range buckets {
		if webhook.ID == webhookID {
			h.webhooks[sessionID] = append(buckets[:i], buckets[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"message": "Webhook deleted successfully"})
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{
		"error":   "not_found",
		"message": "Webhook not found",
	})
}
