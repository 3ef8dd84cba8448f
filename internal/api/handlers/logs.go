package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"hookmock/internal/constants"
	"hookmock/internal/storage"

	"github.com/gin-gonic/gin"
)

// ListLogs godoc
// @Summary List captured requests
// @Description List all captured requests, newest first, optionally paginated and scoped to one webhook
// @Tags logs
// @Produce json
// @Security ApiKeyAuth
// @Param paginate query bool false "Enable pagination"
// @Param page query int false "1-based page number"
// @Param pageSize query int false "Page size (capped at 100)"
// @Param webhookId query string false "Scope to one webhook bucket"
// @Success 200 {object} object{logs=[]object,total=integer}
// @Failure 401 {object} object{error=string,message=string}
// @Failure 500 {object} object{error=string,message=string}
// @Router /logs [get]
func (h *Handler) ListLogs(c *gin.Context) {
	webhookID := c.Query("webhookId")

	if c.Query("paginate") != "true" {
		logs, err := h.store.List(webhookID)
		if err != nil {
			log.Printf("Failed to list log records: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "internal_error",
				"message": "Failed to fetch logs",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"logs": logs, "total": len(logs)})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(constants.DefaultPageSize)))
	if err != nil || pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}

	paged, err := h.store.ListPaged(page, pageSize, webhookID)
	if err != nil {
		log.Printf("Failed to page log records: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to fetch logs",
		})
		return
	}

	c.JSON(http.StatusOK, paged)
}

// GetLog godoc
// @Summary Get one captured request
// @Tags logs
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Log record id"
// @Success 200 {object} object{id=string,method=string,path=string}
// @Failure 404 {object} object{error=string,message=string}
// @Router /logs/{id} [get]
func (h *Handler) GetLog(c *gin.Context) {
	record, err := h.store.GetByID(c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Log record not found",
		})
		return
	} else if err != nil {
		log.Printf("Failed to fetch log record: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to fetch log record",
		})
		return
	}

	c.JSON(http.StatusOK, record)
}

// DeleteLog godoc
// @Summary Delete one captured request
// @Tags logs
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Log record id"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string,message=string}
// @Router /logs/{id} [delete]
func (h *Handler) DeleteLog(c *gin.Context) {
	deleted, err := h.store.DeleteByID(c.Param("id"))
	if err != nil {
		log.Printf("Failed to delete log record: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to delete log record",
		})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Log record not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Log record deleted"})
}

// ClearLogs godoc
// @Summary Delete all captured requests
// @Description Delete every captured request, or every request of one webhook bucket
// @Tags logs
// @Produce json
// @Security ApiKeyAuth
// @Param webhookId query string false "Scope to one webhook bucket"
// @Success 200 {object} object{message=string}
// @Failure 500 {object} object{error=string,message=string}
// @Router /logs [delete]
func (h *Handler) ClearLogs(c *gin.Context) {
	if err := h.store.Clear(c.Query("webhookId")); err != nil {
		log.Printf("Failed to clear log records: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to clear logs",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logs cleared"})
}
