package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"hookmock/internal/models"

	"github.com/gin-gonic/gin"
)

// SearchLogs godoc
// @Summary Search captured requests
// @Description Filter captured requests by method, path, body content, headers, status and date range
// @Tags logs
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.LogSearchRequest true "Search criteria"
// @Success 200 {object} models.LogSearchResponse
// @Failure 400 {object} object{error=string,message=string}
// @Router /logs/search [post]
func (h *Handler) SearchLogs(c *gin.Context) {
	var req models.LogSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "Invalid request format",
		})
		return
	}

	if err := validateSearchRequest(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": err.Error(),
		})
		return
	}

	all, err := h.store.List(req.WebhookID)
	if err != nil {
		log.Printf("Failed to list log records for search: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to search logs",
		})
		return
	}

	var matched []models.LogRecord
	for _, record := range all {
		if matchesSearch(record, &req) {
			matched = append(matched, record)
		}
	}

	total := len(matched)
	pageCount := (total + req.PageSize - 1) / req.PageSize
	start := (req.Page - 1) * req.PageSize
	if start > total {
		start = total
	}
	end := start + req.PageSize
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, models.LogSearchResponse{
		Logs:        matched[start:end],
		Total:       total,
		PageCount:   pageCount,
		CurrentPage: req.Page,
		HasMore:     req.Page < pageCount,
	})
}

func matchesSearch(record models.LogRecord, req *models.LogSearchRequest) bool {
	if len(req.Methods) > 0 {
		found := false
		for _, method := range req.Methods {
			if strings.EqualFold(method, record.Method) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if req.PathContains != "" && !strings.Contains(record.Path, req.PathContains) {
		return false
	}

	if req.StatusCode != 0 && record.StatusCode != req.StatusCode {
		return false
	}

	if req.HeaderKey != "" {
		value, ok := record.Headers[strings.ToLower(req.HeaderKey)]
		if !ok {
			return false
		}
		if req.HeaderValue != "" && value != req.HeaderValue {
			return false
		}
	}

	if req.BodyContains != "" {
		if record.Body == nil {
			return false
		}
		encoded, err := json.Marshal(record.Body)
		if err != nil {
			return false
		}
		if !strings.Contains(strings.ToLower(string(encoded)), strings.ToLower(req.BodyContains)) {
			return false
		}
	}

	if req.DateFrom != nil && record.Timestamp.Before(*req.DateFrom) {
		return false
	}
	if req.DateTo != nil && record.Timestamp.After(*req.DateTo) {
		return false
	}

	return true
}

func validateSearchRequest(req *models.LogSearchRequest) error {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	if len(req.Methods) > 0 {
		allowedMethods := map[string]bool{
			"GET":    true,
			"POST":   true,
			"PUT":    true,
			"DELETE": true,
			"PATCH":  true,
		}
		for _, method := range req.Methods {
			if !allowedMethods[strings.ToUpper(method)] {
				return fmt.Errorf("invalid HTTP method: %s", method)
			}
		}
	}

	if req.DateFrom != nil && req.DateTo != nil {
		if req.DateFrom.After(*req.DateTo) {
			return errors.New("dateFrom must be before dateTo")
		}
	}

	return nil
}
