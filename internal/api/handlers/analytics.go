package handlers

import (
	"fmt"
	"log"
	"net/http"
	"sort"

	"hookmock/internal/constants"
	"hookmock/internal/models"

	"github.com/gin-gonic/gin"
)

// GetAnalytics godoc
// @Summary Request analytics
// @Description Aggregate counts and percentages over captured requests
// @Tags analytics
// @Produce json
// @Security ApiKeyAuth
// @Param webhookId query string false "Scope to one webhook bucket"
// @Success 200 {object} object{total=integer,methods=object,statuses=object,topPaths=[]object}
// @Failure 500 {object} object{error=string,message=string}
// @Router /analytics [get]
func (h *Handler) GetAnalytics(c *gin.Context) {
	stats, err := h.store.Stats(c.Query("webhookId"))
	if err != nil {
		log.Printf("Failed to aggregate stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to compute analytics",
		})
		return
	}

	c.JSON(http.StatusOK, buildAnalytics(stats))
}

// buildAnalytics derives the dashboard view from raw counts.
func buildAnalytics(stats models.Stats) models.Analytics {
	analytics := models.Analytics{
		Total:      stats.Total,
		Methods:    make(map[string]models.StatSlice, len(stats.ByMethod)),
		Statuses:   make(map[string]models.StatSlice, len(stats.ByStatus)),
		Last24h:    stats.Last24h,
		LastHour:   stats.LastHour,
		LastMinute: stats.LastMinute,
	}

	for method, count := range stats.ByMethod {
		analytics.Methods[method] = models.StatSlice{
			Count:      count,
			Percentage: formatPercent(count, stats.Total),
		}
	}
	for status, count := range stats.ByStatus {
		analytics.Statuses[status] = models.StatSlice{
			Count:      count,
			Percentage: formatPercent(count, stats.Total),
		}
	}

	analytics.TopPaths = topPaths(stats, constants.TopPathsLimit)
	return analytics
}

// topPaths ranks paths by count. Ties keep the order the paths were
// first seen in, which keeps the ranking stable across refreshes.
func topPaths(stats models.Stats, limit int) []models.PathCount {
	ranked := make([]models.PathCount, 0, len(stats.PathOrder))
	for _, path := range stats.PathOrder {
		ranked = append(ranked, models.PathCount{
			Path:       path,
			Count:      stats.ByPath[path],
			Percentage: formatPercent(stats.ByPath[path], stats.Total),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func formatPercent(count, total int) string {
	if total == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(count)/float64(total)*100)
}
