package handlers

import (
	"testing"

	"hookmock/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAnalytics(t *testing.T) {
	stats := models.Stats{
		Total:     4,
		ByMethod:  map[string]int{"POST": 3, "GET": 1},
		ByStatus:  map[string]int{"2xx": 3, "4xx": 1},
		ByPath:    map[string]int{"/webhooks/a": 3, "/webhooks/b": 1},
		PathOrder: []string{"/webhooks/a", "/webhooks/b"},
		Last24h:   4,
		LastHour:  2,
	}

	analytics := buildAnalytics(stats)
	assert.Equal(t, 4, analytics.Total)
	assert.Equal(t, models.StatSlice{Count: 3, Percentage: "75.00"}, analytics.Methods["POST"])
	assert.Equal(t, models.StatSlice{Count: 1, Percentage: "25.00"}, analytics.Methods["GET"])
	assert.Equal(t, models.StatSlice{Count: 3, Percentage: "75.00"}, analytics.Statuses["2xx"])
	require.Len(t, analytics.TopPaths, 2)
	assert.Equal(t, "/webhooks/a", analytics.TopPaths[0].Path)
	assert.Equal(t, 2, analytics.LastHour)
}

func TestBuildAnalyticsEmpty(t *testing.T) {
	analytics := buildAnalytics(models.Stats{})
	assert.Equal(t, 0, analytics.Total)
	assert.Empty(t, analytics.Methods)
	assert.Empty(t, analytics.TopPaths)
}

func TestTopPathsTiesKeepFirstSeenOrder(t *testing.T) {
	stats := models.Stats{
		Total:     3,
		ByPath:    map[string]int{"/b": 1, "/a": 1, "/c": 1},
		PathOrder: []string{"/b", "/a", "/c"},
	}

	ranked := topPaths(stats, 10)
	require.Len(t, ranked, 3)
	assert.Equal(t, "/b", ranked[0].Path)
	assert.Equal(t, "/a", ranked[1].Path)
	assert.Equal(t, "/c", ranked[2].Path)
}

func TestTopPathsTruncates(t *testing.T) {
	stats := models.Stats{
		Total:     3,
		ByPath:    map[string]int{"/a": 1, "/b": 1, "/c": 1},
		PathOrder: []string{"/a", "/b", "/c"},
	}

	assert.Len(t, topPaths(stats, 2), 2)
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "0.00", formatPercent(5, 0))
	assert.Equal(t, "50.00", formatPercent(1, 2))
	assert.Equal(t, "33.33", formatPercent(1, 3))
	assert.Equal(t, "100.00", formatPercent(3, 3))
}
