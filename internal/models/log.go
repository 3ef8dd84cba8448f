package models

import "time"

// LogRecord is one captured webhook request. Records are immutable once
// stored; the only mutation the system knows is deletion.
type LogRecord struct {
	ID             string            `json:"id"`
	Timestamp      time.Time         `json:"timestamp"`
	Method         string            `json:"method"`
	Path           string            `json:"path"`
	URL            string            `json:"url"`
	StatusCode     int               `json:"statusCode"`
	TimeoutSeconds int               `json:"timeoutSeconds,omitempty"`
	StartTime      *time.Time        `json:"startTime,omitempty"`
	EndTime        *time.Time        `json:"endTime,omitempty"`
	Headers        map[string]string `json:"headers"`
	QueryParams    map[string]string `json:"queryParams"`
	Body           interface{}       `json:"body"`
	WebhookID      string            `json:"webhookId,omitempty"`
}

// PagedLogs is one page of records plus the bookkeeping the dashboard
// needs to render pagination controls.
type PagedLogs struct {
	Logs       []LogRecord `json:"logs"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
	HasMore    bool        `json:"hasMore"`
}
