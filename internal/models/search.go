package models

import "time"

type LogSearchRequest struct {
	WebhookID    string     `json:"webhookId,omitempty"`
	Methods      []string   `json:"methods,omitempty"` // Filter by HTTP methods (GET, POST, etc)
	PathContains string     `json:"pathContains,omitempty"`
	BodyContains string     `json:"bodyContains,omitempty"`
	HeaderKey    string     `json:"headerKey,omitempty"`   // Search for specific header
	HeaderValue  string     `json:"headerValue,omitempty"` // Search for header value
	StatusCode   int        `json:"statusCode,omitempty"`
	DateFrom     *time.Time `json:"dateFrom,omitempty"`
	DateTo       *time.Time `json:"dateTo,omitempty"`
	Page         int        `json:"page,omitempty"`
	PageSize     int        `json:"pageSize,omitempty"`
}

type LogSearchResponse struct {
	Logs        []LogRecord `json:"logs"`
	Total       int         `json:"total"`
	PageCount   int         `json:"pageCount"`
	CurrentPage int         `json:"currentPage"`
	HasMore     bool        `json:"hasMore"`
}
