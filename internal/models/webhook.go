package models

import "time"

// Webhook is a named bucket that groups captured records under one
// logical endpoint. Buckets belong to an anonymous browser session and
// are a grouping convenience, not a security boundary.
type Webhook struct {
	ID        string    `json:"id"`
	SessionID string    `json:"-"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}
