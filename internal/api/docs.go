// internal/api/docs.go
package api

import "time"

// These types are for Swagger documentation
type CaptureResponse struct {
	Success    bool      `json:"success" example:"true"`
	ID         string    `json:"id" example:"req_1735600000000_a1b2c3d4"`
	Path       string    `json:"path" example:"/webhooks/orders"`
	Method     string    `json:"method" example:"POST"`
	StatusCode int       `json:"statusCode" example:"200"`
	Timeout    int       `json:"timeout" example:"0"`
	Timestamp  time.Time `json:"timestamp"`
}

type CreateWebhookRequest struct {
	Name string `json:"name" example:"payments"`
}

type WebhookResponse struct {
	ID        string    `json:"id" example:"webhook_a1b2c3d4"`
	Name      string    `json:"name" example:"payments"`
	URL       string    `json:"url" example:"/webhooks/webhook_a1b2c3d4"`
	CreatedAt time.Time `json:"createdAt"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"not_found"`
	Message string `json:"message" example:"Log record not found"`
}
