package constants

import "time"

const (
	// WebhookNamespace prefixes every captured request path.
	WebhookNamespace = "/webhooks"

	// ReservedHeaderPrefix marks platform headers that are stripped
	// from captured records (matched case-insensitively).
	ReservedHeaderPrefix = "x-hookmock-"

	// WebhookIDPrefix marks a first path segment that carries a
	// bucket id, e.g. /webhooks/webhook_ab12cd/orders.
	WebhookIDPrefix = "webhook_"
)

const (
	// DefaultMaxRecords caps how many records a backend retains.
	DefaultMaxRecords = 1000

	// MaxPageSize caps the page size a caller may request.
	MaxPageSize = 100

	// DefaultPageSize is used when the caller asks for none.
	DefaultPageSize = 20

	// TopPathsLimit bounds the analytics path ranking.
	TopPathsLimit = 10

	// MaxWebhooksPerSession caps named buckets per browser session.
	MaxWebhooksPerSession = 3
)

const (
	// DefaultRateLimit is requests per window per client IP.
	DefaultRateLimit = 100

	// DefaultRateWindow is the fixed rate-limit window length.
	DefaultRateWindow = time.Minute

	// DefaultMaxJSONBody, DefaultMaxTextBody and DefaultMaxFormBody
	// are payload ceilings per content-type family, in bytes.
	DefaultMaxJSONBody = 1 << 20 // 1 MiB
	DefaultMaxTextBody = 512 << 10
	DefaultMaxFormBody = 1 << 20

	// DefaultMaxTimeoutSeconds bounds the artificial response delay.
	DefaultMaxTimeoutSeconds = 30

	// DefaultMaxConcurrentDelays bounds how many requests may sleep
	// in a delay simultaneously.
	DefaultMaxConcurrentDelays = 25

	// ReplayTimeout bounds one replay round-trip.
	ReplayTimeout = 15 * time.Second
)
