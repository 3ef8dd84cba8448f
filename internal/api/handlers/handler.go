package handlers

import (
	"net/http"
	"sync"

	"hookmock/internal/config"
	"hookmock/internal/constants"
	"hookmock/internal/limits"
	"hookmock/internal/models"
	"hookmock/internal/ratelimit"
	"hookmock/internal/session"
	"hookmock/internal/storage"
)

type Handler struct {
	store       storage.Store
	cfg         *config.Config
	rateLimiter ratelimit.Limiter
	delayGate   *limits.DelayGate
	sessions    *session.Manager
	replayer    *http.Client

	mu       sync.RWMutex                // guards webhooks
	webhooks map[string][]models.Webhook // session id -> buckets
}

func NewHandler(store storage.Store, cfg *config.Config, rl ratelimit.Limiter, sessions *session.Manager) *Handler {
	return &Handler{
		store:       store,
		cfg:         cfg,
		rateLimiter: rl,
		delayGate:   limits.NewDelayGate(cfg.Capture.MaxConcurrentDelays),
		sessions:    sessions,
		replayer:    &http.Client{Timeout: constants.ReplayTimeout},
		webhooks:    make(map[string][]models.Webhook),
	}
}
