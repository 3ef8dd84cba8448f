package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hookmock/internal/config"
	"hookmock/internal/models"
	"hookmock/internal/ratelimit"
	"hookmock/internal/session"
	"hookmock/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Port: "8080"},
		Storage: config.StorageConfig{Backend: "memory", MaxRecords: 100},
		RateLimit: config.RateLimitConfig{
			Limit:  1000,
			Window: time.Minute,
		},
		Capture: config.CaptureConfig{
			MaxJSONBody:         1 << 20,
			MaxTextBody:         512 << 10,
			MaxFormBody:         1 << 20,
			MaxTimeoutSeconds:   5,
			MaxConcurrentDelays: 4,
		},
		Session: config.SessionConfig{Secret: "test-secret"},
		Env:     "test",
	}
}

func newTestEnv(t *testing.T, mutate func(*config.Config)) (*gin.Engine, *storage.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	if mutate != nil {
		mutate(cfg)
	}

	store := storage.NewMemoryStore(cfg.Storage.MaxRecords)
	rl := ratelimit.NewFixedWindowLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window)
	t.Cleanup(func() { rl.Close() })

	router := SetupRouter(store, cfg, rl, session.NewManager(cfg.Session.Secret))
	return router, store
}

func perform(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func jsonRequest(method, target string, payload interface{}) *http.Request {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			panic(err)
		}
		body = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func seed(t *testing.T, store *storage.MemoryStore, record models.LogRecord) {
	t.Helper()
	require.NoError(t, store.Add(record))
}

func sampleRecord(id string, ts time.Time) models.LogRecord {
	return models.LogRecord{
		ID:          id,
		Timestamp:   ts,
		Method:      "POST",
		Path:        "/webhooks/orders",
		URL:         "http://example.com/webhooks/orders",
		StatusCode:  200,
		Headers:     map[string]string{"content-type": "application/json"},
		QueryParams: map[string]string{},
	}
}

func TestHome(t *testing.T) {
	router, _ := newTestEnv(t, nil)

	w := perform(router, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	decodeBody(t, w, &resp)
	assert.Equal(t, "hookmock", resp["server"])
}

func TestCaptureStoresAndEchoes(t *testing.T) {
	router, store := newTestEnv(t, nil)

	req := jsonRequest(http.MethodPost, "http://example.com/webhooks/orders?source=stripe", map[string]interface{}{"a": 1})
	w := perform(router, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	decodeBody(t, w, &resp)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "/webhooks/orders", resp["path"])
	assert.Equal(t, "POST", resp["method"])
	assert.Equal(t, float64(200), resp["statusCode"])
	assert.Equal(t, map[string]interface{}{"a": float64(1)}, resp["body"])
	assert.True(t, strings.HasPrefix(resp["id"].(string), "req_"))

	logs, err := store.List("")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	record := logs[0]
	assert.Equal(t, resp["id"], record.ID)
	assert.Equal(t, "POST", record.Method)
	assert.Equal(t, "/webhooks/orders", record.Path)
	assert.Equal(t, "http://example.com/webhooks/orders?source=stripe", record.URL)
	assert.Equal(t, map[string]interface{}{"a": float64(1)}, record.Body)
	assert.Equal(t, "application/json", record.Headers["content-type"])
	assert.Equal(t, "stripe", record.QueryParams["source"])
	assert.Empty(t, record.WebhookID)
}

func TestCaptureMirrorsRequestedStatus(t *testing.T) {
	router, store := newTestEnv(t, nil)

	w := perform(router, jsonRequest(http.MethodPost, "/webhooks/fail?statusCode=503", map[string]interface{}{"a": 1}))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	logs, err := store.List("")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 503, logs[0].StatusCode)
}

func TestCaptureInvalidStatusDefaultsTo200(t *testing.T) {
	router, _ := newTestEnv(t, nil)

	for _, raw := range []string{"999", "42", "abc"} {
		w := perform(router, jsonRequest(http.MethodPost, "/webhooks/x?statusCode="+raw, nil))
		assert.Equal(t, http.StatusOK, w.Code, "statusCode=%s", raw)
	}
}

func TestCaptureParsesFormBody(t *testing.T) {
	router, store := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/form", strings.NewReader("a=1&b=2"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := perform(router, req)
	require.Equal(t, http.StatusOK, w.Code)

	logs, err := store.List("")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, map[string]interface{}{"a": "1", "b": "2"}, logs[0].Body)
}

func multipartRequest(t *testing.T, target string, fields map[string]string, fileField, fileName string, fileSize int) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write(bytes.Repeat([]byte("x"), fileSize))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestCaptureParsesMultipartBody(t *testing.T) {
	router, store := newTestEnv(t, nil)

	req := multipartRequest(t, "/webhooks/upload", map[string]string{"name": "invoice"}, "attachment", "invoice.pdf", 16)
	w := perform(router, req)
	require.Equal(t, http.StatusOK, w.Code)

	logs, err := store.List("")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, map[string]interface{}{"name": "invoice", "attachment": "invoice.pdf"}, logs[0].Body)
}

func TestCaptureRejectsOversizedMultipartFile(t *testing.T) {
	router, store := newTestEnv(t, func(cfg *config.Config) {
		cfg.Capture.MaxFormBody = 1024
	})

	req := multipartRequest(t, "/webhooks/upload", nil, "upload", "big.bin", 64<<10)
	// A chunked upload declares no length, so only the check against
	// the bytes actually read can catch the oversized file part.
	req.ContentLength = -1
	w := perform(router, req)
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	var resp map[string]interface{}
	decodeBody(t, w, &resp)
	assert.Equal(t, "payload_too_large", resp["error"])
	assert.Equal(t, float64(1024), resp["maxSize"])

	logs, err := store.List("")
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestCaptureBareNamespacePath(t *testing.T) {
	router, store := newTestEnv(t, nil)

	// No trailing slash: served directly, not via a redirect hop.
	w := perform(router, jsonRequest(http.MethodPost, "/webhooks", map[string]interface{}{"a": 1}))
	require.Equal(t, http.StatusOK, w.Code)

	w = perform(router, jsonRequest(http.MethodPost, "/webhooks/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	logs, err := store.List("")
	require.NoError(t, err)
	require.Len(t, logs, 2)
	for _, record := range logs {
		assert.Equal(t, "/webhooks", record.Path)
	}
}

func TestCaptureMalformedJSONStoresNoBody(t *testing.T) {
	router, store := newTestEnv(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/orders", strings.NewReader("{oops"))
	req.Header.Set("Content-Type", "application/json")
	w := perform(router, req)
	require.Equal(t, http.StatusOK, w.Code)

	logs, err := store.List("")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Nil(t, logs[0].Body)
}

func TestCaptureRejectsOversizedBody(t *testing.T) {
	router, store := newTestEnv(t, func(cfg *config.Config) {
		cfg.Capture.MaxJSONBody = 32
	})

	payload := `{"data":"` + strings.Repeat("x", 64) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/orders", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := perform(router, req)
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	var resp map[string]interface{}
	decodeBody(t, w, &resp)
	assert.Equal(t, "payload_too_large", resp["error"])
	assert.Equal(t, float64(32), resp["maxSize"])

	logs, err := store.List("")
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestCaptureFiltersReservedHeaders(t *testing.T) {
	router, store := newTestEnv(t, nil)

	req := jsonRequest(http.MethodPost, "/webhooks/orders", nil)
	req.Header.Set("X-Hookmock-Replay", "true")
	req.Header.Set("X-Custom", "value")
	w := perform(router, req)
	require.Equal(t, http.StatusOK, w.Code)

	logs, err := store.List("")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	headers := logs[0].Headers
	assert.Equal(t, "value", headers["x-custom"])
	assert.NotContains(t, headers, "x-hookmock-replay")
}

func TestCaptureExtractsWebhookID(t *testing.T) {
	router, store := newTestEnv(t, nil)

	w := perform(router, jsonRequest(http.MethodPost, "/webhooks/webhook_abc12345/orders", nil))
	require.Equal(t, http.StatusOK, w.Code)
	w = perform(router, jsonRequest(http.MethodPost, "/webhooks/plain/orders", nil))
	require.Equal(t, http.StatusOK, w.Code)

	scoped, err := store.List("webhook_abc12345")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "/webhooks/webhook_abc12345/orders", scoped[0].Path)
	assert.Equal(t, "webhook_abc12345", scoped[0].WebhookID)

	all, err := store.List("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCaptureDelayWindow(t *testing.T) {
	router, store := newTestEnv(t, nil)

	w := perform(router, jsonRequest(http.MethodPost, "/webhooks/slow?timeout=1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	decodeBody(t, w, &resp)
	assert.Contains(t, resp, "startTime")
	assert.Contains(t, resp, "endTime")

	logs, err := store.List("")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	record := logs[0]
	assert.Equal(t, 1, record.TimeoutSeconds)
	require.NotNil(t, record.StartTime)
	require.NotNil(t, record.EndTime)
	assert.GreaterOrEqual(t, record.EndTime.Sub(*record.StartTime), time.Second)
}

func TestCaptureTimeoutBeyondMaxIsIgnored(t *testing.T) {
	router, store := newTestEnv(t, nil)

	start := time.Now()
	w := perform(router, jsonRequest(http.MethodPost, "/webhooks/slow?timeout=99", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Less(t, time.Since(start), time.Second)

	logs, err := store.List("")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 0, logs[0].TimeoutSeconds)
	assert.Nil(t, logs[0].StartTime)
}

func TestCaptureDelayGateAtCapacity(t *testing.T) {
	router, store := newTestEnv(t, func(cfg *config.Config) {
		cfg.Capture.MaxConcurrentDelays = 0
	})

	w := perform(router, jsonRequest(http.MethodPost, "/webhooks/slow?timeout=1", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp map[string]interface{}
	decodeBody(t, w, &resp)
	assert.Equal(t, "service_unavailable", resp["error"])

	logs, err := store.List("")
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestCaptureRateLimited(t *testing.T) {
	router, store := newTestEnv(t, func(cfg *config.Config) {
		cfg.RateLimit.Limit = 2
	})

	w := perform(router, jsonRequest(http.MethodPost, "/webhooks/orders", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

	w = perform(router, jsonRequest(http.MethodPost, "/webhooks/orders", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = perform(router, jsonRequest(http.MethodPost, "/webhooks/orders", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	var resp map[string]interface{}
	decodeBody(t, w, &resp)
	assert.Equal(t, "rate_limited", resp["error"])
	assert.GreaterOrEqual(t, resp["retryAfter"], float64(1))

	logs, err := store.List("")
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestAPIKeyGuard(t *testing.T) {
	router, _ := newTestEnv(t, func(cfg *config.Config) {
		cfg.Auth.Keys = []string{"sekret"}
	})

	w := perform(router, httptest.NewRequest(http.MethodGet, "/api/logs", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
	var resp map[string]interface{}
	decodeBody(t, w, &resp)
	assert.Equal(t, "authentication_required", resp["error"])

	req := httptest.NewRequest(http.MethodGet, "/api/logs", nil)
	req.Header.Set("X-API-Key", "wrong")
	assert.Equal(t, http.StatusUnauthorized, perform(router, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/api/logs", nil)
	req.Header.Set("X-API-Key", "sekret")
	assert.Equal(t, http.StatusOK, perform(router, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/api/logs", nil)
	req.Header.Set("Authorization", "Bearer sekret")
	assert.Equal(t, http.StatusOK, perform(router, req).Code)

	assert.Equal(t, http.StatusOK, perform(router, httptest.NewRequest(http.MethodGet, "/api/logs?apiKey=sekret", nil)).Code)

	// Capture is behind the same guard.
	assert.Equal(t, http.StatusUnauthorized, perform(router, jsonRequest(http.MethodPost, "/webhooks/orders", nil)).Code)
	req = jsonRequest(http.MethodPost, "/webhooks/orders", nil)
	req.Header.Set("X-API-Key", "sekret")
	assert.Equal(t, http.StatusOK, perform(router, req).Code)
}

func TestListLogsPagination(t *testing.T) {
	router, store := newTestEnv(t, nil)
	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		seed(t, store, sampleRecord(fmt.Sprintf("req_%d", i), base.Add(time.Duration(i)*time.Millisecond)))
	}

	w := perform(router, httptest.NewRequest(http.MethodGet, "/api/logs", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var plain struct {
		Logs  []models.LogRecord `json:"logs"`
		Total int                `json:"total"`
	}
	decodeBody(t, w, &plain)
	assert.Equal(t, 5, plain.Total)
	assert.Len(t, plain.Logs, 5)

	w = perform(router, httptest.NewRequest(http.MethodGet, "/api/logs?paginate=true&pageSize=2&page=2", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var paged models.PagedLogs
	decodeBody(t, w, &paged)
	assert.Equal(t, 5, paged.Total)
	assert.Equal(t, 2, paged.Page)
	assert.Equal(t, 3, paged.TotalPages)
	assert.True(t, paged.HasMore)
	assert.Len(t, paged.Logs, 2)
}

func TestGetAndDeleteLog(t *testing.T) {
	router, store := newTestEnv(t, nil)
	seed(t, store, sampleRecord("req_1", time.Now().UTC()))

	w := perform(router, httptest.NewRequest(http.MethodGet, "/api/logs/req_1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var record models.LogRecord
	decodeBody(t, w, &record)
	assert.Equal(t, "req_1", record.ID)

	assert.Equal(t, http.StatusNotFound, perform(router, httptest.NewRequest(http.MethodGet, "/api/logs/missing", nil)).Code)

	assert.Equal(t, http.StatusOK, perform(router, httptest.NewRequest(http.MethodDelete, "/api/logs/req_1", nil)).Code)
	assert.Equal(t, http.StatusNotFound, perform(router, httptest.NewRequest(http.MethodDelete, "/api/logs/req_1", nil)).Code)
}

func TestClearLogs(t *testing.T) {
	router, store := newTestEnv(t, nil)
	now := time.Now().UTC()
	seed(t, store, sampleRecord("req_1", now))
	seed(t, store, sampleRecord("req_2", now))

	w := perform(router, httptest.NewRequest(http.MethodDelete, "/api/logs", nil))
	require.Equal(t, http.StatusOK, w.Code)

	logs, err := store.List("")
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestAnalyticsEndpoint(t *testing.T) {
	router, store := newTestEnv(t, nil)
	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		record := sampleRecord(fmt.Sprintf("req_%d", i), now)
		record.Path = "/webhooks/a"
		seed(t, store, record)
	}
	other := sampleRecord("req_3", now)
	other.Method = "GET"
	other.StatusCode = 404
	other.Path = "/webhooks/b"
	seed(t, store, other)

	w := perform(router, httptest.NewRequest(http.MethodGet, "/api/analytics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var analytics models.Analytics
	decodeBody(t, w, &analytics)
	assert.Equal(t, 4, analytics.Total)
	assert.Equal(t, 3, analytics.Methods["POST"].Count)
	assert.Equal(t, "75.00", analytics.Methods["POST"].Percentage)
	assert.Equal(t, 3, analytics.Statuses["2xx"].Count)
	assert.Equal(t, 1, analytics.Statuses["4xx"].Count)
	require.NotEmpty(t, analytics.TopPaths)
	assert.Equal(t, "/webhooks/a", analytics.TopPaths[0].Path)
	assert.Equal(t, 3, analytics.TopPaths[0].Count)
}

func TestSearchLogs(t *testing.T) {
	router, store := newTestEnv(t, nil)
	now := time.Now().UTC()

	match := sampleRecord("req_1", now)
	match.Body = map[string]interface{}{"event": "created"}
	seed(t, store, match)

	wrongMethod := sampleRecord("req_2", now)
	wrongMethod.Method = "GET"
	seed(t, store, wrongMethod)

	wrongPath := sampleRecord("req_3", now)
	wrongPath.Path = "/webhooks/other"
	seed(t, store, wrongPath)

	w := perform(router, jsonRequest(http.MethodPost, "/api/search", models.LogSearchRequest{
		Methods:      []string{"POST"},
		PathContains: "orders",
		BodyContains: "created",
	}))
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.LogSearchResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Logs, 1)
	assert.Equal(t, "req_1", resp.Logs[0].ID)

	w = perform(router, jsonRequest(http.MethodPost, "/api/search", models.LogSearchRequest{
		Methods: []string{"TRACE"},
	}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTestToolReplay(t *testing.T) {
	router, store := newTestEnv(t, nil)

	var gotHeaders http.Header
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer target.Close()

	record := sampleRecord("req_1", time.Now().UTC())
	record.Body = map[string]interface{}{"a": float64(1)}
	record.Headers["x-custom"] = "value"
	seed(t, store, record)

	w := perform(router, jsonRequest(http.MethodPost, "/api/test", models.TestRequest{
		Action:    "replay",
		LogID:     "req_1",
		TargetURL: target.URL,
	}))
	require.Equal(t, http.StatusOK, w.Code)

	var result models.ReplayResult
	decodeBody(t, w, &result)
	assert.True(t, result.Success)
	assert.Equal(t, "req_1", result.LogID)
	assert.Equal(t, http.StatusCreated, result.StatusCode)
	assert.Equal(t, map[string]interface{}{"ok": true}, result.Body)

	require.NotNil(t, gotHeaders)
	assert.Equal(t, "true", gotHeaders.Get("X-Hookmock-Replay"))
	assert.Equal(t, "req_1", gotHeaders.Get("X-Hookmock-Original-ID"))
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "value", gotHeaders.Get("X-Custom"))
}

func TestTestToolReplayUnreachableTarget(t *testing.T) {
	router, store := newTestEnv(t, nil)
	seed(t, store, sampleRecord("req_1", time.Now().UTC()))

	w := perform(router, jsonRequest(http.MethodPost, "/api/test", models.TestRequest{
		Action:    "replay",
		LogID:     "req_1",
		TargetURL: "http://127.0.0.1:1",
	}))
	require.Equal(t, http.StatusOK, w.Code)

	var result models.ReplayResult
	decodeBody(t, w, &result)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestTestToolReplayMissingLog(t *testing.T) {
	router, _ := newTestEnv(t, nil)

	w := perform(router, jsonRequest(http.MethodPost, "/api/test", models.TestRequest{
		Action: "replay",
		LogID:  "missing",
	}))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTestToolCompare(t *testing.T) {
	router, store := newTestEnv(t, nil)
	now := time.Now().UTC()

	first := sampleRecord("req_1", now)
	first.Body = map[string]interface{}{"a": float64(1), "b": float64(2)}
	seed(t, store, first)

	second := sampleRecord("req_2", now)
	second.Method = "PUT"
	second.Body = map[string]interface{}{"a": float64(1), "b": float64(3)}
	seed(t, store, second)

	w := perform(router, jsonRequest(http.MethodPost, "/api/test", models.TestRequest{
		Action:   "compare",
		FirstID:  "req_1",
		SecondID: "req_2",
	}))
	require.Equal(t, http.StatusOK, w.Code)

	var result models.CompareResult
	decodeBody(t, w, &result)
	assert.Equal(t, "req_1", result.FirstID)
	assert.Equal(t, "req_2", result.SecondID)
	assert.False(t, result.Method.Same)
	assert.True(t, result.Path.Same)
	assert.True(t, result.Headers.Same)
	assert.False(t, result.Body.Same)
	assert.Contains(t, result.Body.Differences, `field "b" differs`)
}

func TestTestToolValidate(t *testing.T) {
	router, _ := newTestEnv(t, nil)

	schema := map[string]interface{}{
		"type":     "object",
		"required": []string{"id"},
	}

	w := perform(router, jsonRequest(http.MethodPost, "/api/test", models.TestRequest{
		Action:  "validate",
		Schema:  schema,
		Payload: map[string]interface{}{},
	}))
	require.Equal(t, http.StatusOK, w.Code)
	var result models.ValidateResult
	decodeBody(t, w, &result)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Errors)

	w = perform(router, jsonRequest(http.MethodPost, "/api/test", models.TestRequest{
		Action:  "validate",
		Schema:  schema,
		Payload: map[string]interface{}{"id": float64(1)},
	}))
	require.Equal(t, http.StatusOK, w.Code)
	result = models.ValidateResult{}
	decodeBody(t, w, &result)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestTestToolUnknownAction(t *testing.T) {
	router, _ := newTestEnv(t, nil)

	w := perform(router, jsonRequest(http.MethodPost, "/api/test", models.TestRequest{Action: "bogus"}))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	decodeBody(t, w, &resp)
	assert.Equal(t, "validation_error", resp["error"])
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == session.CookieName {
			return cookie
		}
	}
	t.Fatalf("no %s cookie in response", session.CookieName)
	return nil
}

func TestWebhookBucketLifecycle(t *testing.T) {
	router, _ := newTestEnv(t, nil)

	w := perform(router, jsonRequest(http.MethodPost, "/api/webhooks", map[string]string{"name": "payments"}))
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)

	var created struct {
		Webhook models.Webhook `json:"webhook"`
	}
	decodeBody(t, w, &created)
	assert.True(t, strings.HasPrefix(created.Webhook.ID, "webhook_"))
	assert.Equal(t, "payments", created.Webhook.Name)
	assert.Equal(t, "/webhooks/"+created.Webhook.ID, created.Webhook.URL)

	// The cookie scopes the bucket list to this session.
	req := httptest.NewRequest(http.MethodGet, "/api/webhooks", nil)
	req.AddCookie(cookie)
	w = perform(router, req)
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Webhooks []models.Webhook `json:"webhooks"`
	}
	decodeBody(t, w, &listed)
	require.Len(t, listed.Webhooks, 1)

	// A different session sees nothing.
	w = perform(router, httptest.NewRequest(http.MethodGet, "/api/webhooks", nil))
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &listed)
	assert.Empty(t, listed.Webhooks)

	// The per-session cap kicks in on the fourth create.
	for _, name := range []string{"orders", "refunds"} {
		req = jsonRequest(http.MethodPost, "/api/webhooks", map[string]string{"name": name})
		req.AddCookie(cookie)
		require.Equal(t, http.StatusOK, perform(router, req).Code)
	}
	req = jsonRequest(http.MethodPost, "/api/webhooks", map[string]string{"name": "overflow"})
	req.AddCookie(cookie)
	assert.Equal(t, http.StatusBadRequest, perform(router, req).Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/webhooks?webhookId="+created.Webhook.ID, nil)
	req.AddCookie(cookie)
	assert.Equal(t, http.StatusOK, perform(router, req).Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/webhooks?webhookId="+created.Webhook.ID, nil)
	req.AddCookie(cookie)
	assert.Equal(t, http.StatusNotFound, perform(router, req).Code)
}

func TestCreateWebhookRequiresName(t *testing.T) {
	router, _ := newTestEnv(t, nil)

	w := perform(router, jsonRequest(http.MethodPost, "/api/webhooks", map[string]string{}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionEndpoint(t *testing.T) {
	router, _ := newTestEnv(t, nil)

	w := perform(router, httptest.NewRequest(http.MethodGet, "/session", nil))
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)

	var resp map[string]interface{}
	decodeBody(t, w, &resp)
	sessionID := resp["sessionId"]
	require.NotEmpty(t, sessionID)

	// Presenting the cookie keeps the same session id.
	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	req.AddCookie(cookie)
	w = perform(router, req)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.Equal(t, sessionID, resp["sessionId"])
}

func TestPlaceholder(t *testing.T) {
	router, _ := newTestEnv(t, nil)

	w := perform(router, httptest.NewRequest(http.MethodGet, "/placeholder/300/200", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "image/svg+xml")
	assert.Contains(t, w.Body.String(), "300x200")

	w = perform(router, httptest.NewRequest(http.MethodGet, "/placeholder/100/50?text=a%3Cb", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a&lt;b")

	assert.Equal(t, http.StatusBadRequest, perform(router, httptest.NewRequest(http.MethodGet, "/placeholder/0/10", nil)).Code)
	assert.Equal(t, http.StatusBadRequest, perform(router, httptest.NewRequest(http.MethodGet, "/placeholder/5000/10", nil)).Code)
}
