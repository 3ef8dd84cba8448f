package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hookmock/internal/constants"
	"hookmock/internal/limits"
	"hookmock/internal/models"
	"hookmock/internal/utils"

	"github.com/gin-gonic/gin"
)

// HandleWebhook godoc
// @Summary Capture incoming webhook request
// @Description Accept any request under /webhooks, store it as a log record and echo it back
// @Tags capture
// @Accept json
// @Produce json
// @Param path path string false "Capture path"
// @Param statusCode query int false "Status code to respond with (100-599, default 200)"
// @Param timeout query int false "Artificial response delay in seconds"
// @Success 200 {object} object{success=boolean,id=string,path=string,method=string,statusCode=integer,timestamp=string}
// @Failure 413 {object} object{error=string,message=string,maxSize=integer}
// @Failure 503 {object} object{error=string,message=string}
// @Router /webhooks/{path} [post]
func (h *Handler) HandleWebhook(c *gin.Context) {
	contentType := c.ContentType()
	sizeLimit := h.bodyLimit(contentType)

	// Reject on the declared length before touching the body.
	if limits.ExceedsLimit(c.Request.ContentLength, sizeLimit) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":   "payload_too_large",
			"message": "Request body exceeds the configured limit",
			"maxSize": sizeLimit,
		})
		return
	}

	path, webhookID := buildCapturePath(c.Param("path"))
	statusCode := parseStatusCode(c.Query("statusCode"))
	timeout := parseTimeout(c.Query("timeout"), h.cfg.Capture.MaxTimeoutSeconds)

	var startTime, endTime *time.Time
	if timeout > 0 {
		if !h.delayGate.TryAcquire() {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "service_unavailable",
				"message": "Too many delayed requests in flight",
			})
			return
		}
		// The slot is held only for the delay window itself; the
		// gate must be released on every exit path, including a
		// client disconnect mid-sleep.
		func() {
			defer h.delayGate.Release()
			start := time.Now().UTC()
			startTime = &start
			select {
			case <-time.After(time.Duration(timeout) * time.Second):
			case <-c.Request.Context().Done():
			}
			end := time.Now().UTC()
			endTime = &end
		}()
	}

	body, readErr := readBody(c.Request, contentType, sizeLimit)
	if readErr != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":   "payload_too_large",
			"message": "Request body exceeds the configured limit",
			"maxSize": sizeLimit,
		})
		return
	}

	now := time.Now().UTC()
	record := models.LogRecord{
		ID:             utils.NewRecordID(now.UnixMilli()),
		Timestamp:      now,
		Method:         c.Request.Method,
		Path:           path,
		URL:            originalURL(c.Request),
		StatusCode:     statusCode,
		TimeoutSeconds: timeout,
		StartTime:      startTime,
		EndTime:        endTime,
		Headers:        captureHeaders(c.Request.Header),
		QueryParams:    flattenQuery(c.Request.URL.Query()),
		Body:           body,
		WebhookID:      webhookID,
	}

	if err := h.store.Add(record); err != nil {
		log.Printf("Failed to store log record: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to store log record",
		})
		return
	}

	response := gin.H{
		"success":    true,
		"id":         record.ID,
		"path":       record.Path,
		"method":     record.Method,
		"statusCode": record.StatusCode,
		"timeout":    record.TimeoutSeconds,
		"timestamp":  record.Timestamp,
		"body":       record.Body,
	}
	if startTime != nil && endTime != nil {
		response["startTime"] = startTime
		response["endTime"] = endTime
	}

	// The HTTP status mirrors the requested one, so callers can
	// rehearse how their client reacts to failures.
	c.JSON(statusCode, response)
}

func (h *Handler) bodyLimit(contentType string) int64 {
	switch {
	case strings.Contains(contentType, "json"):
		return h.cfg.Capture.MaxJSONBody
	case strings.Contains(contentType, "form"):
		return h.cfg.Capture.MaxFormBody
	default:
		return h.cfg.Capture.MaxTextBody
	}
}

// buildCapturePath joins the wildcard segments under the /webhooks
// namespace and pulls out a bucket id when the first segment carries
// the reserved webhook_ prefix.
func buildCapturePath(wildcard string) (path, webhookID string) {
	trimmed := strings.Trim(wildcard, "/")
	if trimmed == "" {
		return constants.WebhookNamespace, ""
	}

	segments := strings.Split(trimmed, "/")
	if strings.HasPrefix(segments[0], constants.WebhookIDPrefix) &&
		len(segments[0]) > len(constants.WebhookIDPrefix) {
		webhookID = segments[0]
	}
	return constants.WebhookNamespace + "/" + trimmed, webhookID
}

// originalURL reconstructs the full request URL including the query
// string, so replays can target it directly.
func originalURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

func parseStatusCode(raw string) int {
	code, err := strconv.Atoi(raw)
	if err != nil || code < 100 || code > 599 {
		return http.StatusOK
	}
	return code
}

func parseTimeout(raw string, max int) int {
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 || seconds > max {
		return 0
	}
	return seconds
}

// captureHeaders copies request headers into a flat lower-cased map,
// dropping reserved platform headers.
func captureHeaders(headers http.Header) map[string]string {
	out := make(map[string]string, len(headers))
	for key, values := range headers {
		name := strings.ToLower(key)
		if strings.HasPrefix(name, constants.ReservedHeaderPrefix) {
			continue
		}
		out[name] = strings.Join(values, ",")
	}
	return out
}

func flattenQuery(values url.Values) map[string]string {
	out := make(map[string]string, len(values))
	for key, vals := range values {
		out[key] = strings.Join(vals, ",")
	}
	return out
}

var errBodyTooLarge = errors.New("request body exceeds limit")

// readBody consumes the one-shot request body with exactly one parse
// strategy chosen by content type. Sizes are re-checked against the
// bytes actually read, not just the declared length.
func readBody(r *http.Request, contentType string, sizeLimit int64) (interface{}, error) {
	if r.Body == nil {
		return nil, nil
	}

	switch {
	case strings.Contains(contentType, "application/json"):
		raw, err := readLimited(r.Body, sizeLimit)
		if err != nil {
			return nil, err
		}
		var parsed interface{}
		if jsonErr := json.Unmarshal(raw, &parsed); jsonErr != nil {
			// Malformed JSON must not fail the capture; the
			// record simply has no body.
			return nil, nil
		}
		return parsed, nil

	case strings.Contains(contentType, "application/x-www-form-urlencoded"):
		raw, err := readLimited(r.Body, sizeLimit)
		if err != nil {
			return nil, err
		}
		values, parseErr := url.ParseQuery(string(raw))
		if parseErr != nil {
			return string(raw), nil
		}
		form := make(map[string]interface{}, len(values))
		for key, vals := range values {
			form[key] = strings.Join(vals, ",")
		}
		return form, nil

	case strings.Contains(contentType, "multipart/form-data"):
		// ParseMultipartForm's argument is only a memory threshold;
		// oversized file parts would be spooled to disk and accepted.
		// The reader cap is what actually enforces the limit.
		if sizeLimit > 0 {
			r.Body = http.MaxBytesReader(nil, r.Body, sizeLimit)
		}
		if err := r.ParseMultipartForm(sizeLimit); err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) || errors.Is(err, multipart.ErrMessageTooLarge) {
				return nil, errBodyTooLarge
			}
			return nil, nil
		}
		form := make(map[string]interface{})
		for key, vals := range r.MultipartForm.Value {
			form[key] = strings.Join(vals, ",")
		}
		// Binary file fields reduce to their filename.
		for key, files := range r.MultipartForm.File {
			if len(files) > 0 {
				form[key] = files[0].Filename
			}
		}
		return form, nil

	default:
		raw, err := readLimited(r.Body, sizeLimit)
		if err != nil {
			return nil, err
		}
		if len(raw) == 0 {
			return nil, nil
		}
		return string(raw), nil
	}
}

func readLimited(body io.Reader, sizeLimit int64) ([]byte, error) {
	reader := body
	if sizeLimit > 0 {
		reader = io.LimitReader(body, sizeLimit+1)
	}
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if limits.ExceedsLimit(int64(len(raw)), sizeLimit) {
		return nil, errBodyTooLarge
	}
	return raw, nil
}
