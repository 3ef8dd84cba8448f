package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"reflect"
	"sort"
	"time"

	"hookmock/internal/models"
	"hookmock/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// HandleTest godoc
// @Summary Testing tools
// @Description Replay a captured request, compare two records, or validate a payload against a JSON schema
// @Tags testing
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body models.TestRequest true "Test action"
// @Success 200 {object} object{success=boolean}
// @Failure 400 {object} object{error=string,message=string}
// @Failure 404 {object} object{error=string,message=string}
// @Router /test [post]
func (h *Handler) HandleTest(c *gin.Context) {
	var req models.TestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "Invalid request format",
		})
		return
	}

	switch req.Action {
	case "replay":
		h.replayLog(c, req)
	case "compare":
		h.compareLogs(c, req)
	case "validate":
		h.validatePayload(c, req)
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": fmt.Sprintf("Unknown action: %q", req.Action),
		})
	}
}

func (h *Handler) replayLog(c *gin.Context, req models.TestRequest) {
	if req.LogID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "logId is required for replay",
		})
		return
	}

	record, err := h.store.GetByID(req.LogID)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Log record not found",
		})
		return
	} else if err != nil {
		log.Printf("Failed to fetch log record for replay: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to fetch log record",
		})
		return
	}

	targetURL := record.URL
	if req.TargetURL != "" {
		targetURL = req.TargetURL
	}

	result := h.forwardRecord(record, targetURL)
	c.JSON(http.StatusOK, result)
}

// forwardRecord re-issues a captured request against the target. The
// replay is marked failed, never erroring the endpoint, when the
// target is unreachable; replay targets are external and expected to
// be unreliable.
func (h *Handler) forwardRecord(record models.LogRecord, targetURL string) models.ReplayResult {
	result := models.ReplayResult{
		LogID:     record.ID,
		Method:    record.Method,
		TargetURL: targetURL,
	}

	var bodyReader io.Reader
	if record.Body != nil {
		encoded, err := json.Marshal(record.Body)
		if err != nil {
			result.Error = fmt.Sprintf("failed to encode body: %v", err)
			return result
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(record.Method, targetURL, bodyReader)
	if err != nil {
		result.Error = fmt.Sprintf("failed to build request: %v", err)
		return result
	}

	for name, value := range record.Headers {
		if name == "host" || name == "content-length" {
			continue
		}
		req.Header.Set(name, value)
	}
	// Replays always go out as JSON, matching what was stored.
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Hookmock-Replay", "true")
	req.Header.Set("X-Hookmock-Original-ID", record.ID)

	start := time.Now()
	resp, err := h.replayer.Do(req)
	result.DurationMs = time.Since(start).Milliseconds()
	if err != nil {
		result.Error = err.Error()
		return result
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		result.Error = fmt.Sprintf("failed to read response: %v", err)
		return result
	}

	result.Success = true
	result.StatusCode = resp.StatusCode
	result.Headers = captureHeaders(resp.Header)

	var parsed interface{}
	if json.Unmarshal(respBody, &parsed) == nil {
		result.Body = parsed
	} else if len(respBody) > 0 {
		result.Body = string(respBody)
	}
	return result
}

func (h *Handler) compareLogs(c *gin.Context, req models.TestRequest) {
	if req.FirstID == "" || req.SecondID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "firstId and secondId are required for compare",
		})
		return
	}

	first, err := h.store.GetByID(req.FirstID)
	if err == nil {
		var second models.LogRecord
		second, err = h.store.GetByID(req.SecondID)
		if err == nil {
			c.JSON(http.StatusOK, compareRecords(first, second))
			return
		}
	}

	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Log record not found",
		})
		return
	}
	log.Printf("Failed to fetch log records for compare: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "internal_error",
		"message": "Failed to fetch log records",
	})
}

func compareRecords(first, second models.LogRecord) models.CompareResult {
	return models.CompareResult{
		FirstID:  first.ID,
		SecondID: second.ID,
		Method: models.CompareFacet{
			Same:   first.Method == second.Method,
			First:  first.Method,
			Second: second.Method,
		},
		StatusCode: models.CompareFacet{
			Same:   first.StatusCode == second.StatusCode,
			First:  first.StatusCode,
			Second: second.StatusCode,
		},
		Path: models.CompareFacet{
			Same:   first.Path == second.Path,
			First:  first.Path,
			Second: second.Path,
		},
		Headers: compareHeaders(first.Headers, second.Headers),
		Body:    compareBodies(first.Body, second.Body),
	}
}

// compareHeaders walks the union of header names and notes every
// per-key difference.
func compareHeaders(first, second map[string]string) models.CompareFacet {
	union := make(map[string]bool, len(first)+len(second))
	for name := range first {
		union[name] = true
	}
	for name := range second {
		union[name] = true
	}

	names := make([]string, 0, len(union))
	for name := range union {
		names = append(names, name)
	}
	sort.Strings(names)

	var differences []string
	for _, name := range names {
		firstVal, inFirst := first[name]
		secondVal, inSecond := second[name]
		switch {
		case !inSecond:
			differences = append(differences, fmt.Sprintf("header %q only in first record", name))
		case !inFirst:
			differences = append(differences, fmt.Sprintf("header %q only in second record", name))
		case firstVal != secondVal:
			differences = append(differences, fmt.Sprintf("header %q: %q != %q", name, firstVal, secondVal))
		}
	}

	return models.CompareFacet{
		Same:        len(differences) == 0,
		Differences: differences,
	}
}

// compareBodies compares by deep value equality, not formatting.
func compareBodies(first, second interface{}) models.CompareFacet {
	if reflect.DeepEqual(first, second) {
		return models.CompareFacet{Same: true}
	}
	return models.CompareFacet{
		Same:        false,
		Differences: bodyDifferences(first, second),
	}
}

func bodyDifferences(first, second interface{}) []string {
	switch {
	case first == nil:
		return []string{"first record has no body"}
	case second == nil:
		return []string{"second record has no body"}
	}

	firstMap, firstIsMap := first.(map[string]interface{})
	secondMap, secondIsMap := second.(map[string]interface{})
	if firstIsMap != secondIsMap {
		return []string{fmt.Sprintf("body types differ: %T vs %T", first, second)}
	}
	if !firstIsMap {
		return []string{"body values differ"}
	}

	union := make(map[string]bool, len(firstMap)+len(secondMap))
	for key := range firstMap {
		union[key] = true
	}
	for key := range secondMap {
		union[key] = true
	}
	keys := make([]string, 0, len(union))
	for key := range union {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var differences []string
	for _, key := range keys {
		firstVal, inFirst := firstMap[key]
		secondVal, inSecond := secondMap[key]
		switch {
		case !inSecond:
			differences = append(differences, fmt.Sprintf("field %q only in first body", key))
		case !inFirst:
			differences = append(differences, fmt.Sprintf("field %q only in second body", key))
		case !reflect.DeepEqual(firstVal, secondVal):
			differences = append(differences, fmt.Sprintf("field %q differs", key))
		}
	}
	if len(differences) == 0 {
		differences = []string{"body values differ"}
	}
	return differences
}

func (h *Handler) validatePayload(c *gin.Context, req models.TestRequest) {
	if req.Schema == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "schema is required for validate",
		})
		return
	}

	schemaBytes, err := json.Marshal(req.Schema)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "Invalid schema",
		})
		return
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("request.json", bytes.NewReader(schemaBytes)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": fmt.Sprintf("Invalid schema: %v", err),
		})
		return
	}
	schema, err := compiler.Compile("request.json")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": fmt.Sprintf("Invalid schema: %v", err),
		})
		return
	}

	result := models.ValidateResult{Valid: true}
	if err := schema.Validate(req.Payload); err != nil {
		result.Valid = false
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			result.Errors = collectSchemaErrors(validationErr)
		} else {
			result.Errors = []string{err.Error()}
		}
	}

	c.JSON(http.StatusOK, result)
}

// collectSchemaErrors flattens the validation error tree into
// human-readable strings, leaf causes first.
func collectSchemaErrors(err *jsonschema.ValidationError) []string {
	if len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		return []string{fmt.Sprintf("%s: %s", location, err.Message)}
	}
	var out []string
	for _, cause := range err.Causes {
		out = append(out, collectSchemaErrors(cause)...)
	}
	return out
}
