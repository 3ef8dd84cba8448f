package models

// TestRequest is the envelope for the testing-tool endpoint. Action
// selects what to do; the remaining fields are action-specific.
type TestRequest struct {
	Action string `json:"action" binding:"required"`

	// replay
	LogID     string `json:"logId,omitempty"`
	TargetURL string `json:"targetUrl,omitempty"`

	// compare
	FirstID  string `json:"firstId,omitempty"`
	SecondID string `json:"secondId,omitempty"`

	// validate
	Schema  interface{} `json:"schema,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// ReplayResult reports the outcome of re-issuing a captured request.
// Network failures reaching the target are reported here with
// Success=false rather than as a server error.
type ReplayResult struct {
	Success    bool              `json:"success"`
	LogID      string            `json:"logId"`
	Method     string            `json:"method"`
	TargetURL  string            `json:"targetUrl"`
	StatusCode int               `json:"statusCode,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       interface{}       `json:"body,omitempty"`
	DurationMs int64             `json:"durationMs"`
	Error      string            `json:"error,omitempty"`
}

// CompareFacet is one dimension of a structural diff between two
// captured records.
type CompareFacet struct {
	Same        bool        `json:"same"`
	First       interface{} `json:"first,omitempty"`
	Second      interface{} `json:"second,omitempty"`
	Differences []string    `json:"differences,omitempty"`
}

// CompareResult is the structural diff of two captured records.
type CompareResult struct {
	FirstID    string       `json:"firstId"`
	SecondID   string       `json:"secondId"`
	Method     CompareFacet `json:"method"`
	StatusCode CompareFacet `json:"statusCode"`
	Path       CompareFacet `json:"path"`
	Headers    CompareFacet `json:"headers"`
	Body       CompareFacet `json:"body"`
}

// ValidateResult reports JSON-schema validation of a payload.
type ValidateResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}
