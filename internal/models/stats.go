package models

// Stats holds raw aggregate counts over stored records, optionally
// scoped to a single webhook bucket. Time-window counts are relative to
// the moment the stats were computed.
type Stats struct {
	Total      int            `json:"total"`
	ByMethod   map[string]int `json:"byMethod"`
	ByStatus   map[string]int `json:"byStatus"` // keyed "2xx", "4xx", ...
	ByPath     map[string]int `json:"byPath"`
	PathOrder  []string       `json:"-"` // first-seen order of ByPath keys
	Last24h    int            `json:"last24h"`
	LastHour   int            `json:"lastHour"`
	LastMinute int            `json:"lastMinute"`
}

// StatSlice is one grouped count with its share of the total,
// formatted to two decimals.
type StatSlice struct {
	Count      int    `json:"count"`
	Percentage string `json:"percentage"`
}

// Analytics is the dashboard view derived from Stats.
type Analytics struct {
	Total      int                  `json:"total"`
	Methods    map[string]StatSlice `json:"methods"`
	Statuses   map[string]StatSlice `json:"statuses"`
	TopPaths   []PathCount          `json:"topPaths"`
	Last24h    int                  `json:"last24h"`
	LastHour   int                  `json:"lastHour"`
	LastMinute int                  `json:"lastMinute"`
}

// PathCount is one entry of the top-paths ranking.
type PathCount struct {
	Path       string `json:"path"`
	Count      int    `json:"count"`
	Percentage string `json:"percentage"`
}
