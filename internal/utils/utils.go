// internal/utils/utils.go
package utils

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateUUID returns a random UUID string for entity ids.
func GenerateUUID() string {
	return uuid.NewString()
}

// NewRecordID returns an id for a captured request. The millisecond
// prefix makes ids roughly time-ordered for humans scanning the
// dashboard; uniqueness comes from the random suffix, so the value
// itself is not a sort key.
func NewRecordID(unixMilli int64) string {
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("req_%d_%s", unixMilli, suffix)
}
