package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUUID(t *testing.T) {
	first := GenerateUUID()
	second := GenerateUUID()

	assert.Len(t, first, 36)
	assert.NotEqual(t, first, second)
}

func TestNewRecordID(t *testing.T) {
	id := NewRecordID(1735600000000)

	require.True(t, strings.HasPrefix(id, "req_1735600000000_"))
	parts := strings.Split(id, "_")
	require.Len(t, parts, 3)
	assert.Len(t, parts[2], 8)

	assert.NotEqual(t, id, NewRecordID(1735600000000))
}
