package dbmetrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperation(t *testing.T) {
	assert.Equal(t, "select", operation("SELECT id FROM slots WHERE id = $1"))
	assert.Equal(t, "update", operation("  UPDATE slots SET available_count = available_count - $1"))
	assert.Equal(t, "insert", operation("INSERT INTO bookings (resource_id) VALUES ($1)"))
	assert.Equal(t, "unknown", operation("   "))
}
