package sid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenString(t *testing.T) {
	s := NewSidWithMachineID(7)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := s.GenString()
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(id, "p1"), id)
		assert.LessOrEqual(t, len(id), 14, id)
		assert.False(t, seen[id], "duplicate sid %s", id)
		seen[id] = true
	}
}
