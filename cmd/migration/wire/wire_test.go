package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewApp(t *testing.T) {
	assert.NotNil(t, newApp(nil))
	assert.NotNil(t, NewWire)
}
