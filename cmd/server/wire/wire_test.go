package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewApp(t *testing.T) {
	assert.NotNil(t, newApp(nil, nil))
	assert.NotNil(t, newLocalApp(nil, nil, nil))
	assert.NotNil(t, NewWire)
	assert.NotNil(t, NewLocalWire)
}
