package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID         int64  `json:"id"`
	Sid        string `json:"sid"`
	Status     string `json:"status"`
	Modifier   string `json:"modifier"`
	UpdateTime string `json:"update_time"`
}

func TestCalculateResourceHash_IgnoresMetadata(t *testing.T) {
	a, err := CalculateResourceHash(record{ID: 1, Sid: "p1abc", Status: "installed", Modifier: "alice", UpdateTime: "t1"})
	require.NoError(t, err)
	b, err := CalculateResourceHash(record{ID: 2, Sid: "p1abc", Status: "installed", Modifier: "bob", UpdateTime: "t2"})
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := CalculateResourceHash(record{ID: 1, Sid: "p1abc", Status: "launched"})
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestSum(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Sum(nil))
	assert.Len(t, Sum([]byte("<?php")), 64)
}
