package app

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewRunID_Format(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	assert.Equal(t, fmt.Sprintf("asst-9#%d", int64(1700000000123)), NewRunID("asst-9", now))
}

func TestNewRunID_SameMillisecondCollides(t *testing.T) {
	// Documented limitation, not a correctness bug.
	now := time.UnixMilli(42)
	assert.Equal(t, NewRunID("a", now), NewRunID("a", now))
}

func TestNewRunID_DifferentMillisecondsDiffer(t *testing.T) {
	assert.NotEqual(t,
		NewRunID("a", time.UnixMilli(42)),
		NewRunID("a", time.UnixMilli(43)),
	)
}
