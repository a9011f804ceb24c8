package app

import (
	"fmt"
	"time"
)

// NewRunID derives a run identifier from the assistant ID and the current
// wall clock: "<assistant_id>#<unix_ms>". Millisecond resolution keeps two
// near-simultaneous runs of the same assistant apart with high probability;
// two runs started within the same millisecond still collide, which is an
// accepted limitation rather than a correctness requirement.
func NewRunID(assistantID string, now time.Time) string {
	return fmt.Sprintf("%s#%d", assistantID, now.UnixMilli())
}
