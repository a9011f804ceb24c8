package ports

import "context"

// ObjectStore persists opaque blobs (call recordings) under a bucket/key.
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, body []byte) error
}

// RunStore persists one CostRecord per completed run, keyed by
// (userID, assistantID, runID). Writes overwrite; they never accumulate.
type RunStore interface {
	StoreRun(ctx context.Context, userID, assistantID, runID string, record CostRecord) error
}
