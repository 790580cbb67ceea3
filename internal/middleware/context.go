package middleware

import "context"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// RunIDKey is the context key for the current dispatch run ID.
const RunIDKey contextKey = "run_id"

// WithRunID returns a copy of ctx carrying runID.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID extracts the run ID from the context.
// Returns empty string if not found.
func GetRunID(ctx context.Context) string {
	runID, _ := ctx.Value(RunIDKey).(string)
	return runID
}
