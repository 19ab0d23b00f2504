package shared

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"time"
)

// ContextKey is the type for values this package stores in a request
// context.
type ContextKey string

const (
	// UserIDContextKey holds the authenticated user's ID, set by the auth
	// middleware.
	UserIDContextKey ContextKey = "userID"

	// TraceIDKey holds the per-request trace ID, set by the trace
	// middleware.
	TraceIDKey ContextKey = "traceID"
)

// traceIDBytes is the trace ID entropy; it renders as 32 hex characters.
const traceIDBytes = 16

// SetTraceID attaches a fresh trace ID to the context so logs and error
// responses for one request can be correlated.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, newTraceID())
}

// GetTraceID returns the context's trace ID, or the empty string when none
// was set.
func GetTraceID(ctx context.Context) string {
	id, _ := ctx.Value(TraceIDKey).(string)
	return id
}

func newTraceID() string {
	b := make([]byte, traceIDBytes)
	if _, err := rand.Read(b); err != nil {
		// Trace IDs need uniqueness, not secrecy; a timestamp keeps them
		// distinguishable if the random source ever fails.
		binary.BigEndian.PutUint64(b, uint64(time.Now().UnixNano()))
	}
	return hex.EncodeToString(b)
}
