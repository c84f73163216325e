package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type traceDataKey struct{}
type identityKey struct{}

type TraceData struct {
	TraceID   string
	RequestID string
}

// Identity is the already-authenticated caller. Role is one of the user roles
// ("patient", "clinician", "admin").
type Identity struct {
	UserID uuid.UUID
	Role   string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func GetIdentity(ctx context.Context) *Identity {
	if id, ok := ctx.Value(identityKey{}).(*Identity); ok {
		return id
	}
	return nil
}

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
