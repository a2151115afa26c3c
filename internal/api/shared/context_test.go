package shared_test

import (
	"context"
	"testing"

	"github.com/phrazzld/arcana-api/internal/api/shared"
	"github.com/stretchr/testify/assert"
)

func TestTraceIDRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := shared.SetTraceID(context.Background())
	traceID := shared.GetTraceID(ctx)

	assert.Len(t, traceID, shared.TraceIDLength*2, "trace IDs are hex encoded")
	assert.NotEqual(t, traceID, shared.GetTraceID(shared.SetTraceID(context.Background())),
		"every context gets its own trace ID")
}

func TestGetTraceIDMissing(t *testing.T) {
	t.Parallel()

	assert.Empty(t, shared.GetTraceID(context.Background()))
}
