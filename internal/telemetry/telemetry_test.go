package telemetry

import (
	"context"
	"testing"

	"storefront/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ExportDisabled(t *testing.T) {
	ctx := context.Background()

	tel, err := New(ctx, config.TelemetryConfig{ServiceName: "storefront-test"}, zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, tel.TracerProvider)

	_, span := tel.Tracer("test").Start(ctx, "op")
	assert.True(t, span.SpanContext().HasTraceID())
	span.End()

	require.NoError(t, tel.Shutdown(ctx))
}
