package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPMetrics(t *testing.T) {
	ctx := context.Background()
	for _, enabled := range []bool{false, true} {
		m, err := New(ctx, Config{Enabled: enabled}, "webpromedid-test")
		require.NoError(t, err)
		assert.NotNil(t, m.GetMeter())

		h, err := NewHTTPMetrics(m)
		require.NoError(t, err)

		done := h.Start(ctx)
		assert.NotPanics(t, func() { done("/api/v1/site", "GET", 200) })
	}
}
