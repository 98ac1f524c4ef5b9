package source

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacer_SpacesRequests(t *testing.T) {
	p := &pacer{delay: 30 * time.Millisecond}
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, p.wait(ctx))
	require.NoError(t, p.wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestPacer_ZeroDelayNeverBlocks(t *testing.T) {
	p := &pacer{}
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, p.wait(ctx))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestPacer_CancelledContext(t *testing.T) {
	p := &pacer{delay: time.Hour}
	require.NoError(t, p.wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.wait(ctx), context.Canceled)
}

func TestDefaultRequestDelays(t *testing.T) {
	r := NewReddit("id", "secret", "", nil, 0, 0)
	assert.Equal(t, time.Second, r.pace.delay)

	g := NewGNews("key", 0, 0)
	assert.Equal(t, 500*time.Millisecond, g.pace.delay)
}
