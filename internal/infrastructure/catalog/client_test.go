package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-contest-api/internal/config"
)

func TestWaitMinIntervalCancelledContext(t *testing.T) {
	c := NewClient(&config.CatalogConfig{
		Enabled:     true,
		Endpoint:    "https://catalog.example.test",
		MinInterval: 5 * time.Second,
	}, nil, nil)
	c.lastCall = time.Now() // 上次调用刚发生，本应等满最小间隔

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := c.waitMinInterval(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWaitMinIntervalNoWaitNeeded(t *testing.T) {
	c := NewClient(&config.CatalogConfig{
		Enabled:     true,
		Endpoint:    "https://catalog.example.test",
		MinInterval: time.Second,
	}, nil, nil)
	// lastCall 为零值，间隔早已满足，取消的 context 也不应报错
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, c.waitMinInterval(ctx))
	assert.False(t, c.lastCall.IsZero())
}

func TestSearchDisabledReturnsEmpty(t *testing.T) {
	c := NewClient(&config.CatalogConfig{}, nil, nil)
	cases, err := c.Search(context.Background(), "speeding", "CA", 5)
	require.NoError(t, err)
	assert.Empty(t, cases)
}
