package quota

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveDisabledQuota(t *testing.T) {
	// 配额为 0 表示未启用，不触达 Redis
	c := NewCatalogQuotaChecker(nil, 0)
	used, max, err := c.Reserve(context.Background())
	require.NoError(t, err)
	assert.Zero(t, used)
	assert.Zero(t, max)

	var nilChecker *CatalogQuotaChecker
	_, _, err = nilChecker.Reserve(context.Background())
	assert.NoError(t, err)
}

func TestQuotaExceededErrorMessage(t *testing.T) {
	err := CatalogQuotaExceededError{Max: 500, Used: 501}
	assert.Equal(t, "catalog quota exceeded: used=501 max=500", err.Error())
}
