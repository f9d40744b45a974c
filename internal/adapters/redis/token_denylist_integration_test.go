package redis

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/blogger-api/internal/testutil"
)

func TestTokenDenylist_RealRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}
	client := testutil.SetupTestRedis(t)
	if client == nil {
		return
	}
	ctx := context.Background()
	d := NewTokenDenylistWithPrefix(client, "it:denylist:")
	id := uuid.NewString()

	require.NoError(t, d.Revoke(ctx, id, 2*time.Second))
	revoked, err := d.IsRevoked(ctx, id)
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := client.TTL(ctx, "it:denylist:"+id).Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)
	assert.LessOrEqual(t, ttl, 2*time.Second)
}
