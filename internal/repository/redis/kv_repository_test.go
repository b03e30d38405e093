package redis_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wildcards/internal/repository/redis"
)

// Runs against a real server; set TEST_REDIS_URL=redis://localhost:6379/15 to enable.
func TestKVRepository_AgainstServer(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	rdb, err := redis.NewClient(ctx, url)
	require.NoError(t, err)
	defer rdb.Close()

	repo := redis.NewKVRepository(rdb, time.Minute)
	ns := "session:" + uuid.NewString()
	defer repo.DeleteNamespace(ctx, ns)

	_, found, err := repo.Get(ctx, ns, "qcm_progress")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Put(ctx, ns, "qcm_progress", []byte(`{"score":1}`)))

	v, found, err := repo.Get(ctx, ns, "qcm_progress")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"score":1}`, string(v))

	ttl, err := rdb.TTL(ctx, "wildcards:"+ns+":qcm_progress").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	keys, err := repo.Keys(ctx, ns)
	require.NoError(t, err)
	assert.Equal(t, []string{"qcm_progress"}, keys)

	require.NoError(t, repo.Delete(ctx, ns, "qcm_progress"))
	_, found, err = repo.Get(ctx, ns, "qcm_progress")
	require.NoError(t, err)
	assert.False(t, found)
}
