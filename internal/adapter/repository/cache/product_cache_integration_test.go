//go:build integration

package cache

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testRedis *redis.Client

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start Redis resource: %s", err)
	}
	addr := resource.GetHostPort("6379/tcp")

	if err := pool.Retry(func() error {
		var errRetry error
		testRedis, errRetry = NewClient(context.Background(), addr, "", 0)
		return errRetry
	}); err != nil {
		log.Fatalf("Could not connect to Redis: %s", err)
	}

	code := m.Run()

	_ = testRedis.Close()
	if err := pool.Purge(resource); err != nil {
		log.Printf("Could not purge Redis resource: %s", err)
	}
	os.Exit(code)
}

func TestProductCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewProductCache(testRedis, time.Minute)
	product := &domain.Product{
		ID:       primitive.NewObjectID(),
		Name:     "Kitenge dress",
		Code:     fmt.Sprintf("C%d", time.Now().UnixNano()%100000),
		Category: domain.CategoryClothing,
		Price:    25000,
		Currency: domain.CurrencyRWF,
		Images:   []string{},
	}

	miss, err := c.Get(ctx, product.ID.Hex())
	require.NoError(t, err)
	assert.Nil(t, miss)

	require.NoError(t, c.Set(ctx, product))

	byID, err := c.Get(ctx, product.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, product.Name, byID.Name)

	byCode, err := c.Get(ctx, product.Code)
	require.NoError(t, err)
	require.NotNil(t, byCode)
	assert.Equal(t, product.ID, byCode.ID)

	require.NoError(t, c.Invalidate(ctx, product))
	gone, err := c.Get(ctx, product.Code)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestProductCache_CorruptEntryIsAMiss(t *testing.T) {
	ctx := context.Background()
	c := NewProductCache(testRedis, time.Minute)
	require.NoError(t, testRedis.Set(ctx, productKey("broken"), "{not json", time.Minute).Err())

	got, err := c.Get(ctx, "broken")
	require.NoError(t, err)
	assert.Nil(t, got)

	n, err := testRedis.Exists(ctx, productKey("broken")).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}
