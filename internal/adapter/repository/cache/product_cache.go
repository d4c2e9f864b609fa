package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
	"github.com/redis/go-redis/v9"
)

const (
	productKeyPrefix = "product:"
	dialTimeout      = 5 * time.Second
)

// NewClient connects to redis and pings it.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	if err := client.Ping(dialCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis (ping failed): %w", err)
	}
	return client, nil
}

// ProductCache stores single products under both their id and their code.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{client: client, ttl: ttl}
}

func productKey(idOrCode string) string {
	return productKeyPrefix + idOrCode
}

func productKeys(p *domain.Product) []string {
	keys := []string{productKey(p.ID.Hex())}
	if p.Code != "" {
		keys = append(keys, productKey(p.Code))
	}
	return keys
}

// Get returns (nil, nil) on a miss. A corrupt entry is dropped and reported as a miss.
func (c *ProductCache) Get(ctx context.Context, idOrCode string) (*domain.Product, error) {
	key := productKey(idOrCode)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s from redis: %w", key, err)
	}

	var product domain.Product
	if err := json.Unmarshal(data, &product); err != nil {
		_ = c.client.Del(ctx, key).Err()
		return nil, nil
	}
	return &product, nil
}

func (c *ProductCache) Set(ctx context.Context, product *domain.Product) error {
	if product == nil || product.ID.IsZero() {
		return errors.New("cannot cache a product without an id")
	}
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product %s: %w", product.ID.Hex(), err)
	}

	pipe := c.client.TxPipeline()
	for _, key := range productKeys(product) {
		pipe.Set(ctx, key, data, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache product %s: %w", product.ID.Hex(), err)
	}
	return nil
}

func (c *ProductCache) Invalidate(ctx context.Context, product *domain.Product) error {
	if err := c.client.Del(ctx, productKeys(product)...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate product %s: %w", product.ID.Hex(), err)
	}
	return nil
}
