package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/vytor/wildcards/internal/logger"
	"github.com/vytor/wildcards/internal/repository"
)

const keyPrefix = "wildcards"

type kvRepository struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewKVRepository creates a Redis-backed KVRepository. Every write refreshes
// the key's TTL, so values live as long as the visitor keeps using them.
func NewKVRepository(rdb *goredis.Client, ttl time.Duration) repository.KVRepository {
	return &kvRepository{rdb: rdb, ttl: ttl}
}

// NewClient parses url and pings the server.
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opt, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	rdb := goredis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	logger.FromContext(ctx).WithPrefix("redis").Info("redis connected: addr=%s db=%d", opt.Addr, opt.DB)
	return rdb, nil
}

func storageKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, namespace, key)
}

func namespacePattern(namespace string) string {
	return fmt.Sprintf("%s:%s:*", keyPrefix, namespace)
}

func (r *kvRepository) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	val, err := r.rdb.Get(ctx, storageKey(namespace, key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		logger.FromContext(ctx).WithPrefix("kv_redis").Error("failed to get key: %v", err)
		return nil, false, err
	}
	return val, true, nil
}

func (r *kvRepository) Put(ctx context.Context, namespace, key string, value []byte) error {
	if err := r.rdb.Set(ctx, storageKey(namespace, key), value, r.ttl).Err(); err != nil {
		logger.FromContext(ctx).WithPrefix("kv_redis").Error("failed to put key: %v", err)
		return err
	}
	return nil
}

func (r *kvRepository) Delete(ctx context.Context, namespace, key string) error {
	return r.rdb.Del(ctx, storageKey(namespace, key)).Err()
}

func (r *kvRepository) scan(ctx context.Context, namespace string) ([]string, error) {
	var (
		cursor uint64
		found  []string
	)
	for {
		keys, next, err := r.rdb.Scan(ctx, cursor, namespacePattern(namespace), 100).Result()
		if err != nil {
			return nil, err
		}
		found = append(found, keys...)
		cursor = next
		if cursor == 0 {
			return found, nil
		}
	}
}

func (r *kvRepository) Keys(ctx context.Context, namespace string) ([]string, error) {
	full, err := r.scan(ctx, namespace)
	if err != nil {
		return nil, err
	}
	prefix := storageKey(namespace, "")
	keys := make([]string, 0, len(full))
	for _, k := range full {
		keys = append(keys, strings.TrimPrefix(k, prefix))
	}
	return keys, nil
}

func (r *kvRepository) DeleteNamespace(ctx context.Context, namespace string) error {
	full, err := r.scan(ctx, namespace)
	if err != nil {
		return err
	}
	if len(full) == 0 {
		return nil
	}
	return r.rdb.Del(ctx, full...).Err()
}
