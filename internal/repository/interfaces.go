package repository

import "context"

// KVRepository stores opaque values under (namespace, key). Implementations
// back the durable and session-scoped storage adapters.
type KVRepository interface {
	// Get returns found=false with a nil error when the key is absent.
	Get(ctx context.Context, namespace, key string) (value []byte, found bool, err error)
	Put(ctx context.Context, namespace, key string, value []byte) error
	// Delete succeeds when the key is absent.
	Delete(ctx context.Context, namespace, key string) error
	Keys(ctx context.Context, namespace string) ([]string, error)
	DeleteNamespace(ctx context.Context, namespace string) error
}
