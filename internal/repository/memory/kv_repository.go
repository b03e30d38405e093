package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/vytor/wildcards/internal/repository"
)

type kvRepository struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

// NewKVRepository returns a process-local KVRepository. It serves as the
// session-scoped store when no Redis is configured, and in tests.
func NewKVRepository() repository.KVRepository {
	return &kvRepository{data: make(map[string]map[string][]byte)}
}

func (r *kvRepository) Get(_ context.Context, namespace, key string) ([]byte, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.data[namespace][key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (r *kvRepository) Put(_ context.Context, namespace, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ns, ok := r.data[namespace]
	if !ok {
		ns = make(map[string][]byte)
		r.data[namespace] = ns
	}
	v := make([]byte, len(value))
	copy(v, value)
	ns[key] = v
	return nil
}

func (r *kvRepository) Delete(_ context.Context, namespace, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data[namespace], key)
	return nil
}

func (r *kvRepository) Keys(_ context.Context, namespace string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.data[namespace]))
	for k := range r.data[namespace] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (r *kvRepository) DeleteNamespace(_ context.Context, namespace string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, namespace)
	return nil
}
