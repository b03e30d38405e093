package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vytor/wildcards/internal/logger"
	"github.com/vytor/wildcards/internal/repository"
)

// Persisted keys.
const (
	RevealedCardsKey = "revealedCards"
	ThemeKey         = "theme"
	QuizProgressKey  = "qcm_progress"
)

// Scopes select which backing store an adapter writes to.
const (
	ScopeLocal   = "local"   // durable across visits
	ScopeSession = "session" // expires with the visitor session
)

// Adapter serializes values into one namespace of a KVRepository. Failures
// are logged and reported as false; they never escape as errors.
type Adapter struct {
	repo      repository.KVRepository
	namespace string
}

// New binds an adapter to scope:visitorID inside repo.
func New(repo repository.KVRepository, scope, visitorID string) *Adapter {
	return &Adapter{repo: repo, namespace: Namespace(scope, visitorID)}
}

// Namespace builds the repository namespace for a visitor in a scope.
func Namespace(scope, visitorID string) string {
	return fmt.Sprintf("%s:%s", scope, visitorID)
}

func (a *Adapter) log(ctx context.Context) *logger.Logger {
	return logger.FromContext(ctx).WithPrefix("storage").WithField("namespace", a.namespace)
}

// Save serializes value and stores it under key. The value is fully encoded
// before the single write, so a failure leaves the previous value in place.
func (a *Adapter) Save(ctx context.Context, key string, value any) bool {
	data, err := json.Marshal(value)
	if err != nil {
		a.log(ctx).Warn("Erreur lors de la sauvegarde: key=%s: %v", key, err)
		return false
	}
	if err := a.repo.Put(ctx, a.namespace, key, data); err != nil {
		a.log(ctx).Warn("Erreur lors de la sauvegarde: key=%s: %v", key, err)
		return false
	}
	return true
}

// Load decodes the value under key into dst. It returns false when the key
// is absent, the store fails, or the stored data does not decode.
func (a *Adapter) Load(ctx context.Context, key string, dst any) bool {
	data, found, err := a.repo.Get(ctx, a.namespace, key)
	if err != nil {
		a.log(ctx).Warn("Erreur lors du chargement: key=%s: %v", key, err)
		return false
	}
	if !found || len(data) == 0 {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		a.log(ctx).Warn("Erreur lors du chargement: corrupted value for key=%s: %v", key, err)
		return false
	}
	return true
}

// Remove deletes key. An absent key is not an error.
func (a *Adapter) Remove(ctx context.Context, key string) bool {
	if err := a.repo.Delete(ctx, a.namespace, key); err != nil {
		a.log(ctx).Warn("Erreur lors de la suppression: key=%s: %v", key, err)
		return false
	}
	return true
}

// AvailabilityKey is written then removed by Available.
const AvailabilityKey = "__storage_test__"

// Available reports whether a value can be written and removed.
func (a *Adapter) Available(ctx context.Context) bool {
	if err := a.repo.Put(ctx, a.namespace, AvailabilityKey, []byte(`"`+AvailabilityKey+`"`)); err != nil {
		a.log(ctx).Warn("store unavailable: %v", err)
		return false
	}
	if err := a.repo.Delete(ctx, a.namespace, AvailabilityKey); err != nil {
		a.log(ctx).Warn("store unavailable: %v", err)
		return false
	}
	return true
}
