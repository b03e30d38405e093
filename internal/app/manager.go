package app

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/vytor/wildcards/internal/logger"
	"github.com/vytor/wildcards/internal/models"
	"github.com/vytor/wildcards/internal/repository"
	"github.com/vytor/wildcards/internal/storage"
)

// Options tunes new controllers.
type Options struct {
	RenderDelay time.Duration
	// NewRand builds the source of shuffles and random draws of each
	// controller; nil picks a random seed.
	NewRand func() *rand.Rand
}

type entry struct {
	ctrl     *Controller
	lastSeen time.Time
}

// Manager hands out one controller per visitor id, creating them on demand.
type Manager struct {
	corpora Corpora
	local   repository.KVRepository
	session repository.KVRepository
	opts    Options
	now     func() time.Time

	mu          sync.Mutex
	controllers map[string]*entry
}

// NewManager binds controllers to the durable (local) and session stores.
func NewManager(corpora Corpora, local, session repository.KVRepository, opts Options) *Manager {
	return &Manager{
		corpora:     corpora,
		local:       local,
		session:     session,
		opts:        opts,
		now:         time.Now,
		controllers: map[string]*entry{},
	}
}

// WithClock replaces the clock used for idle tracking.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Get returns the controller of visitorID, creating it on first use.
// Building a controller loads corpora and stores, so it runs outside m.mu;
// when two requests race to create the same visitor the first insert wins.
func (m *Manager) Get(ctx context.Context, visitorID string) *Controller {
	if ctrl := m.lookup(visitorID); ctrl != nil {
		return ctrl
	}

	ctrl := NewController(ctx, visitorID, m.corpora,
		storage.New(m.local, storage.ScopeLocal, visitorID),
		storage.New(m.session, storage.ScopeSession, visitorID),
		m.opts)

	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.controllers[visitorID]; ok {
		e.lastSeen = m.now()
		return e.ctrl
	}
	m.controllers[visitorID] = &entry{ctrl: ctrl, lastSeen: m.now()}
	logger.FromContext(ctx).WithPrefix("app").Debug("controller created for visitor %s", visitorID)
	return ctrl
}

func (m *Manager) lookup(visitorID string) *Controller {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.controllers[visitorID]
	if !ok {
		return nil
	}
	e.lastSeen = m.now()
	return e.ctrl
}

// Len is the number of live controllers.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.controllers)
}

// Sweep drops controllers idle for longer than maxIdle. Their persisted
// state stays in the stores and is restored on the next visit.
func (m *Manager) Sweep(maxIdle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-maxIdle)
	evicted := 0
	for id, e := range m.controllers {
		if e.lastSeen.Before(cutoff) {
			delete(m.controllers, id)
			evicted++
		}
	}
	return evicted
}

// ApplyDataset pushes reloaded corpora to every live controller.
func (m *Manager) ApplyDataset(questions *models.Dataset, qcm *models.QCMDataset) int {
	m.mu.Lock()
	ctrls := make([]*Controller, 0, len(m.controllers))
	for _, e := range m.controllers {
		ctrls = append(ctrls, e.ctrl)
	}
	m.mu.Unlock()

	for _, c := range ctrls {
		c.SetDataset(questions, qcm)
	}
	return len(ctrls)
}
