// internal/otpflow/store.go
// In-memory store of live flows. Flow state is transient and owned by a
// single screen instance, so there is nothing to persist.

package otpflow

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrFlowNotFound = errors.New("flow not found or expired")

// Store holds live flows keyed by flow ID and evicts the ones that have gone
// idle past the configured TTL.
type Store struct {
	sender    Sender
	registrar Registrar
	cfg       Config

	mu    sync.RWMutex
	flows map[string]*Flow
}

// NewStore creates a flow store.
func NewStore(sender Sender, registrar Registrar, cfg Config) *Store {
	return &Store{
		sender:    sender,
		registrar: registrar,
		cfg:       cfg.withDefaults(),
		flows:     make(map[string]*Flow),
	}
}

// Create starts a new flow bound to the given campaign.
func (s *Store) Create(campaign Campaign) *Flow {
	f := NewFlow(s.sender, s.registrar, campaign, s.cfg)

	s.mu.Lock()
	s.flows[f.ID] = f
	s.mu.Unlock()

	activeFlows.Inc()
	return f
}

// Get returns a live flow by ID.
func (s *Store) Get(id string) (*Flow, error) {
	s.mu.RLock()
	f, ok := s.flows[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrFlowNotFound
	}
	return f, nil
}

// Remove tears down a flow, stopping its timers.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	f, ok := s.flows[id]
	if ok {
		delete(s.flows, id)
	}
	s.mu.Unlock()

	if ok {
		f.Close()
		activeFlows.Dec()
	}
}

// StartCleanup evicts idle flows until ctx is cancelled. Run it once from
// main as a background goroutine.
func (s *Store) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictIdle(time.Now())
		case <-ctx.Done():
			return
		}
	}
}

func (s *Store) evictIdle(now time.Time) {
	var expired []*Flow

	s.mu.Lock()
	for id, f := range s.flows {
		if now.Sub(f.LastTouched()) > s.cfg.IdleTTL {
			delete(s.flows, id)
			expired = append(expired, f)
		}
	}
	s.mu.Unlock()

	for _, f := range expired {
		f.Close()
		activeFlows.Dec()
	}
}

// Len reports the number of live flows.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.flows)
}
