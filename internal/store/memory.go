package store

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"pass.share/internal/models"
)

// Compile-time interface check
var _ Store = (*MemoryStore)(nil)

type MemoryStore struct {
	clock         clock.Clock
	secrets       map[string]*models.StoredSecret
	mu            sync.RWMutex
	cleanupCancel context.CancelFunc
}

func NewMemoryStore(clk clock.Clock, cleanupInterval time.Duration) *MemoryStore {
	if clk == nil {
		clk = clock.New()
	}
	ctx, cancel := context.WithCancel(context.Background())
	store := &MemoryStore{
		clock:         clk,
		secrets:       make(map[string]*models.StoredSecret),
		cleanupCancel: cancel,
	}
	go store.cleanupLoop(ctx, clk.Ticker(cleanupInterval))
	return store
}

func (s *MemoryStore) Save(ctx context.Context, secret *models.StoredSecret) error {
	if !s.clock.Now().Before(secret.ExpireAt) {
		return ErrExpired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *secret
	s.secrets[secret.ID] = &cp
	return nil
}

func (s *MemoryStore) Consume(ctx context.Context, id string) (*models.StoredSecret, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	secret, ok := s.secrets[id]
	if !ok {
		return nil, ErrNotFound
	}

	if !s.clock.Now().Before(secret.ExpireAt) {
		delete(s.secrets, id)
		return nil, ErrExpired
	}

	if secret.ViewsLeft <= 0 {
		delete(s.secrets, id)
		return nil, ErrNoViewsLeft
	}

	secret.ViewsLeft--
	if secret.ViewsLeft == 0 {
		delete(s.secrets, id)
	}

	cp := *secret
	return &cp, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.secrets, id)
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.secrets)
}

func (s *MemoryStore) Close() error {
	if s.cleanupCancel != nil {
		s.cleanupCancel()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.secrets = make(map[string]*models.StoredSecret)
	return nil
}

func (s *MemoryStore) cleanupLoop(ctx context.Context, ticker *clock.Ticker) {
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *MemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	for id, secret := range s.secrets {
		if !now.Before(secret.ExpireAt) || secret.ViewsLeft <= 0 {
			delete(s.secrets, id)
		}
	}
}
