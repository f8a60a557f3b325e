package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
	"github.com/MrSnakeDoc/easylaunch/internal/stream"
)

// FavoritesStore keeps the favorites list in memory.
// It backs tests and the "memory" favorites backend; nothing survives a restart.
type FavoritesStore struct {
	mu        sync.RWMutex
	list      domain.FavoritesList
	lastWrite time.Time // Timestamp of last replacement
	updates   *stream.Latest[domain.FavoritesList]
}

// NewFavoritesStore creates an empty store.
func NewFavoritesStore() *FavoritesStore {
	s := &FavoritesStore{
		list:    domain.FavoritesList{},
		updates: stream.NewLatest[domain.FavoritesList](),
	}
	s.updates.Publish(s.list)
	return s
}

// ReplaceAll swaps the whole list
func (s *FavoritesStore) ReplaceAll(_ context.Context, list domain.FavoritesList) error {
	if err := list.Validate(); err != nil {
		return fmt.Errorf("invalid favorites list: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Clear and rebuild
	s.list = list.Clone()
	s.lastWrite = time.Now()
	s.updates.Publish(s.list.Clone())
	return nil
}

// Observe streams the list, starting with the current one
func (s *FavoritesStore) Observe(ctx context.Context) (<-chan domain.FavoritesList, error) {
	return s.updates.Subscribe(ctx), nil
}

// List returns a copy of the current list
func (s *FavoritesStore) List() domain.FavoritesList {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.list.Clone()
}

// Count returns the number of favorites
func (s *FavoritesStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.list)
}

// LastWrite returns the timestamp of the last replacement
func (s *FavoritesStore) LastWrite() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastWrite
}
