package favorites

import (
	"context"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
)

// Store persists the favorites list.
//
// Implementations live under internal/store: memory, sqlite and redis.
type Store interface {
	// Observe yields the full list now and again after every change, in
	// rank order, until ctx is done. Each call starts an independent
	// observation.
	Observe(ctx context.Context) (<-chan domain.FavoritesList, error)
	// ReplaceAll swaps the whole list in one transaction. Readers see the
	// old list or the new one, never a mix.
	ReplaceAll(ctx context.Context, list domain.FavoritesList) error
}

// Apps is the live app list. *catalog.Service implements it.
type Apps interface {
	Subscribe(ctx context.Context) <-chan []domain.AppRecord
}
