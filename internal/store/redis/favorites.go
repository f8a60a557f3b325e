package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
	"github.com/MrSnakeDoc/easylaunch/internal/logger"
	"github.com/MrSnakeDoc/easylaunch/internal/stream"
)

// Store handles Redis operations for favorites and launch counters
type Store struct {
	client *redis.Client
	logger logger.Logger
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client, log logger.Logger) *Store {
	return &Store{
		client: client,
		logger: log,
	}
}

// ReplaceAll swaps the favorites list and announces it, inside one
// MULTI/EXEC block
func (s *Store) ReplaceAll(ctx context.Context, list domain.FavoritesList) error {
	if err := list.Validate(); err != nil {
		return fmt.Errorf("invalid favorites list: %w", err)
	}

	payloads, err := encodeFavorites(list)
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, FavoritesKey())
		if len(payloads) > 0 {
			pipe.RPush(ctx, FavoritesKey(), payloads...)
		}
		pipe.Publish(ctx, FavoritesChannel(), time.Now().UnixNano())
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to replace favorites: %w", err)
	}

	return nil
}

// List retrieves the favorites list in rank order
func (s *Store) List(ctx context.Context) (domain.FavoritesList, error) {
	raw, err := s.client.LRange(ctx, FavoritesKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get favorites: %w", err)
	}
	return decodeFavorites(raw)
}

// Observe subscribes to favorites changes and streams the full list now
// and after every change. The channel closes when ctx is done or the
// subscription dies.
func (s *Store) Observe(ctx context.Context) (<-chan domain.FavoritesList, error) {
	sub := s.client.Subscribe(ctx, FavoritesChannel())

	// Wait for the subscription to be active so no change slips between
	// the initial read and the first notification.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to favorites: %w", err)
	}

	initial, err := s.List(ctx)
	if err != nil {
		_ = sub.Close()
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)
	latest := stream.NewLatest[domain.FavoritesList]()
	latest.Publish(initial)
	out := latest.Subscribe(subCtx)

	go func() {
		defer cancel()
		defer func() { _ = sub.Close() }()

		msgCh := sub.Channel()
		for {
			select {
			case _, ok := <-msgCh:
				if !ok {
					s.logger.Warn("favorites subscription closed")
					return
				}
				list, err := s.List(subCtx)
				if err != nil {
					s.logger.Warn("failed to reload favorites after change", logger.Error(err))
					continue
				}
				latest.Publish(list)
			case <-subCtx.Done():
				return
			}
		}
	}()

	return out, nil
}

func encodeFavorites(list domain.FavoritesList) ([]interface{}, error) {
	payloads := make([]interface{}, 0, len(list))
	for _, fav := range list {
		data, err := json.Marshal(fav)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal favorite %s: %w", fav.Identity, err)
		}
		payloads = append(payloads, data)
	}
	return payloads, nil
}

func decodeFavorites(raw []string) (domain.FavoritesList, error) {
	list := make(domain.FavoritesList, 0, len(raw))
	for i, item := range raw {
		var fav domain.Favorite
		if err := json.Unmarshal([]byte(item), &fav); err != nil {
			return nil, fmt.Errorf("failed to unmarshal favorite at %d: %w", i, err)
		}
		// the list index is authoritative
		fav.Rank = i
		list = append(list, fav)
	}
	return list, nil
}
