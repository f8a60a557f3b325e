package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
	"github.com/MrSnakeDoc/easylaunch/internal/logger"
)

// RecordLaunch increments the launch counter of an activity
func (s *Store) RecordLaunch(ctx context.Context, id domain.ActivityIdentitySer) error {
	if err := s.client.HIncrBy(ctx, LaunchCountsKey(), LaunchField(id), 1).Err(); err != nil {
		return fmt.Errorf("failed to record launch: %w", err)
	}
	return nil
}

// LaunchCounts retrieves every launch counter
func (s *Store) LaunchCounts(ctx context.Context) (map[domain.ActivityIdentitySer]int64, error) {
	raw, err := s.client.HGetAll(ctx, LaunchCountsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get launch counts: %w", err)
	}

	stats := make(map[domain.ActivityIdentitySer]int64, len(raw))
	for field, value := range raw {
		id, err := ParseLaunchField(field)
		if err != nil {
			s.logger.Warn("skipping malformed launch counter", logger.String("field", field))
			continue
		}
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			continue
		}
		stats[id] = n
	}

	return stats, nil
}

// ForgetLaunches deletes the counters of ids
func (s *Store) ForgetLaunches(ctx context.Context, ids ...domain.ActivityIdentitySer) error {
	if len(ids) == 0 {
		return nil
	}

	fields := make([]string, len(ids))
	for i, id := range ids {
		fields[i] = LaunchField(id)
	}

	if err := s.client.HDel(ctx, LaunchCountsKey(), fields...).Err(); err != nil {
		return fmt.Errorf("failed to delete launch counters: %w", err)
	}
	return nil
}
