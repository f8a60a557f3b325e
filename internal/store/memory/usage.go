package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
)

// LaunchCounter counts launches per activity in memory.
type LaunchCounter struct {
	mu     sync.Mutex
	counts map[domain.ActivityIdentitySer]int64
}

// NewLaunchCounter creates an empty counter
func NewLaunchCounter() *LaunchCounter {
	return &LaunchCounter{counts: make(map[domain.ActivityIdentitySer]int64)}
}

// RecordLaunch increments the counter of id
func (c *LaunchCounter) RecordLaunch(_ context.Context, id domain.ActivityIdentitySer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counts[id]++
	return nil
}

// LaunchCounts returns a snapshot of every counter
func (c *LaunchCounter) LaunchCounts(_ context.Context) (map[domain.ActivityIdentitySer]int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return maps.Clone(c.counts), nil
}

// ForgetLaunches deletes the counters of ids
func (c *LaunchCounter) ForgetLaunches(_ context.Context, ids ...domain.ActivityIdentitySer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range ids {
		delete(c.counts, id)
	}
	return nil
}
