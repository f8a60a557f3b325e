package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
)

func TestStore_LaunchCounters(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, "")

	firefox := domain.ActivityIdentitySer{Package: "org.mozilla.firefox", Class: "App", ProfileSerial: 0}
	calc := domain.ActivityIdentitySer{Package: "org.gnome.Calculator", Class: "Main", ProfileSerial: 10}

	require.NoError(t, s.RecordLaunch(ctx, firefox))
	require.NoError(t, s.RecordLaunch(ctx, firefox))
	require.NoError(t, s.RecordLaunch(ctx, calc))

	counts, err := s.LaunchCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[domain.ActivityIdentitySer]int64{firefox: 2, calc: 1}, counts)

	require.NoError(t, s.ForgetLaunches(ctx, calc))
	counts, err = s.LaunchCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[domain.ActivityIdentitySer]int64{firefox: 2}, counts)

	assert.NoError(t, s.ForgetLaunches(ctx))
}
