package manifest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
	"github.com/MrSnakeDoc/easylaunch/internal/logger"
)

func newTestSource(t *testing.T) *Source {
	t.Helper()
	m, err := Parse([]byte(sampleManifest))
	require.NoError(t, err)

	s := NewSource(t.TempDir(), logger.Nop())
	assert.Nil(t, s.Apply(m), "first apply has nothing to diff against")
	return s
}

func TestSource_Profiles(t *testing.T) {
	s := newTestSource(t)

	assert.Equal(t, domain.ProfileID("owner"), s.Primary())

	infos, err := s.Profiles()
	require.NoError(t, err)
	assert.Equal(t, []domain.ProfileInfo{
		{ID: "owner", Serial: 0},
		{ID: "work", Serial: 10},
	}, infos)
}

func TestSource_NotLoaded(t *testing.T) {
	s := NewSource(t.TempDir(), logger.Nop())

	assert.Equal(t, domain.ProfileID(""), s.Primary())
	_, err := s.Profiles()
	assert.Error(t, err)
	_, err = s.Activities(context.Background(), "owner")
	assert.Error(t, err)
}

func TestSource_Activities(t *testing.T) {
	s := newTestSource(t)

	acts, err := s.Activities(context.Background(), "work")
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.Equal(t, "Firefox (work)", acts[0].Label)
	assert.Equal(t, domain.ProfileID("work"), acts[0].Profile)
	assert.Nil(t, acts[0].Icon)

	_, err = s.Activities(context.Background(), "ghost")
	assert.Error(t, err)
}

func TestSource_ActivitiesCancelled(t *testing.T) {
	s := newTestSource(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Activities(ctx, "owner")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSource_ChangesOnReapply(t *testing.T) {
	s := newTestSource(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := s.Changes(ctx)

	next, err := Parse([]byte(`
profiles:
  - id: owner
    serial: 0
    activities:
      - {package: org.mozilla.firefox, class: App, label: Firefox, icon: icons/firefox.png, exec: [firefox]}
  - id: work
    serial: 10
    activities:
      - {package: org.mozilla.firefox, class: App, label: Firefox (work)}
`))
	require.NoError(t, err)

	events := s.Apply(next)
	require.Equal(t, []domain.ChangeEvent{
		{Packages: []string{"org.gnome.Calculator"}, Profile: "owner", Kind: domain.ChangeRemove},
	}, events)

	select {
	case ev := <-ch:
		assert.Equal(t, events[0], ev)
	case <-time.After(time.Second):
		t.Fatal("no change event delivered")
	}
}

func TestSource_StartActivity(t *testing.T) {
	s := newTestSource(t)
	var started []string
	s.start = func(argv []string) error {
		started = argv
		return nil
	}

	ctx := context.Background()
	firefox := domain.ActivityIdentity{Package: "org.mozilla.firefox", Class: "App", Profile: "owner"}
	require.NoError(t, s.StartActivity(ctx, firefox))
	assert.Equal(t, []string{"firefox"}, started)

	calc := domain.ActivityIdentity{Package: "org.gnome.Calculator", Class: "Main", Profile: "owner"}
	assert.ErrorIs(t, s.StartActivity(ctx, calc), domain.ErrLaunchRejected)

	ghost := domain.ActivityIdentity{Package: "ghost", Class: "Main", Profile: "owner"}
	assert.ErrorIs(t, s.StartActivity(ctx, ghost), domain.ErrUnknownActivity)

	wrongProfile := domain.ActivityIdentity{Package: "org.mozilla.firefox", Class: "App", Profile: "nobody"}
	assert.ErrorIs(t, s.StartActivity(ctx, wrongProfile), domain.ErrUnknownActivity)
}

func TestSource_StartActivityFailure(t *testing.T) {
	s := newTestSource(t)
	s.start = func([]string) error { return errors.New("exec: not found") }

	err := s.StartActivity(context.Background(), domain.ActivityIdentity{Package: "org.mozilla.firefox", Class: "App", Profile: "owner"})
	assert.ErrorIs(t, err, domain.ErrLaunchRejected)
	assert.Contains(t, err.Error(), "exec: not found")
}
