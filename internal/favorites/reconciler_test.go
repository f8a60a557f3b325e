package favorites

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
	"github.com/MrSnakeDoc/easylaunch/internal/identity"
	"github.com/MrSnakeDoc/easylaunch/internal/logger"
	"github.com/MrSnakeDoc/easylaunch/internal/store/memory"
	"github.com/MrSnakeDoc/easylaunch/internal/stream"
)

type staticProfiles map[domain.ProfileID]domain.ProfileSerial

func (s staticProfiles) Serialize(p domain.ProfileID) domain.ProfileSerial {
	if serial, ok := s[p]; ok {
		return serial
	}
	return domain.UnknownProfileSerial
}

func (s staticProfiles) Deserialize(serial domain.ProfileSerial) (domain.ProfileID, bool) {
	for p, v := range s {
		if v == serial {
			return p, true
		}
	}
	return "", false
}

type appsStream struct {
	latest *stream.Latest[[]domain.AppRecord]
}

func (a appsStream) Subscribe(ctx context.Context) <-chan []domain.AppRecord {
	return a.latest.Subscribe(ctx)
}

type failingStore struct {
	*memory.FavoritesStore
	err error
}

func (f failingStore) ReplaceAll(context.Context, domain.FavoritesList) error { return f.err }

var testProfiles = staticProfiles{"owner": 0, "work": 10}

func app(pkg string, p domain.ProfileID) domain.AppRecord {
	id := domain.ActivityIdentity{Package: pkg, Class: pkg + ".Main", Profile: p}
	return domain.AppRecord{
		Label:    pkg,
		Identity: id,
		Serial:   domain.ActivityIdentitySer{Package: pkg, Class: pkg + ".Main", ProfileSerial: testProfiles[p]},
	}
}

type harness struct {
	apps  *stream.Latest[[]domain.AppRecord]
	store *memory.FavoritesStore
	rec   *Reconciler
	sub   <-chan domain.Catalog
}

func newHarness(t *testing.T, store Store) *harness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h := &harness{apps: stream.NewLatest[[]domain.AppRecord]()}
	if store == nil {
		h.store = memory.NewFavoritesStore()
		store = h.store
	}
	h.rec = NewReconciler(appsStream{h.apps}, store, identity.NewResolver("org.easylaunch", testProfiles), logger.Nop(), clockwork.NewRealClock())
	require.NoError(t, h.rec.Start(ctx))
	t.Cleanup(h.rec.Stop)
	h.sub = h.rec.Subscribe(ctx)
	return h
}

// waitFor returns the first published Catalog satisfying cond.
func (h *harness) waitFor(t *testing.T, cond func(domain.Catalog) bool) domain.Catalog {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case c := <-h.sub:
			if cond(c) {
				return c
			}
		case <-timeout:
			t.Fatal("timed out waiting for catalog")
			return domain.Catalog{}
		}
	}
}

func packages(apps []domain.AppRecord) []string {
	out := make([]string, len(apps))
	for i, a := range apps {
		out[i] = a.Identity.Package
	}
	return out
}

func TestReconciler_NothingBeforeBothInputs(t *testing.T) {
	h := newHarness(t, nil)

	time.Sleep(20 * time.Millisecond)
	_, ok := h.rec.Current()
	assert.False(t, ok, "no catalog before the app list exists")

	h.apps.Publish([]domain.AppRecord{app("a", "owner")})
	c := h.waitFor(t, func(domain.Catalog) bool { return true })
	assert.Len(t, c.AllApps, 1)
	assert.Empty(t, c.Favorites)
}

func TestReconciler_OrderPreserved(t *testing.T) {
	h := newHarness(t, nil)
	a, b, c := app("a", "owner"), app("b", "work"), app("c", "owner")
	h.apps.Publish([]domain.AppRecord{a, b, c})

	require.NoError(t, h.rec.SetFavorites(context.Background(), []domain.AppRecord{c, a, b}))

	got := h.waitFor(t, func(cat domain.Catalog) bool { return len(cat.Favorites) == 3 })
	assert.Equal(t, []string{"c", "a", "b"}, packages(got.Favorites))

	stored := h.store.List()
	require.Len(t, stored, 3)
	for i, fav := range stored {
		assert.Equal(t, i, fav.Rank)
	}
}

func TestReconciler_UninstalledFavoriteIsSkipped(t *testing.T) {
	h := newHarness(t, nil)
	a, b, c := app("a", "owner"), app("b", "owner"), app("c", "owner")
	h.apps.Publish([]domain.AppRecord{a, b, c})
	require.NoError(t, h.rec.SetFavorites(context.Background(), []domain.AppRecord{a, b, c}))
	h.waitFor(t, func(cat domain.Catalog) bool { return len(cat.Favorites) == 3 })

	// b gets uninstalled
	h.apps.Publish([]domain.AppRecord{a, c})
	got := h.waitFor(t, func(cat domain.Catalog) bool { return len(cat.AllApps) == 2 })
	assert.Equal(t, []string{"a", "c"}, packages(got.Favorites))

	// and comes back
	h.apps.Publish([]domain.AppRecord{a, b, c})
	got = h.waitFor(t, func(cat domain.Catalog) bool { return len(cat.AllApps) == 3 })
	assert.Equal(t, []string{"a", "b", "c"}, packages(got.Favorites))
}

func TestReconciler_DuplicateRejected(t *testing.T) {
	h := newHarness(t, nil)
	a := app("a", "owner")

	err := h.rec.SetFavorites(context.Background(), []domain.AppRecord{a, a})
	assert.ErrorIs(t, err, domain.ErrDuplicateFavorite)
	assert.Zero(t, h.store.Count())
}

func TestReconciler_UnknownProfileRejected(t *testing.T) {
	h := newHarness(t, nil)

	err := h.rec.SetFavorites(context.Background(), []domain.AppRecord{app("a", "guest")})
	assert.ErrorIs(t, err, domain.ErrUnknownActivity)
}

func TestReconciler_StorageErrorPropagates(t *testing.T) {
	boom := errors.New("disk full")
	h := newHarness(t, failingStore{FavoritesStore: memory.NewFavoritesStore(), err: boom})

	err := h.rec.SetFavorites(context.Background(), []domain.AppRecord{app("a", "owner")})
	assert.ErrorIs(t, err, boom)
}

func TestReconcile_GracefulDegradation(t *testing.T) {
	resolver := identity.NewResolver("", testProfiles)
	a, b, c := app("a", "owner"), app("b", "owner"), app("c", "work")
	list := domain.NewFavoritesList([]domain.ActivityIdentitySer{a.Serial, b.Serial, c.Serial})

	favorites, dropped := Reconcile([]domain.AppRecord{a, c}, list, resolver)

	assert.Len(t, favorites, len(list)-1)
	assert.Equal(t, []string{"a", "c"}, packages(favorites))
	require.Len(t, dropped, 1)
	assert.Equal(t, DropNotInstalled, dropped[0].Reason)
}

func TestReconcile_UnknownProfileDropped(t *testing.T) {
	resolver := identity.NewResolver("", testProfiles)
	a := app("a", "owner")
	gone := domain.ActivityIdentitySer{Package: "a", Class: "a.Main", ProfileSerial: 77}
	list := domain.NewFavoritesList([]domain.ActivityIdentitySer{gone, a.Serial})

	favorites, dropped := Reconcile([]domain.AppRecord{a}, list, resolver)

	assert.Equal(t, []string{"a"}, packages(favorites))
	require.Len(t, dropped, 1)
	assert.Equal(t, DropUnknownProfile, dropped[0].Reason)
}

func TestReconcile_WalksRankOrder(t *testing.T) {
	resolver := identity.NewResolver("", testProfiles)
	a, b := app("a", "owner"), app("b", "owner")
	list := domain.FavoritesList{
		{Identity: b.Serial, Rank: 1},
		{Identity: a.Serial, Rank: 0},
	}

	favorites, _ := Reconcile([]domain.AppRecord{a, b}, list, resolver)
	assert.Equal(t, []string{"a", "b"}, packages(favorites))
}

// flappingStore hands out a stream the test closes by hand, then fails one
// observation before delegating to the memory store.
type flappingStore struct {
	*memory.FavoritesStore
	first    chan domain.FavoritesList
	observed atomic.Int32
}

func (f *flappingStore) Observe(ctx context.Context) (<-chan domain.FavoritesList, error) {
	switch f.observed.Add(1) {
	case 1:
		return f.first, nil
	case 2:
		return nil, errors.New("connection reset")
	default:
		return f.FavoritesStore.Observe(ctx)
	}
}

func TestReconciler_ObservesAgainAfterStreamEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := clockwork.NewFakeClock()
	store := &flappingStore{FavoritesStore: memory.NewFavoritesStore(), first: make(chan domain.FavoritesList, 1)}
	store.first <- domain.FavoritesList{}

	apps := stream.NewLatest[[]domain.AppRecord]()
	rec := NewReconciler(appsStream{apps}, store, identity.NewResolver("org.easylaunch", testProfiles), logger.Nop(), clock)
	require.NoError(t, rec.Start(ctx))
	defer rec.Stop()
	h := &harness{apps: apps, rec: rec, sub: rec.Subscribe(ctx)}

	a := app("a", "owner")
	apps.Publish([]domain.AppRecord{a})
	h.waitFor(t, func(cat domain.Catalog) bool { return len(cat.AllApps) == 1 })

	close(store.first)
	clock.BlockUntil(1)
	assert.Equal(t, int32(1), store.observed.Load(), "no new observation before the delay elapses")

	// First retry fails and schedules another one
	clock.Advance(DefaultReobserveDelay)
	clock.BlockUntil(1)
	assert.Equal(t, int32(2), store.observed.Load())

	clock.Advance(DefaultReobserveDelay)
	require.Eventually(t, func() bool { return store.observed.Load() == 3 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, store.ReplaceAll(ctx, domain.NewFavoritesList([]domain.ActivityIdentitySer{a.Serial})))
	got := h.waitFor(t, func(cat domain.Catalog) bool { return len(cat.Favorites) == 1 })
	assert.Equal(t, []string{"a"}, packages(got.Favorites))
}
