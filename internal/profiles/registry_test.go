package profiles

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
	"github.com/MrSnakeDoc/easylaunch/internal/logger"
)

type fakeSource struct {
	mu      sync.Mutex
	primary domain.ProfileID
	infos   []domain.ProfileInfo
	err     error
	calls   int
}

func (f *fakeSource) Primary() domain.ProfileID { return f.primary }

func (f *fakeSource) Profiles() ([]domain.ProfileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.infos, nil
}

func twoProfiles() *fakeSource {
	return &fakeSource{
		primary: "owner",
		infos: []domain.ProfileInfo{
			{ID: "work", Serial: 10},
			{ID: "owner", Serial: 0},
		},
	}
}

func TestRegistry_RoundTrip(t *testing.T) {
	reg := NewRegistry(twoProfiles(), logger.Nop())

	for _, p := range []domain.ProfileID{"owner", "work"} {
		serial := reg.Serialize(p)
		require.True(t, serial.Known(), "profile %s", p)

		back, ok := reg.Deserialize(serial)
		require.True(t, ok)
		assert.Equal(t, p, back)
	}
}

func TestRegistry_PrimaryListedFirst(t *testing.T) {
	reg := NewRegistry(twoProfiles(), logger.Nop())

	assert.Equal(t, domain.ProfileID("owner"), reg.Primary())
	assert.Equal(t, []domain.ProfileID{"owner", "work"}, reg.Profiles())
}

func TestRegistry_UnknownProfiles(t *testing.T) {
	reg := NewRegistry(twoProfiles(), logger.Nop())

	assert.Equal(t, domain.UnknownProfileSerial, reg.Serialize(""))
	assert.Equal(t, domain.UnknownProfileSerial, reg.Serialize("guest"))

	_, ok := reg.Deserialize(42)
	assert.False(t, ok)
	_, ok = reg.Deserialize(domain.UnknownProfileSerial)
	assert.False(t, ok)
}

func TestRegistry_SentinelNeverCollides(t *testing.T) {
	src := &fakeSource{
		primary: "owner",
		infos:   []domain.ProfileInfo{{ID: "owner", Serial: domain.UnknownProfileSerial}},
	}
	reg := NewRegistry(src, logger.Nop())

	// a source reporting the sentinel as a real serial is rejected
	assert.Equal(t, domain.UnknownProfileSerial, reg.Serialize("owner"))
	assert.Empty(t, reg.Profiles())
}

func TestRegistry_RetriesAfterLoadFailure(t *testing.T) {
	src := twoProfiles()
	src.err = errors.New("binder died")
	reg := NewRegistry(src, logger.Nop())

	assert.Empty(t, reg.Profiles())

	src.mu.Lock()
	src.err = nil
	src.mu.Unlock()

	assert.Len(t, reg.Profiles(), 2)
	calls := src.calls
	_ = reg.Profiles()
	assert.Equal(t, calls, src.calls, "loaded registry must not query again")
}

func TestRegistry_RejectsDuplicateSerials(t *testing.T) {
	src := &fakeSource{
		primary: "owner",
		infos: []domain.ProfileInfo{
			{ID: "owner", Serial: 0},
			{ID: "work", Serial: 0},
		},
	}
	reg := NewRegistry(src, logger.Nop())

	assert.Empty(t, reg.Profiles())
}

func TestRegistry_ConcurrentAccessDuringLoad(t *testing.T) {
	reg := NewRegistry(twoProfiles(), logger.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serial := reg.Serialize("work")
			if serial != 10 {
				t.Errorf("Serialize(work) = %d, want 10", serial)
			}
			if p, ok := reg.Deserialize(0); !ok || p != "owner" {
				t.Errorf("Deserialize(0) = %q, %v", p, ok)
			}
		}()
	}
	wg.Wait()
}
