// Package manifest serves installed activities from a YAML manifest on disk.
// It plays the part of the platform package manager for the launcher.
package manifest

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
	"github.com/MrSnakeDoc/easylaunch/internal/logger"
	"github.com/MrSnakeDoc/easylaunch/internal/stream"
)

// Source is the in-memory view of the last applied manifest.
type Source struct {
	baseDir string
	logger  logger.Logger

	mu       sync.RWMutex
	manifest *Manifest

	changes *stream.Latest[domain.ChangeEvent]

	// start launches a process. Replaced in tests.
	start func(argv []string) error
}

// NewSource creates a source resolving relative icon paths against baseDir.
// It serves nothing until the first Apply.
func NewSource(baseDir string, log logger.Logger) *Source {
	return &Source{
		baseDir: baseDir,
		logger:  log,
		changes: stream.NewLatest[domain.ChangeEvent](),
		start:   startDetached,
	}
}

// Apply swaps in m and notifies subscribers of what changed.
// The first Apply emits nothing: there is no previous state to diff against.
func (s *Source) Apply(m *Manifest) []domain.ChangeEvent {
	s.mu.Lock()
	old := s.manifest
	s.manifest = m
	s.mu.Unlock()

	if old == nil {
		s.logger.Info("Manifest loaded", logger.Int("profiles", len(m.Profiles)))
		return nil
	}

	events := Diff(old, m)
	for _, ev := range events {
		s.logger.Debug("Manifest change",
			logger.String("profile", string(ev.Profile)),
			logger.Stringer("kind", ev.Kind),
			logger.Strings("packages", ev.Packages),
		)
		s.changes.Publish(ev)
	}
	return events
}

// Primary returns the primary profile of the current manifest.
func (s *Source) Primary() domain.ProfileID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p := s.manifest.primary(); p != nil {
		return domain.ProfileID(p.ID)
	}
	return ""
}

// Profiles lists profiles with their serials, in manifest order.
func (s *Source) Profiles() ([]domain.ProfileInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.manifest == nil {
		return nil, fmt.Errorf("manifest not loaded")
	}

	out := make([]domain.ProfileInfo, 0, len(s.manifest.Profiles))
	for _, p := range s.manifest.Profiles {
		out = append(out, domain.ProfileInfo{
			ID:     domain.ProfileID(p.ID),
			Serial: domain.ProfileSerial(p.Serial),
		})
	}
	return out, nil
}

// Activities lists the activities declared for profile.
func (s *Source) Activities(ctx context.Context, profile domain.ProfileID) ([]domain.ActivityInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.manifest.profile(string(profile))
	if p == nil {
		return nil, fmt.Errorf("profile %q not in manifest", profile)
	}

	out := make([]domain.ActivityInfo, 0, len(p.Activities))
	for _, a := range p.Activities {
		out = append(out, domain.ActivityInfo{
			Package: a.Package,
			Class:   a.Class,
			Profile: profile,
			Label:   a.Label,
			Icon:    iconLookup(s.baseDir, a),
		})
	}
	return out, nil
}

// Changes delivers change events until ctx is done. Delivery is conflated:
// a slow reader only sees the latest event, which is enough for consumers
// that rebuild everything on any change.
func (s *Source) Changes(ctx context.Context) <-chan domain.ChangeEvent {
	return s.changes.SubscribeNext(ctx)
}

// StartActivity runs the exec line of id.
func (s *Source) StartActivity(ctx context.Context, id domain.ActivityIdentity) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	var argv []string
	p := s.manifest.profile(string(id.Profile))
	if p != nil {
		if a := p.activity(id.Package, id.Class); a != nil {
			argv = append(argv, a.Exec...)
		} else {
			p = nil
		}
	}
	s.mu.RUnlock()

	if p == nil {
		return fmt.Errorf("%w: %s", domain.ErrUnknownActivity, id)
	}
	if len(argv) == 0 {
		return fmt.Errorf("%w: %s declares no exec line", domain.ErrLaunchRejected, id)
	}
	if err := s.start(argv); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrLaunchRejected, id, err)
	}
	return nil
}

// startDetached starts argv without waiting for it. No context: the
// started app must outlive the request that launched it.
func startDetached(argv []string) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// BaseDir returns the directory relative icon paths are resolved against.
func BaseDir(manifestPath string) string {
	return filepath.Dir(manifestPath)
}
