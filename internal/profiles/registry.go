// Package profiles keeps the mapping between live profile handles and the
// serials that are safe to persist.
package profiles

import (
	"fmt"
	"sync"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
	"github.com/MrSnakeDoc/easylaunch/internal/logger"
)

// Source reports the profiles visible to the launcher.
type Source interface {
	Primary() domain.ProfileID
	Profiles() ([]domain.ProfileInfo, error)
}

// Registry maps ProfileID <-> ProfileSerial for the lifetime of the process.
//
// It is loaded once, on first use. Profiles added or removed afterwards are
// not observed: a restart picks them up.
type Registry struct {
	source Source
	logger logger.Logger

	mu       sync.Mutex
	loaded   bool
	primary  domain.ProfileID
	order    []domain.ProfileID
	bySerial map[domain.ProfileSerial]domain.ProfileID
	byID     map[domain.ProfileID]domain.ProfileSerial
}

// NewRegistry creates a registry backed by src.
func NewRegistry(src Source, log logger.Logger) *Registry {
	return &Registry{
		source: src,
		logger: log,
	}
}

// Primary returns the device's main profile.
func (r *Registry) Primary() domain.ProfileID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLoaded()
	return r.primary
}

// Serialize returns the serial of p, or UnknownProfileSerial.
func (r *Registry) Serialize(p domain.ProfileID) domain.ProfileSerial {
	if p.IsZero() {
		return domain.UnknownProfileSerial
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLoaded()

	if serial, ok := r.byID[p]; ok {
		return serial
	}
	return domain.UnknownProfileSerial
}

// Deserialize returns the live profile for serial, if it is still known.
func (r *Registry) Deserialize(serial domain.ProfileSerial) (domain.ProfileID, bool) {
	if !serial.Known() {
		return "", false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLoaded()

	p, ok := r.bySerial[serial]
	return p, ok
}

// Profiles lists every known profile, primary first.
func (r *Registry) Profiles() []domain.ProfileID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLoaded()

	out := make([]domain.ProfileID, len(r.order))
	copy(out, r.order)
	return out
}

// ensureLoaded runs the one-time initialization. r.mu must be held.
// On failure the maps stay empty and the next call retries.
func (r *Registry) ensureLoaded() {
	if r.loaded {
		return
	}
	if err := r.load(); err != nil {
		r.logger.Warn("failed to load user profiles", logger.Error(err))
		return
	}
	r.loaded = true
	r.logger.Info("user profiles loaded",
		logger.Int("count", len(r.order)),
		logger.String("primary", string(r.primary)))
}

func (r *Registry) load() error {
	infos, err := r.source.Profiles()
	if err != nil {
		return fmt.Errorf("list profiles: %w", err)
	}

	primary := r.source.Primary()
	byID := make(map[domain.ProfileID]domain.ProfileSerial, len(infos))
	bySerial := make(map[domain.ProfileSerial]domain.ProfileID, len(infos))
	order := make([]domain.ProfileID, 0, len(infos))

	for _, info := range infos {
		if info.ID.IsZero() || !info.Serial.Known() {
			return fmt.Errorf("invalid profile %q with serial %d", info.ID, info.Serial)
		}
		if _, dup := byID[info.ID]; dup {
			return fmt.Errorf("profile %q listed twice", info.ID)
		}
		if other, dup := bySerial[info.Serial]; dup {
			return fmt.Errorf("serial %d shared by %q and %q", info.Serial, other, info.ID)
		}
		byID[info.ID] = info.Serial
		bySerial[info.Serial] = info.ID
		if info.ID == primary {
			order = append([]domain.ProfileID{info.ID}, order...)
		} else {
			order = append(order, info.ID)
		}
	}

	if _, ok := byID[primary]; !ok {
		return fmt.Errorf("primary profile %q is not listed", primary)
	}

	r.primary = primary
	r.order = order
	r.byID = byID
	r.bySerial = bySerial
	return nil
}
