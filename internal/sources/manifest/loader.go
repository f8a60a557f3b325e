package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of activities.yaml
type Loader struct {
	filePath string
}

// NewLoader creates a new manifest loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Path returns the manifest location
func (l *Loader) Path() string {
	return l.filePath
}

// Load reads, parses and validates the manifest
func (l *Loader) Load() (*Manifest, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	return Parse(data)
}

// Parse decodes a manifest. Environment variables (${HOME}, $XDG_DATA_HOME)
// are expanded before parsing so icon and exec paths can be portable.
func Parse(data []byte) (*Manifest, error) {
	data = []byte(os.ExpandEnv(string(data)))

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest yaml: %w", err)
	}

	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if len(m.Profiles) == 0 {
		return fmt.Errorf("manifest declares no profile")
	}

	ids := make(map[string]bool, len(m.Profiles))
	serials := make(map[int64]string, len(m.Profiles))
	primaries := 0

	for i := range m.Profiles {
		p := &m.Profiles[i]
		if p.ID == "" {
			return fmt.Errorf("profile #%d has no id", i)
		}
		if ids[p.ID] {
			return fmt.Errorf("profile %q declared twice", p.ID)
		}
		ids[p.ID] = true

		if p.Serial < 0 {
			return fmt.Errorf("profile %q has negative serial %d", p.ID, p.Serial)
		}
		if other, dup := serials[p.Serial]; dup {
			return fmt.Errorf("profiles %q and %q share serial %d", other, p.ID, p.Serial)
		}
		serials[p.Serial] = p.ID

		if p.Primary {
			primaries++
		}

		seen := make(map[string]bool, len(p.Activities))
		for j := range p.Activities {
			a := &p.Activities[j]
			if a.Package == "" || a.Class == "" {
				return fmt.Errorf("profile %q activity #%d needs package and class", p.ID, j)
			}
			key := a.Package + "/" + a.Class
			if seen[key] {
				return fmt.Errorf("profile %q lists %s twice", p.ID, key)
			}
			seen[key] = true
			if a.Label == "" {
				a.Label = a.Class
			}
		}
	}

	if primaries > 1 {
		return fmt.Errorf("manifest flags %d primary profiles", primaries)
	}
	return nil
}
