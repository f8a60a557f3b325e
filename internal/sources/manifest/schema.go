package manifest

// Manifest is the top-level structure of activities.yaml.
// It describes what is installed on the host, per user profile.
type Manifest struct {
	Profiles []ProfileSpec `yaml:"profiles"`
}

// ProfileSpec is one user profile and its launchable activities.
type ProfileSpec struct {
	ID         string         `yaml:"id"`
	Serial     int64          `yaml:"serial"`
	Primary    bool           `yaml:"primary,omitempty"`
	Activities []ActivitySpec `yaml:"activities"`
}

// ActivitySpec is one launchable entry point.
type ActivitySpec struct {
	Package   string   `yaml:"package"`
	Class     string   `yaml:"class"`
	Label     string   `yaml:"label,omitempty"`
	Icon      string   `yaml:"icon,omitempty"`      // PNG path, relative to the manifest
	Densities []int    `yaml:"densities,omitempty"` // densities the icon is declared for; empty = any
	Adaptive  bool     `yaml:"adaptive,omitempty"`
	Exec      []string `yaml:"exec,omitempty"`
}

// primary returns the primary profile: the one flagged, else the first.
func (m *Manifest) primary() *ProfileSpec {
	if m == nil || len(m.Profiles) == 0 {
		return nil
	}
	for i := range m.Profiles {
		if m.Profiles[i].Primary {
			return &m.Profiles[i]
		}
	}
	return &m.Profiles[0]
}

func (m *Manifest) profile(id string) *ProfileSpec {
	if m == nil {
		return nil
	}
	for i := range m.Profiles {
		if m.Profiles[i].ID == id {
			return &m.Profiles[i]
		}
	}
	return nil
}

func (p *ProfileSpec) activity(pkg, class string) *ActivitySpec {
	for i := range p.Activities {
		if p.Activities[i].Package == pkg && p.Activities[i].Class == class {
			return &p.Activities[i]
		}
	}
	return nil
}
