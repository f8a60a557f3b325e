package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleManifest = `---
profiles:
  - id: owner
    serial: 0
    activities:
      - package: org.mozilla.firefox
        class: App
        label: Firefox
        icon: icons/firefox.png
        exec: [firefox]
      - package: org.gnome.Calculator
        class: Main
  - id: work
    serial: 10
    activities:
      - package: org.mozilla.firefox
        class: App
        label: Firefox (work)
`

func TestLoaderLoad(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "activities.yaml")

	if err := os.WriteFile(yamlPath, []byte(sampleManifest), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	m, err := NewLoader(yamlPath).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(m.Profiles) != 2 {
		t.Fatalf("Load() returned %d profiles, want 2", len(m.Profiles))
	}
	if got := m.primary().ID; got != "owner" {
		t.Errorf("primary = %q, want owner (first profile)", got)
	}
	calc := m.Profiles[0].activity("org.gnome.Calculator", "Main")
	if calc == nil || calc.Label != "Main" {
		t.Errorf("label should default to class, got %+v", calc)
	}
}

func TestLoaderLoadMissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "nope.yaml")).Load()
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseExpandsEnv(t *testing.T) {
	t.Setenv("EASYLAUNCH_TEST_ICONS", "/opt/icons")

	m, err := Parse([]byte(`
profiles:
  - id: owner
    serial: 0
    activities:
      - package: a
        class: b
        icon: ${EASYLAUNCH_TEST_ICONS}/a.png
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := m.Profiles[0].Activities[0].Icon; got != "/opt/icons/a.png" {
		t.Errorf("icon = %q, want expanded path", got)
	}
}

func TestParseExplicitPrimary(t *testing.T) {
	m, err := Parse([]byte(`
profiles:
  - {id: owner, serial: 0}
  - {id: work, serial: 10, primary: true}
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := m.primary().ID; got != "work" {
		t.Errorf("primary = %q, want work", got)
	}
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"empty", `profiles: []`, "no profile"},
		{"missing id", `profiles: [{serial: 0}]`, "has no id"},
		{"duplicate id", `profiles: [{id: a, serial: 0}, {id: a, serial: 1}]`, "declared twice"},
		{"duplicate serial", `profiles: [{id: a, serial: 3}, {id: b, serial: 3}]`, "share serial"},
		{"negative serial", `profiles: [{id: a, serial: -1}]`, "negative serial"},
		{"two primaries", `profiles: [{id: a, serial: 0, primary: true}, {id: b, serial: 1, primary: true}]`, "primary profiles"},
		{"activity without class", `profiles: [{id: a, serial: 0, activities: [{package: p}]}]`, "needs package and class"},
		{"duplicate activity", `profiles: [{id: a, serial: 0, activities: [{package: p, class: c}, {package: p, class: c}]}]`, "twice"},
		{"bad yaml", `profiles: [`, "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatalf("Parse() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
