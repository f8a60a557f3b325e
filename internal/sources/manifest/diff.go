package manifest

import (
	"slices"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
)

// Diff computes the change events that turn old into next: per profile,
// one upsert event with new or modified packages and one remove event with
// packages that disappeared.
func Diff(old, next *Manifest) []domain.ChangeEvent {
	var events []domain.ChangeEvent

	for _, id := range profileIDs(old, next) {
		before := packagesOf(old.profile(id))
		after := packagesOf(next.profile(id))

		var upserts, removes []string
		for pkg, acts := range after {
			if prev, ok := before[pkg]; !ok || !slices.EqualFunc(prev, acts, sameActivity) {
				upserts = append(upserts, pkg)
			}
		}
		for pkg := range before {
			if _, ok := after[pkg]; !ok {
				removes = append(removes, pkg)
			}
		}

		if len(upserts) > 0 {
			slices.Sort(upserts)
			events = append(events, domain.ChangeEvent{Packages: upserts, Profile: domain.ProfileID(id), Kind: domain.ChangeUpsert})
		}
		if len(removes) > 0 {
			slices.Sort(removes)
			events = append(events, domain.ChangeEvent{Packages: removes, Profile: domain.ProfileID(id), Kind: domain.ChangeRemove})
		}
	}

	return events
}

// profileIDs lists profiles of both manifests, in declaration order.
func profileIDs(manifests ...*Manifest) []string {
	var ids []string
	seen := map[string]bool{}
	for _, m := range manifests {
		if m == nil {
			continue
		}
		for _, p := range m.Profiles {
			if !seen[p.ID] {
				seen[p.ID] = true
				ids = append(ids, p.ID)
			}
		}
	}
	return ids
}

func packagesOf(p *ProfileSpec) map[string][]ActivitySpec {
	out := map[string][]ActivitySpec{}
	if p == nil {
		return out
	}
	for _, a := range p.Activities {
		out[a.Package] = append(out[a.Package], a)
	}
	return out
}

func sameActivity(a, b ActivitySpec) bool {
	return a.Package == b.Package &&
		a.Class == b.Class &&
		a.Label == b.Label &&
		a.Icon == b.Icon &&
		a.Adaptive == b.Adaptive &&
		slices.Equal(a.Densities, b.Densities) &&
		slices.Equal(a.Exec, b.Exec)
}
