package domain

import "image"

// AppRecord is one entry of the app catalog.
//
// Records are built on each catalog refresh and never mutated afterwards.
// Identity is the only thing that matters when comparing two records: the
// label and icon are display metadata and may legitimately differ between
// refreshes for the same activity.
type AppRecord struct {
	Label    string
	Icon     image.Image // nil when the icon could not be resolved
	Identity ActivityIdentity
	Serial   ActivityIdentitySer
}

// Key returns the value records are hashed and compared on.
func (a AppRecord) Key() ActivityIdentity { return a.Identity }

// SameActivity reports whether a and b refer to the same activity.
func (a AppRecord) SameActivity(b AppRecord) bool { return a.Identity == b.Identity }

// IndexByIdentity builds a lookup table over apps.
func IndexByIdentity(apps []AppRecord) map[ActivityIdentity]AppRecord {
	idx := make(map[ActivityIdentity]AppRecord, len(apps))
	for _, app := range apps {
		idx[app.Key()] = app
	}
	return idx
}
