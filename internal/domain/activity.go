package domain

import "image"

// RawIcon is an icon as returned by the activity source.
type RawIcon struct {
	Image image.Image
	// Adaptive icons already carry their own background and framing.
	Adaptive bool
}

// IconLookup resolves the icon of an activity for a display density.
type IconLookup func(density int) (RawIcon, error)

// ActivityInfo is the raw descriptor of a launchable activity, as supplied
// by the activity source.
type ActivityInfo struct {
	Package string
	Class   string
	Profile ProfileID
	Label   string
	Icon    IconLookup
}

// ChangeKind tells whether packages were installed/updated or removed.
type ChangeKind int

const (
	ChangeUpsert ChangeKind = iota
	ChangeRemove
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeUpsert:
		return "upsert"
	case ChangeRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// ChangeEvent is an install-state notification for a set of packages in
// one profile.
type ChangeEvent struct {
	Packages []string
	Profile  ProfileID
	Kind     ChangeKind
}
