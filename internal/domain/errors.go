package domain

import "errors"

// Icon lookup failures that are recovered by showing no icon.
var (
	ErrIconPermissionDenied = errors.New("icon: permission denied")
	ErrIconNotFound         = errors.New("icon: resource not found")
	ErrIconIndexOutOfBounds = errors.New("icon: index out of bounds")
)

var (
	// ErrLaunchRejected is returned when the OS refuses to start an activity.
	ErrLaunchRejected = errors.New("activity launch rejected")
	// ErrUnknownActivity is returned for identities absent from the catalog.
	ErrUnknownActivity = errors.New("unknown activity")
	// ErrDuplicateFavorite is returned when one activity is pinned twice.
	ErrDuplicateFavorite = errors.New("duplicate favorite")
)
