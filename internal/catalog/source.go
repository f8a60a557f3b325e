package catalog

import (
	"context"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
)

// Source is the platform collaborator that knows which activities are
// installed. The catalog service never caches anything it returns.
type Source interface {
	// Activities lists the launchable activities of one profile.
	Activities(ctx context.Context, profile domain.ProfileID) ([]domain.ActivityInfo, error)
	// Changes delivers install-state notifications until ctx is done.
	Changes(ctx context.Context) <-chan domain.ChangeEvent
}

// Profiles lists the profiles to enumerate. *profiles.Registry implements it.
type Profiles interface {
	Primary() domain.ProfileID
	Profiles() []domain.ProfileID
}
