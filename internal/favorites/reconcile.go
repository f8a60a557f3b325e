package favorites

import (
	"slices"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
)

// Deserializer turns a persisted identity back into a live one.
type Deserializer interface {
	Deserialize(ser domain.ActivityIdentitySer) (domain.ActivityIdentity, bool)
}

// DropReason explains why a persisted favorite was left out.
type DropReason string

const (
	DropUnknownProfile DropReason = "unknown_profile"
	DropNotInstalled   DropReason = "not_installed"
)

// Dropped is a persisted favorite that could not be matched.
type Dropped struct {
	Favorite domain.Favorite
	Reason   DropReason
}

// Reconcile matches list against apps. Entries are walked in rank order;
// entries whose profile is gone or whose activity is not installed are
// skipped and reported in dropped. Reinstalling the app brings the entry
// back on the next call since identities are stable.
func Reconcile(apps []domain.AppRecord, list domain.FavoritesList, ids Deserializer) (favorites []domain.AppRecord, dropped []Dropped) {
	ordered := slices.Clone(list)
	slices.SortStableFunc(ordered, func(a, b domain.Favorite) int { return a.Rank - b.Rank })

	installed := domain.IndexByIdentity(apps)
	favorites = make([]domain.AppRecord, 0, len(ordered))

	for _, fav := range ordered {
		id, ok := ids.Deserialize(fav.Identity)
		if !ok {
			dropped = append(dropped, Dropped{Favorite: fav, Reason: DropUnknownProfile})
			continue
		}
		app, ok := installed[id]
		if !ok {
			dropped = append(dropped, Dropped{Favorite: fav, Reason: DropNotInstalled})
			continue
		}
		favorites = append(favorites, app)
	}

	return favorites, dropped
}
