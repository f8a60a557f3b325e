package domain

import "fmt"

// Favorite is one persisted favorites entry.
type Favorite struct {
	Identity ActivityIdentitySer `json:"identity"`
	Rank     int                 `json:"rank"`
}

// FavoritesList is the ordered, persisted favorites list.
// It is always replaced wholesale, never patched.
type FavoritesList []Favorite

// NewFavoritesList ranks ids by their position.
func NewFavoritesList(ids []ActivityIdentitySer) FavoritesList {
	list := make(FavoritesList, len(ids))
	for i, id := range ids {
		list[i] = Favorite{Identity: id, Rank: i}
	}
	return list
}

// Validate checks that ranks are exactly 0..n-1 in order and that no
// activity appears twice.
func (l FavoritesList) Validate() error {
	seen := make(map[ActivityIdentitySer]struct{}, len(l))
	for i, fav := range l {
		if fav.Rank != i {
			return fmt.Errorf("favorite %s has rank %d at position %d", fav.Identity, fav.Rank, i)
		}
		if _, dup := seen[fav.Identity]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateFavorite, fav.Identity)
		}
		seen[fav.Identity] = struct{}{}
	}
	return nil
}

// Clone returns a copy safe to hand to another goroutine.
func (l FavoritesList) Clone() FavoritesList {
	if l == nil {
		return nil
	}
	out := make(FavoritesList, len(l))
	copy(out, l)
	return out
}
