package catalog

import (
	"errors"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
)

// toleratedIconErrors are the only icon failures that degrade to "no icon".
// Anything else fails the refresh.
var toleratedIconErrors = []struct {
	err  error
	kind string
}{
	{domain.ErrIconPermissionDenied, "permission_denied"},
	{domain.ErrIconNotFound, "not_found"},
	{domain.ErrIconIndexOutOfBounds, "index_out_of_bounds"},
}

// iconOrNil runs lookup and substitutes an empty icon for tolerated
// failures. fallback names the failure kind when that happened.
func iconOrNil(lookup domain.IconLookup, density int) (icon domain.RawIcon, fallback string, err error) {
	if lookup == nil {
		return domain.RawIcon{}, "", nil
	}

	icon, err = lookup(density)
	if err == nil {
		return icon, "", nil
	}
	for _, t := range toleratedIconErrors {
		if errors.Is(err, t.err) {
			return domain.RawIcon{}, t.kind, nil
		}
	}
	return domain.RawIcon{}, "", err
}
