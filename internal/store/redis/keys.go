package redis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
)

const (
	// KeyFavorites is the list holding the ranked favorites, rank = index
	KeyFavorites = "easylaunch:favorites"
	// ChannelFavorites is notified after every favorites replacement
	ChannelFavorites = "easylaunch:favorites:changed"
	// KeyLaunchCounts is the hash of launch counters per activity
	KeyLaunchCounts = "easylaunch:launches"
)

// FavoritesKey returns the Redis key of the favorites list
func FavoritesKey() string {
	return KeyFavorites
}

// FavoritesChannel returns the pub/sub channel announcing favorites changes
func FavoritesChannel() string {
	return ChannelFavorites
}

// LaunchCountsKey returns the Redis key of the launch counters hash
func LaunchCountsKey() string {
	return KeyLaunchCounts
}

// LaunchField returns the hash field counting launches of id
func LaunchField(id domain.ActivityIdentitySer) string {
	return id.String()
}

// ParseLaunchField is the inverse of LaunchField.
func ParseLaunchField(field string) (domain.ActivityIdentitySer, error) {
	hash := strings.LastIndexByte(field, '#')
	if hash < 0 {
		return domain.ActivityIdentitySer{}, fmt.Errorf("launch field %q has no profile serial", field)
	}
	serial, err := strconv.ParseInt(field[hash+1:], 10, 64)
	if err != nil {
		return domain.ActivityIdentitySer{}, fmt.Errorf("launch field %q: %w", field, err)
	}
	pkg, class, ok := strings.Cut(field[:hash], "/")
	if !ok || pkg == "" || class == "" {
		return domain.ActivityIdentitySer{}, fmt.Errorf("launch field %q is not package/class#serial", field)
	}
	return domain.ActivityIdentitySer{Package: pkg, Class: class, ProfileSerial: domain.ProfileSerial(serial)}, nil
}
