package manifest

import (
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
)

// iconLookup returns the icon loader of spec, or nil when it has none.
func iconLookup(baseDir string, spec ActivitySpec) domain.IconLookup {
	if spec.Icon == "" {
		return nil
	}

	path := spec.Icon
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	densities := slices.Clone(spec.Densities)
	adaptive := spec.Adaptive

	return func(density int) (domain.RawIcon, error) {
		if len(densities) > 0 && density > slices.Max(densities) {
			return domain.RawIcon{}, fmt.Errorf("%w: density %d, declared %v", domain.ErrIconIndexOutOfBounds, density, densities)
		}

		img, err := readPNG(path)
		if err != nil {
			return domain.RawIcon{}, err
		}
		return domain.RawIcon{Image: img, Adaptive: adaptive}, nil
	}
}

func readPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrPermission):
		return nil, fmt.Errorf("%w: %s", domain.ErrIconPermissionDenied, path)
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s", domain.ErrIconNotFound, path)
	case err != nil:
		return nil, fmt.Errorf("failed to open icon: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a readable image: %v", domain.ErrIconNotFound, path, err)
	}
	return img, nil
}
