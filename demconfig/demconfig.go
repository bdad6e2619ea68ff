// Package demconfig holds the enumerated configuration options of the
// elevation mapper: the dynamic-merge toggle, the variance factor used by
// the flat/vertical classifier, and the tile dimensions.
package demconfig

import (
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
)

// DefaultVarianceFactor is the classifier threshold multiplier used when
// none is configured. Typical useful values are 4-10.
const DefaultVarianceFactor = 6.0

// Options configures a mapper.
type Options struct {
	// DynamicMerge selects the flat/vertical classify-and-reconcile
	// policy instead of plain accumulation.
	DynamicMerge bool `json:"dynamic_merge"`

	// VarianceFactor is the k in tau = k * mean_variance(scan).
	// Zero means DefaultVarianceFactor.
	VarianceFactor float64 `json:"variance_factor,omitempty"`

	// TileWidth and TileHeight are the sub-tile cell dimensions.
	// Zero means derive from the raster as width/3, height/3.
	TileWidth  int `json:"tile_width,omitempty"`
	TileHeight int `json:"tile_height,omitempty"`

	// TileDir is the directory persisted tiles live in.
	TileDir string `json:"tile_dir"`
}

// Validate ensures all parts of the config are valid. path names the
// config location being validated, for error reporting.
func (o *Options) Validate(path string) error {
	if o.TileDir == "" {
		return goutils.NewConfigValidationFieldRequiredError(path, "tile_dir")
	}
	if o.VarianceFactor == 0 {
		o.VarianceFactor = DefaultVarianceFactor
	}
	if o.VarianceFactor < 1 || o.VarianceFactor > 100 {
		return goutils.NewConfigValidationError(path,
			errors.Errorf("variance_factor %v out of range [1,100]", o.VarianceFactor))
	}
	if o.TileWidth < 0 || o.TileHeight < 0 {
		return goutils.NewConfigValidationError(path,
			errors.New("tile dimensions may not be negative"))
	}
	return nil
}

// DeriveTileSize fills in TileWidth/TileHeight from a raster's pixel
// dimensions when they were not configured explicitly.
func (o *Options) DeriveTileSize(rasterWidth, rasterHeight int) error {
	if o.TileWidth == 0 {
		o.TileWidth = rasterWidth / 3
	}
	if o.TileHeight == 0 {
		o.TileHeight = rasterHeight / 3
	}
	if o.TileWidth <= 0 || o.TileHeight <= 0 {
		return errors.Errorf("raster %dx%d too small to derive tile size", rasterWidth, rasterHeight)
	}
	return nil
}
