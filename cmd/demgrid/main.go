// Package main streams a directory of LAS scans through an elevation
// mapper, producing a tiled 2.5-D model on disk.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	goutils "go.viam.com/utils"

	"github.com/fieldcore/demgrid/demconfig"
	"github.com/fieldcore/demgrid/geoxform"
	"github.com/fieldcore/demgrid/lascloud"
	"github.com/fieldcore/demgrid/mapper"
)

var logger = golog.NewDevelopmentLogger("demgrid")

func main() {
	goutils.ContextualMain(mainWithArgs, logger)
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	flagSet := flag.NewFlagSet("demgrid", flag.ContinueOnError)
	scanDir := flagSet.String("scans", "", "directory of .las scans, streamed in name order")
	tileDir := flagSet.String("tiles", "tiles", "directory persisted tiles are written to")
	tileSize := flagSet.Int("tile-size", 300, "sub-tile width and height in cells")
	scale := flagSet.Float64("scale", 0.1, "cell size in meters")
	dynamic := flagSet.Bool("dynamic", false, "use the dynamic flat/vertical merge policy")
	varianceFactor := flagSet.Float64("variance-factor", demconfig.DefaultVarianceFactor,
		"variance threshold multiplier for the dynamic policy")
	if err := flagSet.Parse(args[1:]); err != nil {
		return err
	}
	if *scanDir == "" {
		return errors.New("a -scans directory is required")
	}

	if err := os.MkdirAll(*tileDir, 0o755); err != nil {
		return err
	}

	cfg := demconfig.Options{
		DynamicMerge:   *dynamic,
		VarianceFactor: *varianceFactor,
		TileWidth:      *tileSize,
		TileHeight:     *tileSize,
		TileDir:        *tileDir,
	}
	if err := cfg.Validate("demgrid"); err != nil {
		return err
	}

	affine := geoxform.WindowAffine{ScaleX: *scale, ScaleY: *scale}
	m, err := mapper.New(ctx, cfg, affine, logger, clock.New())
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(*scanDir)
	if err != nil {
		return err
	}
	scans := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".las") {
			return "", false
		}
		return filepath.Join(*scanDir, e.Name()), true
	})
	sort.Strings(scans)
	if len(scans) == 0 {
		return errors.Errorf("no .las scans found in %q", *scanDir)
	}

	// Scans are assumed already expressed in the world frame; an external
	// pose source would supply per-scan transforms here.
	xform := geoxform.IdentityAffine3D()

	for _, fn := range scans {
		if err := ctx.Err(); err != nil {
			break
		}
		cloud, err := lascloud.ReadFile(fn, logger)
		if err != nil {
			return err
		}
		res, err := m.IngestScan(ctx, cloud, xform)
		if err != nil {
			return err
		}
		if res.TileIOErr != nil {
			logger.Warnw("tile durability lost during slide", "scan", fn, "error", res.TileIOErr)
		}
		logger.Infow("merged scan",
			"file", filepath.Base(fn),
			"ingested", res.Ingested,
			"dropped_outside", res.DroppedOutside,
			"cells", res.CellsTouched,
			"slid", res.Slid,
		)
	}

	return m.Checkpoint(ctx)
}
