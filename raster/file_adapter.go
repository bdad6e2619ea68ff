package raster

import (
	"bytes"
	"compress/gzip"
	"encoding/gob"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrBandMismatch is returned when an adapter's persisted band names do
// not equal BandNames.
var ErrBandMismatch = errors.New("raster: band name mismatch")

// FileAdapter is the default Adapter: one *mat.Dense per band, persisted
// to a single gob+gzip file per tile.
type FileAdapter struct {
	width, height    int
	originX, originY float64
	scaleX, scaleY   float64
	bands            [NumBands]*mat.Dense
	names            [NumBands]string
}

var _ Adapter = (*FileAdapter)(nil)

// NewFileAdapter allocates a zero-filled adapter of the given pixel size.
func NewFileAdapter(width, height int) *FileAdapter {
	fa := &FileAdapter{width: width, height: height, scaleX: 1, scaleY: 1}
	fa.names = BandNames
	for b := 0; b < NumBands; b++ {
		fa.bands[b] = mat.NewDense(height, width, nil)
	}
	return fa
}

// Width implements Adapter.
func (fa *FileAdapter) Width() int { return fa.width }

// Height implements Adapter.
func (fa *FileAdapter) Height() int { return fa.height }

// ScaleX implements Adapter.
func (fa *FileAdapter) ScaleX() float64 { return fa.scaleX }

// ScaleY implements Adapter.
func (fa *FileAdapter) ScaleY() float64 { return fa.scaleY }

// SetTransform implements Adapter.
func (fa *FileAdapter) SetTransform(originX, originY, scaleX, scaleY float64) {
	fa.originX, fa.originY, fa.scaleX, fa.scaleY = originX, originY, scaleX, scaleY
}

// PointCustomToPix implements Adapter.
func (fa *FileAdapter) PointCustomToPix(x, y float64) (px, py int) {
	if fa.scaleX == 0 || fa.scaleY == 0 {
		return 0, 0
	}
	return int(math.Floor((x - fa.originX) / fa.scaleX)),
		int(math.Floor((y - fa.originY) / fa.scaleY))
}

// PointPixToUTM implements Adapter.
func (fa *FileAdapter) PointPixToUTM(px, py int) (ux, uy float64) {
	return fa.originX + float64(px)*fa.scaleX, fa.originY + float64(py)*fa.scaleY
}

// IndexCustom implements Adapter.
func (fa *FileAdapter) IndexCustom(x, y float64) int {
	px, py := fa.PointCustomToPix(x, y)
	if px < 0 || py < 0 || px >= fa.width || py >= fa.height {
		return OutsideIndex
	}
	return py*fa.width + px
}

func (fa *FileAdapter) rowCol(index int) (row, col int) {
	return index / fa.width, index % fa.width
}

// BandAt implements Adapter.
func (fa *FileAdapter) BandAt(b Band, index int) float64 {
	r, c := fa.rowCol(index)
	return fa.bands[b].At(r, c)
}

// SetBandAt implements Adapter.
func (fa *FileAdapter) SetBandAt(b Band, index int, v float64) {
	r, c := fa.rowCol(index)
	fa.bands[b].Set(r, c, v)
}

// Names implements Adapter.
func (fa *FileAdapter) Names() []string {
	return fa.names[:]
}

// CopyMeta implements Adapter.
func (fa *FileAdapter) CopyMeta(other Adapter, w, h int) error {
	o, ok := other.(*FileAdapter)
	if !ok {
		return errors.New("raster: CopyMeta requires a *FileAdapter source")
	}
	fa.width, fa.height = w, h
	fa.originX, fa.originY = o.originX, o.originY
	fa.scaleX, fa.scaleY = o.scaleX, o.scaleY
	fa.names = o.names
	for b := 0; b < NumBands; b++ {
		fa.bands[b] = mat.NewDense(h, w, nil)
	}
	return nil
}

// gobImage is the on-disk representation of a FileAdapter.
type gobImage struct {
	Width, Height    int
	OriginX, OriginY float64
	ScaleX, ScaleY   float64
	Names            [NumBands]string
	Bands            [NumBands][]float64
}

// Save persists the adapter to path as gzip-compressed gob.
func (fa *FileAdapter) Save(path string) error {
	img := gobImage{
		Width: fa.width, Height: fa.height,
		OriginX: fa.originX, OriginY: fa.originY,
		ScaleX: fa.scaleX, ScaleY: fa.scaleY,
		Names: fa.names,
	}
	for b := 0; b < NumBands; b++ {
		img.Bands[b] = fa.bands[b].RawMatrix().Data
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if err := gob.NewEncoder(gz).Encode(img); err != nil {
		return errors.Wrap(err, "raster: encode tile")
	}
	if err := gz.Close(); err != nil {
		return errors.Wrap(err, "raster: close gzip writer")
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, "raster: write tile file")
	}
	return nil
}

// LoadFileAdapter reads a tile previously written by Save. It returns
// (nil, false, nil) if path does not exist; a missing tile on load is
// not an error.
func LoadFileAdapter(path string) (*FileAdapter, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(err, "raster: open tile file")
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, false, errors.Wrap(err, "raster: open gzip reader")
	}
	defer gz.Close()

	var img gobImage
	if err := gob.NewDecoder(gz).Decode(&img); err != nil && err != io.EOF {
		return nil, false, errors.Wrap(err, "raster: decode tile")
	}

	if img.Names != BandNames {
		return nil, false, errors.Wrapf(ErrBandMismatch, "got %v want %v", img.Names, BandNames)
	}

	fa := &FileAdapter{
		width: img.Width, height: img.Height,
		originX: img.OriginX, originY: img.OriginY,
		scaleX: img.ScaleX, scaleY: img.ScaleY,
		names: img.Names,
	}
	for b := 0; b < NumBands; b++ {
		fa.bands[b] = mat.NewDense(img.Height, img.Width, img.Bands[b])
	}
	return fa, true, nil
}
