// Package images provides type definitions for the square network input sizes
// detectors are evaluated at.
package images

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ResolutionAlias names a network input size by its side length (e.g., "608").
type ResolutionAlias string

// Defines the network input sizes commonly used by single-stage detectors.
const (
	ResolutionAlias320  ResolutionAlias = "320"
	ResolutionAlias416  ResolutionAlias = "416"
	ResolutionAlias512  ResolutionAlias = "512"
	ResolutionAlias608  ResolutionAlias = "608"
	ResolutionAlias640  ResolutionAlias = "640"
	ResolutionAlias800  ResolutionAlias = "800"
	ResolutionAlias1024 ResolutionAlias = "1024"
	ResolutionAlias1280 ResolutionAlias = "1280"
)

// Family is the detector family an input size is customary for.
type Family string

const (
	FamilyYOLO Family = "yolo"
	FamilyDETR Family = "detr"
)

// Pixels describes the exact dimensions of a resolution.
type Pixels struct {
	Width  int `json:"width"  yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Resolution describes a network input size.
type Resolution struct {
	Alias    ResolutionAlias `json:"alias"    yaml:"alias"`
	Pixels   Pixels          `json:"pixels"   yaml:"pixels"`
	Families []Family        `json:"families" yaml:"families"`
}

// Size returns the side length of a square resolution.
func (r Resolution) Size() int {
	return r.Pixels.Width
}

// GetMegaPixels returns the megapixel count rounded to two decimal places.
func (r Resolution) GetMegaPixels() float64 {
	if r.Pixels.Width <= 0 || r.Pixels.Height <= 0 {
		return 0.0
	}
	mp := float64(r.Pixels.Width*r.Pixels.Height) / 1_000_000.0
	return math.Round(mp*100) / 100
}

// String returns a human-readable summary of the resolution.
func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d (%.2fMP)", r.Pixels.Width, r.Pixels.Height, r.GetMegaPixels())
}

func square(alias ResolutionAlias, side int, families ...Family) Resolution {
	return Resolution{
		Alias:    alias,
		Pixels:   Pixels{Width: side, Height: side},
		Families: families,
	}
}

// Resolutions stores all known input sizes keyed by alias.
var Resolutions = map[ResolutionAlias]Resolution{
	ResolutionAlias320:  square(ResolutionAlias320, 320, FamilyYOLO),
	ResolutionAlias416:  square(ResolutionAlias416, 416, FamilyYOLO),
	ResolutionAlias512:  square(ResolutionAlias512, 512, FamilyYOLO),
	ResolutionAlias608:  square(ResolutionAlias608, 608, FamilyYOLO),
	ResolutionAlias640:  square(ResolutionAlias640, 640, FamilyYOLO, FamilyDETR),
	ResolutionAlias800:  square(ResolutionAlias800, 800, FamilyYOLO, FamilyDETR),
	ResolutionAlias1024: square(ResolutionAlias1024, 1024, FamilyDETR),
	ResolutionAlias1280: square(ResolutionAlias1280, 1280, FamilyYOLO),
}

// GetAllResolutions returns every known input size ordered by side length.
func GetAllResolutions() []Resolution {
	all := make([]Resolution, 0, len(Resolutions))
	for _, res := range Resolutions {
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Size() < all[j].Size()
	})
	return all
}

// GetResolutionBySize retrieves the catalog entry for a side length.
// It returns the Resolution and true if found, otherwise an empty Resolution and false.
func GetResolutionBySize(size int) (Resolution, bool) {
	res, ok := Resolutions[ResolutionAlias(strconv.Itoa(size))]
	return res, ok
}

// ParseSize parses an input size written as "608" or "608x608".
//
// Arguments:
//   - s: The size to parse.
//
// Returns:
//   - int: The side length.
//   - error: Error if s is not a positive square size.
func ParseSize(s string) (int, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	w, h, square := strings.Cut(s, "x")

	size, err := strconv.Atoi(w)
	if err != nil {
		return 0, errors.Wrapf(err, "parse size %q", s)
	}
	if square {
		height, err := strconv.Atoi(h)
		if err != nil {
			return 0, errors.Wrapf(err, "parse size %q", s)
		}
		if height != size {
			return 0, errors.Errorf("size %q is not square", s)
		}
	}
	if size <= 0 {
		return 0, errors.Errorf("size %q must be positive", s)
	}
	return size, nil
}

// Label returns the label used for a size in reports and plots. Sizes outside
// the catalog are labelled by their dimensions alone.
func Label(size int) string {
	if res, ok := GetResolutionBySize(size); ok {
		return res.String()
	}
	return fmt.Sprintf("%dx%d", size, size)
}
