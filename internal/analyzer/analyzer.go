package analyzer

import (
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"

	imgproc "github.com/ironsheep/kolam-tools-mcp/internal/imaging"
)

// ErrImageTooSmall is returned for zero-area images, and for images below
// Options.MinSide when upscaling is disabled.
var ErrImageTooSmall = errors.New("analyzer: image too small")

// Options controls one analysis run.
type Options struct {
	// CannyLow and CannyHigh are the hysteresis thresholds (0-255).
	CannyLow  int
	CannyHigh int

	// BinarizeLevel is the intensity at or above which a pixel counts as
	// white when comparing the two halves.
	BinarizeLevel uint8

	// MinSide is the smallest width or height analyzed as is.
	MinSide int

	// Upscale stretches a short side up to MinSide instead of failing.
	Upscale bool

	// Tiered selects TieredPolicy for the findings.
	Tiered bool
}

// DefaultOptions returns the thresholds used by the canonical analysis.
func DefaultOptions() Options {
	return Options{
		CannyLow:      imgproc.DefaultCannyLow,
		CannyHigh:     imgproc.DefaultCannyHigh,
		BinarizeLevel: 128,
		MinSide:       64,
		Upscale:       true,
	}
}

// Metrics are the three scalar measurements of an image.
type Metrics struct {
	// SymmetryScore is the fraction of matching binarized pixels between the
	// left half and the mirrored right half, in [0,1].
	SymmetryScore float64 `json:"symmetry_score"`

	// LineDensity is the fraction of pixels on the edge map, in [0,1].
	LineDensity float64 `json:"line_density"`

	// Complexity is the number of external contours on the edge map.
	Complexity int `json:"complexity"`
}

// Result is the outcome of Analyze.
type Result struct {
	Metrics

	Findings []string `json:"findings"`
	Policy   string   `json:"policy"`

	// Width and Height are the analyzed dimensions, after any upscaling.
	Width    int  `json:"width"`
	Height   int  `json:"height"`
	Upscaled bool `json:"upscaled"`

	// Edges is the binary edge map the density and complexity come from.
	Edges *image.Gray `json:"-"`
}

// Report joins the findings into the plain-text report, one paragraph each.
func (r *Result) Report() string {
	return strings.Join(r.Findings, "\n\n")
}

// Analyze measures img and maps the measurements to findings.
//
// The image is converted to grayscale first. Symmetry compares the left half
// with the horizontally flipped right half, both clipped to the narrower
// width (the centre column of an odd-width image is ignored) and binarized
// at opts.BinarizeLevel. Density and complexity come from a Canny edge map
// of the whole grayscale image.
func Analyze(img image.Image, opts Options) (*Result, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: image is %dx%d", ErrImageTooSmall, w, h)
	}

	minSide := opts.MinSide
	if minSide < 2 {
		minSide = 2
	}

	gray := imaging.Grayscale(img)
	upscaled := false
	if w < minSide || h < minSide {
		if !opts.Upscale {
			return nil, fmt.Errorf("%w: image is %dx%d, need at least %dx%d",
				ErrImageTooSmall, w, h, minSide, minSide)
		}
		w, h = max(w, minSide), max(h, minSide)
		gray = imaging.Resize(gray, w, h, imaging.Linear)
		upscaled = true
	}

	edges := imgproc.Canny(gray, opts.CannyLow, opts.CannyHigh)
	m := Metrics{
		SymmetryScore: symmetryScore(gray, opts.BinarizeLevel),
		LineDensity:   float64(imgproc.CountNonZero(edges)) / float64(w*h),
		Complexity:    len(imgproc.ExternalContours(edges)),
	}

	policy := PolicyFor(opts.Tiered)
	return &Result{
		Metrics:  m,
		Findings: policy.Findings(m),
		Policy:   policy.Name,
		Width:    w,
		Height:   h,
		Upscaled: upscaled,
		Edges:    edges,
	}, nil
}

// AnalyzeReader decodes an image from r and analyzes it. Decode failures
// wrap imaging.ErrImageFormat.
func AnalyzeReader(r io.Reader, opts Options) (*Result, error) {
	img, err := imgproc.Decode(r)
	if err != nil {
		return nil, err
	}
	return Analyze(img, opts)
}

// symmetryScore compares the binarized left half of gray with its mirrored
// right half. gray must be at least 2 pixels wide.
func symmetryScore(gray *image.NRGBA, level uint8) float64 {
	w, h := gray.Bounds().Dx(), gray.Bounds().Dy()
	mid := w / 2
	minw := min(mid, w-mid)

	left := imaging.Crop(gray, image.Rect(0, 0, minw, h))
	right := imaging.FlipH(imaging.Crop(gray, image.Rect(mid, 0, w, h)))
	right = imaging.Crop(right, image.Rect(0, 0, minw, h))

	lb := segment.Threshold(left, level)
	rb := segment.Threshold(right, level)

	matches := 0
	for y := 0; y < h; y++ {
		for x := 0; x < minw; x++ {
			if lb.GrayAt(x, y).Y == rb.GrayAt(x, y).Y {
				matches++
			}
		}
	}
	return float64(matches) / float64(minw*h)
}
