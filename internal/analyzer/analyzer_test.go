package analyzer

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	imgproc "github.com/ironsheep/kolam-tools-mcp/internal/imaging"
)

func filled(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// noise returns a reproducible random grayscale image.
func noise(w, h int, seed int64) *image.Gray {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	return img
}

// mirrored makes img left-right symmetric by copying its left half over
// the right half.
func mirrored(img *image.Gray) *image.Gray {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w/2; x++ {
			img.SetGray(w-1-x, y, img.GrayAt(x, y))
		}
	}
	return img
}

func TestAnalyze_BlackImage(t *testing.T) {
	res, err := Analyze(filled(100, 80, color.Black), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 1.0, res.SymmetryScore)
	assert.Equal(t, 0.0, res.LineDensity)
	assert.Equal(t, 0, res.Complexity)
	assert.Equal(t, "canonical", res.Policy)
	assert.False(t, res.Upscaled)

	assert.Equal(t, []string{
		"The Kolam shows high bilateral symmetry, symbolizing balance and harmony.",
		"The design has light linework, reflecting minimalism and simplicity.",
		"The Kolam is simple and elegant, focusing on fundamental forms.",
		"The dots and connecting lines reflect continuity and unity in Kolam traditions.",
		"The structure indicates repetition and rhythm, symbolizing infinite cycles in nature.",
	}, res.Findings)

	require.NotNil(t, res.Edges)
	assert.Equal(t, image.Rect(0, 0, 100, 80), res.Edges.Bounds())
}

func TestAnalyze_BlackImageTiered(t *testing.T) {
	opts := DefaultOptions()
	opts.Tiered = true
	res, err := Analyze(filled(70, 70, color.Black), opts)
	require.NoError(t, err)

	assert.Equal(t, "tiered", res.Policy)
	assert.Equal(t, []string{
		"High bilateral symmetry: strong left-right balance.",
		"Light linework indicating minimal or geometric style.",
		"Simple and elegant design.",
		"Dots and continuous lines reflect continuity and rhythm.",
	}, res.Findings)
}

func TestAnalyze_MirrorSymmetric(t *testing.T) {
	for _, w := range []int{64, 101} {
		res, err := Analyze(mirrored(noise(w, 90, int64(w))), DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, 1.0, res.SymmetryScore, "width %d", w)
	}
}

func TestAnalyze_OppositeHalves(t *testing.T) {
	img := filled(80, 80, color.White)
	for y := 0; y < 80; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.Black)
		}
	}

	res, err := Analyze(img, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.SymmetryScore)
	assert.Equal(t, "The Kolam displays asymmetry, suggesting a creative interpretation.", res.Findings[0])
	assert.Greater(t, res.LineDensity, 0.0)
	assert.GreaterOrEqual(t, res.Complexity, 1)
}

func TestAnalyze_Idempotent(t *testing.T) {
	img := noise(120, 90, 7)

	a, err := Analyze(img, DefaultOptions())
	require.NoError(t, err)
	b, err := Analyze(img, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, a.Metrics, b.Metrics)
	assert.Equal(t, a.Findings, b.Findings)
}

func TestAnalyze_MetricRanges(t *testing.T) {
	res, err := Analyze(noise(96, 96, 3), DefaultOptions())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.SymmetryScore, 0.0)
	assert.LessOrEqual(t, res.SymmetryScore, 1.0)
	assert.GreaterOrEqual(t, res.LineDensity, 0.0)
	assert.LessOrEqual(t, res.LineDensity, 1.0)
	assert.Equal(t, res.LineDensity, float64(imgproc.CountNonZero(res.Edges))/float64(96*96))
}

func TestAnalyze_SeparateShapesCount(t *testing.T) {
	img := filled(200, 120, color.White)
	for i := 0; i < 3; i++ {
		x0 := 20 + i*60
		for y := 40; y < 80; y++ {
			for x := x0; x < x0+40; x++ {
				img.Set(x, y, color.Black)
			}
		}
	}

	res, err := Analyze(img, DefaultOptions())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Complexity, 3)
}

func TestAnalyze_DiagonalOutlineIsOneShape(t *testing.T) {
	img := filled(160, 160, color.White)
	for y := 0; y < 160; y++ {
		for x := 0; x < 160; x++ {
			dx, dy := x-80, y-80
			if dx < 0 {
				dx = -dx
			}
			if dy < 0 {
				dy = -dy
			}
			if dx+dy <= 50 {
				img.Set(x, y, color.Black)
			}
		}
	}

	res, err := Analyze(img, DefaultOptions())
	require.NoError(t, err)
	assert.LessOrEqual(t, res.Complexity, 2)
	assert.Less(t, res.LineDensity, 0.03)
}

func TestAnalyze_SmallImage(t *testing.T) {
	opts := DefaultOptions()

	res, err := Analyze(filled(10, 100, color.White), opts)
	require.NoError(t, err)
	assert.True(t, res.Upscaled)
	assert.Equal(t, 64, res.Width)
	assert.Equal(t, 100, res.Height)

	opts.Upscale = false
	_, err = Analyze(filled(10, 100, color.White), opts)
	assert.ErrorIs(t, err, ErrImageTooSmall)

	res, err = Analyze(filled(64, 64, color.White), opts)
	require.NoError(t, err)
	assert.False(t, res.Upscaled)
}

func TestAnalyze_ZeroArea(t *testing.T) {
	opts := DefaultOptions()
	_, err := Analyze(image.NewRGBA(image.Rect(0, 0, 0, 10)), opts)
	assert.ErrorIs(t, err, ErrImageTooSmall)
}

func TestAnalyzeReader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, filled(64, 64, color.Black)))

	res, err := AnalyzeReader(&buf, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.SymmetryScore)

	_, err = AnalyzeReader(strings.NewReader("not an image"), DefaultOptions())
	assert.ErrorIs(t, err, imgproc.ErrImageFormat)
}

func TestResult_Report(t *testing.T) {
	r := &Result{Findings: []string{"one.", "two.", "three."}}
	assert.Equal(t, "one.\n\ntwo.\n\nthree.", r.Report())
	assert.Equal(t, "", (&Result{}).Report())
}
