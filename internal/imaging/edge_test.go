package imaging

import (
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func TestEdgeDetect(t *testing.T) {
	// Black square on white: four strong edges
	img := createEdgeTestImage(100, 100)

	result, err := EdgeDetect(img, DefaultCannyLow, DefaultCannyHigh)
	if err != nil {
		t.Fatalf("EdgeDetect failed: %v", err)
	}

	if result.Width != 100 || result.Height != 100 {
		t.Errorf("dimensions: got %dx%d, want 100x100", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}
	if result.EdgePixels == 0 {
		t.Error("square outline produced no edge pixels")
	}

	decoded, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	edgeImg, err := png.Decode(strings.NewReader(string(decoded)))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	if edgeImg.Bounds().Dx() != 100 || edgeImg.Bounds().Dy() != 100 {
		t.Errorf("decoded image dimensions: got %dx%d, want 100x100",
			edgeImg.Bounds().Dx(), edgeImg.Bounds().Dy())
	}
}

func TestCanny_UniformImage(t *testing.T) {
	for _, c := range []color.Color{color.Black, color.White, color.RGBA{128, 128, 128, 255}} {
		edges := Canny(createInMemoryImage(50, 50, c), DefaultCannyLow, DefaultCannyHigh)
		if n := CountNonZero(edges); n != 0 {
			t.Errorf("uniform %v image: got %d edge pixels, want 0", c, n)
		}
	}
}

func TestCanny_ThresholdsOrdering(t *testing.T) {
	img := createEdgeTestImage(60, 60)

	loose := CountNonZero(Canny(img, 10, 50))
	strict := CountNonZero(Canny(img, 200, 250))
	if loose < strict {
		t.Errorf("lower thresholds found fewer edges: %d < %d", loose, strict)
	}
}

func TestCanny_StrongEdge(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if x < 50 {
				img.Set(x, y, color.Black)
			} else {
				img.Set(x, y, color.White)
			}
		}
	}

	edges := Canny(img, DefaultCannyLow, DefaultCannyHigh)

	edgeFound := false
	for x := 48; x <= 52; x++ {
		if edges.GrayAt(x, 50).Y == 255 {
			edgeFound = true
			break
		}
	}
	if !edgeFound {
		t.Error("strong vertical edge was not detected")
	}

	// nothing far from the boundary
	if edges.GrayAt(10, 50).Y != 0 || edges.GrayAt(90, 50).Y != 0 {
		t.Error("edge reported inside a flat region")
	}
}

func TestCanny_BorderNeverMarked(t *testing.T) {
	// Content touching the frame still leaves the outermost pixels clear
	img := createInMemoryImage(40, 40, color.White)
	for y := 0; y < 40; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.Black)
		}
	}
	edges := Canny(img, DefaultCannyLow, DefaultCannyHigh)
	for i := 0; i < 40; i++ {
		for _, p := range []image.Point{{i, 0}, {i, 39}, {0, i}, {39, i}} {
			if edges.GrayAt(p.X, p.Y).Y != 0 {
				t.Fatalf("border pixel %v marked as edge", p)
			}
		}
	}
}

func TestCanny_OffsetBounds(t *testing.T) {
	full := createEdgeTestImage(80, 80)
	sub := full.SubImage(image.Rect(10, 10, 70, 70))

	edges := Canny(sub, DefaultCannyLow, DefaultCannyHigh)
	if edges.Bounds() != image.Rect(0, 0, 60, 60) {
		t.Errorf("bounds: got %v, want origin-based 60x60", edges.Bounds())
	}
}

func TestCanny_SmallImage(t *testing.T) {
	// Convolution windows larger than the image
	edges := Canny(createInMemoryImage(3, 2, color.White), DefaultCannyLow, DefaultCannyHigh)
	if edges.Bounds().Dx() != 3 || edges.Bounds().Dy() != 2 {
		t.Errorf("dimensions: got %v", edges.Bounds())
	}
}

func TestGaussianBlur(t *testing.T) {
	p := newPlane(10, 10)
	for i := range p.pix {
		p.pix[i] = 0.5
	}

	blurred := gaussianBlur(p)

	// Uniform input stays uniform, border replication included
	for i, v := range blurred.pix {
		if absFloat(v-0.5) > 1e-9 {
			t.Fatalf("blurred[%d]: got %.6f, want 0.5", i, v)
		}
	}
}

func TestGaussianBlur_WithSpot(t *testing.T) {
	p := newPlane(11, 11)
	p.set(5, 5, 1.0)

	blurred := gaussianBlur(p)

	if blurred.at(5, 5) >= 1.0 {
		t.Error("bright spot should be reduced after blur")
	}
	if blurred.at(4, 5) == 0 || blurred.at(6, 5) == 0 || blurred.at(5, 4) == 0 || blurred.at(5, 6) == 0 {
		t.Error("neighbors should receive some brightness from blur")
	}
	if blurred.at(4, 5) != blurred.at(6, 5) {
		t.Error("blur should be symmetric")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, want int
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tt := range tests {
		got := clamp(tt.val, tt.min, tt.max)
		if got != tt.want {
			t.Errorf("clamp(%d, %d, %d): got %d, want %d",
				tt.val, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestCountNonZero(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 5, 5))
	g.SetGray(1, 1, color.Gray{Y: 255})
	g.SetGray(4, 4, color.Gray{Y: 1})
	if n := CountNonZero(g); n != 2 {
		t.Errorf("CountNonZero: got %d, want 2", n)
	}

	sub := g.SubImage(image.Rect(2, 2, 5, 5)).(*image.Gray)
	if n := CountNonZero(sub); n != 1 {
		t.Errorf("CountNonZero on sub-image: got %d, want 1", n)
	}
}

// createEdgeTestImage creates a black square on a white background.
func TestCanny_DiagonalEdgesStayThin(t *testing.T) {
	// Filled 45 degree diamond: every boundary pixel has a diagonal gradient
	const size, radius = 200, 60
	img := createDiamondTestImage(size, radius)
	edges := Canny(img, 50, 150)

	for y := size/2 - 40; y <= size/2+40; y += 10 {
		left, right := 0, 0
		for x := 0; x < size; x++ {
			if edges.GrayAt(x, y).Y == 0 {
				continue
			}
			if x < size/2 {
				left++
			} else {
				right++
			}
		}
		if left < 1 || left > 3 || right < 1 || right > 3 {
			t.Errorf("row %d: got %d left and %d right edge pixels, want 1-3 per crossing", y, left, right)
		}
	}

	// Each side spans radius rows at about two pixels per row.
	if n := CountNonZero(edges); n > 5*2*radius {
		t.Errorf("diamond outline too thick: %d edge pixels", n)
	}
}

func createDiamondTestImage(size, radius int) *image.RGBA {
	img := createInMemoryImage(size, size, color.White)
	c := size / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := x-c, y-c
			if dx < 0 {
				dx = -dx
			}
			if dy < 0 {
				dy = -dy
			}
			if dx+dy <= radius {
				img.Set(x, y, color.Black)
			}
		}
	}
	return img
}

func createEdgeTestImage(width, height int) *image.RGBA {
	img := createInMemoryImage(width, height, color.White)
	for y := height / 4; y < 3*height/4; y++ {
		for x := width / 4; x < 3*width/4; x++ {
			img.Set(x, y, color.Black)
		}
	}
	return img
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
