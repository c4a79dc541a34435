package imaging

import (
	"image"
	"image/color"
	"testing"
)

// grayFromRows builds a binary edge map from rows of '#' (edge) and '.'.
func grayFromRows(rows ...string) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, len(rows[0]), len(rows)))
	for y, row := range rows {
		for x, ch := range row {
			if ch == '#' {
				g.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return g
}

func TestFindContours_Empty(t *testing.T) {
	g := grayFromRows(
		".....",
		".....",
	)
	if got := FindContours(g); len(got) != 0 {
		t.Errorf("empty map: got %d contours", len(got))
	}
	if got := FindContours(image.NewGray(image.Rect(0, 0, 0, 0))); got != nil {
		t.Errorf("zero-area map: got %v", got)
	}
}

func TestFindContours_EightConnected(t *testing.T) {
	g := grayFromRows(
		"........",
		".#......",
		"..#...#.",
		"...#..#.",
		"........",
	)
	contours := FindContours(g)
	if len(contours) != 2 {
		t.Fatalf("got %d contours, want 2 (diagonal pixels join)", len(contours))
	}

	first := contours[0]
	if first.Pixels != 3 {
		t.Errorf("diagonal run: got %d pixels, want 3", first.Pixels)
	}
	if first.Bounds != image.Rect(1, 1, 4, 4) {
		t.Errorf("diagonal run bounds: got %v", first.Bounds)
	}
	for _, c := range contours {
		if !c.External {
			t.Errorf("contour %+v should be external", c)
		}
	}
}

func TestFindContours_NestedIsInternal(t *testing.T) {
	g := grayFromRows(
		".........",
		".#######.",
		".#.....#.",
		".#..#..#.",
		".#.....#.",
		".#######.",
		".........",
	)
	contours := FindContours(g)
	if len(contours) != 2 {
		t.Fatalf("got %d contours, want 2", len(contours))
	}
	if !contours[0].External {
		t.Error("outer ring should be external")
	}
	if contours[1].External {
		t.Error("dot inside the ring should be internal")
	}

	ext := ExternalContours(g)
	if len(ext) != 1 {
		t.Fatalf("ExternalContours: got %d, want 1", len(ext))
	}
	if ext[0].Pixels != 20 {
		t.Errorf("ring pixels: got %d, want 20", ext[0].Pixels)
	}
}

func TestFindContours_HoleConnectivity(t *testing.T) {
	// 8-connected ring whose corner is cut diagonally: background inside is
	// still 4-separated from the outside, so the inner dot stays internal.
	g := grayFromRows(
		".........",
		"..######.",
		".#.....#.",
		".#..#..#.",
		".#.....#.",
		".#######.",
		".........",
	)
	if n := len(ExternalContours(g)); n != 1 {
		t.Errorf("got %d external contours, want 1", n)
	}

	// A real 4-connected gap opens the hole
	g = grayFromRows(
		".........",
		".###.###.",
		".#.....#.",
		".#..#..#.",
		".#.....#.",
		".#######.",
		".........",
	)
	if n := len(ExternalContours(g)); n != 2 {
		t.Errorf("got %d external contours, want 2", n)
	}
}

func TestFindContours_TouchingBorder(t *testing.T) {
	g := grayFromRows(
		"###",
		"#.#",
		"###",
	)
	contours := FindContours(g)
	if len(contours) != 1 || !contours[0].External {
		t.Errorf("frame-hugging ring should be one external contour: %+v", contours)
	}
}

func TestFindContours_SubImageBounds(t *testing.T) {
	g := grayFromRows(
		"......",
		"......",
		"...##.",
		"......",
	)
	sub := g.SubImage(image.Rect(2, 1, 6, 4)).(*image.Gray)
	contours := FindContours(sub)
	if len(contours) != 1 {
		t.Fatalf("got %d contours, want 1", len(contours))
	}
	if contours[0].Bounds != image.Rect(3, 2, 5, 3) {
		t.Errorf("bounds: got %v, want in parent coordinates", contours[0].Bounds)
	}
}

func TestExternalContours_CannyRectangle(t *testing.T) {
	// Every outline fragment of a filled square hugs its boundary
	edges := Canny(createEdgeTestImage(100, 100), DefaultCannyLow, DefaultCannyHigh)
	ext := ExternalContours(edges)
	if len(ext) == 0 {
		t.Fatal("square produced no contours")
	}
	band := image.Rect(20, 20, 80, 80)
	for _, c := range ext {
		if !c.Bounds.In(band) {
			t.Errorf("contour %v strays from the square", c.Bounds)
		}
	}
}
