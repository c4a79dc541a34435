package imaging

import (
	"image"
)

// Contour is one 8-connected group of edge pixels.
type Contour struct {
	// Bounds is the smallest rectangle containing every pixel.
	Bounds image.Rectangle `json:"bounds"`

	// Pixels is the number of edge pixels in the group.
	Pixels int `json:"pixels"`

	// External is true when the group is not enclosed by another group: it
	// touches the image border or the background region connected to it.
	External bool `json:"external"`
}

// FindContours groups the non-zero pixels of edges into 8-connected
// contours, in raster order of their first pixel.
//
// Background pixels (zero) are connected 4-ways. A contour is external when
// it touches the image border or is 4-adjacent to background that reaches
// the border; contours that only border enclosed holes are internal.
func FindContours(edges *image.Gray) []Contour {
	b := edges.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	on := func(x, y int) bool {
		return edges.Pix[y*edges.Stride+x] != 0
	}

	outside := outerBackground(w, h, on)
	visited := make([]bool, w*h)
	contours := make([]Contour, 0)
	stack := make([]image.Point, 0, 64)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !on(x, y) || visited[y*w+x] {
				continue
			}

			c := Contour{Bounds: image.Rect(x, y, x+1, y+1)}
			visited[y*w+x] = true
			stack = append(stack[:0], image.Point{X: x, Y: y})

			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				c.Pixels++
				c.Bounds = c.Bounds.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))

				if p.X == 0 || p.Y == 0 || p.X == w-1 || p.Y == h-1 {
					c.External = true
				}

				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						nx, ny := p.X+dx, p.Y+dy
						if nx < 0 || nx >= w || ny < 0 || ny >= h {
							continue
						}
						if !on(nx, ny) {
							if (dx == 0 || dy == 0) && outside[ny*w+nx] {
								c.External = true
							}
							continue
						}
						if visited[ny*w+nx] {
							continue
						}
						visited[ny*w+nx] = true
						stack = append(stack, image.Point{X: nx, Y: ny})
					}
				}
			}

			contours = append(contours, c)
		}
	}

	// Report positions in the caller's coordinate space.
	if b.Min != (image.Point{}) {
		for i := range contours {
			contours[i].Bounds = contours[i].Bounds.Add(b.Min)
		}
	}
	return contours
}

// ExternalContours returns only the contours not enclosed by another one.
func ExternalContours(edges *image.Gray) []Contour {
	all := FindContours(edges)
	out := all[:0]
	for _, c := range all {
		if c.External {
			out = append(out, c)
		}
	}
	return out
}

// outerBackground flood-fills, 4-connected, every background pixel reachable
// from the image border.
func outerBackground(w, h int, on func(x, y int) bool) []bool {
	outside := make([]bool, w*h)
	stack := make([]image.Point, 0, 2*(w+h))

	seed := func(x, y int) {
		if !on(x, y) && !outside[y*w+x] {
			outside[y*w+x] = true
			stack = append(stack, image.Point{X: x, Y: y})
		}
	}
	for x := 0; x < w; x++ {
		seed(x, 0)
		seed(x, h-1)
	}
	for y := 0; y < h; y++ {
		seed(0, y)
		seed(w-1, y)
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, d := range [4]image.Point{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}} {
			nx, ny := p.X+d.X, p.Y+d.Y
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			seed(nx, ny)
		}
	}
	return outside
}
