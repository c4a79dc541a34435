package imaging

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Default Canny thresholds, tuned for line drawings on a plain ground.
const (
	DefaultCannyLow  = 50
	DefaultCannyHigh = 150
)

// EdgeDetectResult contains an edge map encoded as base64 PNG.
//
// White pixels (255) are edges and black pixels (0) are not.
type EdgeDetectResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// EdgePixels is the number of white pixels in the map.
	EdgePixels int `json:"edge_pixels"`

	// ImageBase64 is the edge map encoded as base64 PNG.
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png".
	MimeType string `json:"mime_type"`
}

// EdgeDetect runs Canny and returns the encoded edge map.
func EdgeDetect(img image.Image, thresholdLow, thresholdHigh int) (*EdgeDetectResult, error) {
	edges := Canny(img, thresholdLow, thresholdHigh)
	encoded, err := EncodePNGBase64(edges)
	if err != nil {
		return nil, err
	}
	b := edges.Bounds()
	return &EdgeDetectResult{
		Width:       b.Dx(),
		Height:      b.Dy(),
		EdgePixels:  CountNonZero(edges),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// Canny computes a binary edge map of img. The result has origin (0,0) and
// the same size as img; edge pixels are 255, everything else 0.
//
// Thresholds are on the 0-255 intensity scale and compared against the
// Sobel gradient magnitude of the blurred image.
//
//  1. Grayscale (BT.601 luma).
//  2. 5x5 Gaussian blur, sigma about 1.4.
//  3. Sobel gradients, magnitude and direction.
//  4. Non-maximum suppression along the gradient direction, which thins
//     edges to one pixel. The outermost row and column never hold edges.
//  5. Hysteresis: pixels at or above thresholdHigh seed edges, which then
//     grow through 8-connected pixels at or above thresholdLow.
func Canny(img image.Image, thresholdLow, thresholdHigh int) *image.Gray {
	gray := imaging.Grayscale(img)
	width, height := gray.Bounds().Dx(), gray.Bounds().Dy()
	out := image.NewGray(image.Rect(0, 0, width, height))
	if width == 0 || height == 0 {
		return out
	}

	lum := newPlane(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Grayscale leaves R=G=B, so any channel is the luma.
			lum.set(x, y, float64(gray.Pix[y*gray.Stride+x*4])/255.0)
		}
	}

	blurred := gaussianBlur(lum)
	magnitude, direction := sobel(blurred)
	thin := suppressNonMaxima(magnitude, direction)
	hysteresis(thin, out, float64(thresholdLow)/255.0, float64(thresholdHigh)/255.0)
	return out
}

// CountNonZero returns the number of non-zero pixels in g.
func CountNonZero(g *image.Gray) int {
	n := 0
	b := g.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := g.Pix[(y-b.Min.Y)*g.Stride : (y-b.Min.Y)*g.Stride+b.Dx()]
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

// plane is a dense float image with clamped (replicated border) reads.
type plane struct {
	w, h int
	pix  []float64
}

func newPlane(w, h int) *plane {
	return &plane{w: w, h: h, pix: make([]float64, w*h)}
}

func (p *plane) at(x, y int) float64 {
	return p.pix[clamp(y, 0, p.h-1)*p.w+clamp(x, 0, p.w-1)]
}

func (p *plane) set(x, y int, v float64) {
	p.pix[y*p.w+x] = v
}

var gaussianKernel = [5][5]float64{
	{1, 4, 7, 4, 1},
	{4, 16, 26, 16, 4},
	{7, 26, 41, 26, 7},
	{4, 16, 26, 16, 4},
	{1, 4, 7, 4, 1},
}

const gaussianKernelSum = 273.0

func gaussianBlur(src *plane) *plane {
	dst := newPlane(src.w, src.h)
	for y := 0; y < src.h; y++ {
		for x := 0; x < src.w; x++ {
			var sum float64
			for ky := -2; ky <= 2; ky++ {
				for kx := -2; kx <= 2; kx++ {
					sum += src.at(x+kx, y+ky) * gaussianKernel[ky+2][kx+2]
				}
			}
			dst.set(x, y, sum/gaussianKernelSum)
		}
	}
	return dst
}

var (
	sobelX = [3][3]float64{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	sobelY = [3][3]float64{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}
)

func sobel(src *plane) (magnitude, direction *plane) {
	magnitude = newPlane(src.w, src.h)
	direction = newPlane(src.w, src.h)
	for y := 0; y < src.h; y++ {
		for x := 0; x < src.w; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := src.at(x+kx, y+ky)
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			magnitude.set(x, y, math.Sqrt(gx*gx+gy*gy))
			direction.set(x, y, math.Atan2(gy, gx))
		}
	}
	return magnitude, direction
}

func suppressNonMaxima(magnitude, direction *plane) *plane {
	w, h := magnitude.w, magnitude.h
	out := newPlane(w, h)
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			angle := direction.at(x, y)
			mag := magnitude.at(x, y)

			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = magnitude.at(x-1, y), magnitude.at(x+1, y)
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				// y grows downward, so a positive angle points along (+1,+1)
				n1, n2 = magnitude.at(x+1, y+1), magnitude.at(x-1, y-1)
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = magnitude.at(x, y-1), magnitude.at(x, y+1)
			default:
				n1, n2 = magnitude.at(x-1, y+1), magnitude.at(x+1, y-1)
			}

			if mag >= n1 && mag >= n2 {
				out.set(x, y, mag)
			}
		}
	}
	return out
}

// hysteresis marks strong pixels in out and grows them through weak ones.
func hysteresis(thin *plane, out *image.Gray, low, high float64) {
	w, h := thin.w, thin.h
	stack := make([]image.Point, 0, 64)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := thin.pix[y*w+x]
			if v <= 0 || v < high || out.Pix[y*out.Stride+x] != 0 {
				continue
			}
			out.Pix[y*out.Stride+x] = 255
			stack = append(stack[:0], image.Point{X: x, Y: y})
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := p.X+dx, p.Y+dy
						if nx < 0 || nx >= w || ny < 0 || ny >= h {
							continue
						}
						nv := thin.pix[ny*w+nx]
						if nv <= 0 || nv < low || out.Pix[ny*out.Stride+nx] != 0 {
							continue
						}
						out.Pix[ny*out.Stride+nx] = 255
						stack = append(stack, image.Point{X: nx, Y: ny})
					}
				}
			}
		}
	}
}

func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
