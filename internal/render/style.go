package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidStyle is returned when a color, stroke width or canvas size
// cannot be used.
var ErrInvalidStyle = errors.New("render: invalid style")

// Default colors follow the traditional red-on-white kolam palette.
const (
	DefaultLineColor       = "#B22222"
	DefaultDotColor        = "#000000"
	DefaultBackgroundColor = "#FFFFFF"
	DefaultLineWidth       = 2.5
)

// Style holds the parsed drawing attributes shared by every backend.
type Style struct {
	Line       colorful.Color
	Dot        colorful.Color
	Background colorful.Color

	// LineWidth is the stroke width in output pixels.
	LineWidth float64

	// DotRadius is the radius of a lattice dot in output pixels.
	DotRadius float64

	ShowDots bool
}

// StyleOptions is the unparsed form of Style as it arrives from a caller.
// Empty strings and a zero LineWidth select the defaults.
type StyleOptions struct {
	LineColor       string
	DotColor        string
	BackgroundColor string
	LineWidth       float64
	HideDots        bool
}

// DefaultStyle returns the style used when a caller supplies no options.
func DefaultStyle() Style {
	s, _ := ParseStyle(StyleOptions{})
	return s
}

// ParseStyle validates o and converts it to a Style.
//
// Colors are hex strings in "#RRGGBB" or "#RGB" form; the leading '#' may be
// omitted. LineWidth must be positive when set.
func ParseStyle(o StyleOptions) (Style, error) {
	line, err := parseColor("line color", o.LineColor, DefaultLineColor)
	if err != nil {
		return Style{}, err
	}
	dot, err := parseColor("dot color", o.DotColor, DefaultDotColor)
	if err != nil {
		return Style{}, err
	}
	bg, err := parseColor("background color", o.BackgroundColor, DefaultBackgroundColor)
	if err != nil {
		return Style{}, err
	}

	width := o.LineWidth
	if width == 0 {
		width = DefaultLineWidth
	}
	if !(width > 0) || math.IsInf(width, 0) {
		return Style{}, fmt.Errorf("%w: line width %v must be positive", ErrInvalidStyle, o.LineWidth)
	}

	return Style{
		Line:       line,
		Dot:        dot,
		Background: bg,
		LineWidth:  width,
		DotRadius:  math.Max(2.5, 1.5*width),
		ShowDots:   !o.HideDots,
	}, nil
}

func parseColor(what, s, fallback string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		s = fallback
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: %s %q: %v", ErrInvalidStyle, what, s, err)
	}
	return c, nil
}

// opaque converts c to an 8-bit color with full alpha.
func opaque(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
