package pattern

import (
	"fmt"
	"math"
	"sort"

	"github.com/jbeda/geom"
)

// Layout bounds. The largest lattice exposed is 12 rows or 12 dots per side.
const (
	MinMaxWidth = 3
	MaxMaxWidth = 11
	MinGridSize = 2
	MaxGridSize = 12
)

// floatTolerance is used for every coordinate comparison in this package.
const floatTolerance = 1e-6

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

// DotGrid is an ordered set of lattice dots organised into horizontal rows.
type DotGrid struct {
	// Points holds every dot in row-major order.
	Points []geom.Coord `json:"points"`

	// Rows lists the indices into Points belonging to each row, top row first.
	Rows [][]int `json:"rows"`

	// Spacing is the distance between neighbouring dots.
	Spacing float64 `json:"spacing"`
}

// Len returns the number of dots.
func (g *DotGrid) Len() int {
	return len(g.Points)
}

// RowCounts returns the number of dots in each row, top row first.
func (g *DotGrid) RowCounts() []int {
	counts := make([]int, len(g.Rows))
	for i, row := range g.Rows {
		counts[i] = len(row)
	}
	return counts
}

// diamondRowCount is the dot count of row i in a diamond layout of the given
// number of rows. rows is always maxWidth+1, so the widest row appears twice
// when rows is even.
func diamondRowCount(i, rows int) int {
	half := rows / 2
	if i < half {
		return 1 + 2*i
	}
	return 1 + 2*(rows-i-1)
}

// DiamondLayout builds the diamond-shaped lattice used by the diamond-lattice
// pattern.
//
// The layout has maxWidth+1 rows. Row i holds 1+2i dots in the upper half and
// 1+2(rows-i-1) dots in the lower half, centred on x = 0 and placed at
// y = -i*spacing. For maxWidth 5 the row counts are [1 3 5 5 3 1].
//
// maxWidth must be odd and in [MinMaxWidth, MaxMaxWidth]; spacing must be
// positive. Use ClampMaxWidth to coerce arbitrary input first.
func DiamondLayout(maxWidth int, spacing float64) (*DotGrid, error) {
	if maxWidth < MinMaxWidth || maxWidth > MaxMaxWidth || maxWidth%2 == 0 {
		return nil, fmt.Errorf("%w: max width %d must be odd and between %d and %d",
			ErrInvalidParameter, maxWidth, MinMaxWidth, MaxMaxWidth)
	}
	if !(spacing > 0) {
		return nil, fmt.Errorf("%w: spacing %v must be positive", ErrInvalidParameter, spacing)
	}

	rows := maxWidth + 1
	grid := &DotGrid{
		Points:  make([]geom.Coord, 0, rows*maxWidth),
		Rows:    make([][]int, 0, rows),
		Spacing: spacing,
	}

	for i := 0; i < rows; i++ {
		count := diamondRowCount(i, rows)
		offset := -float64(count-1) / 2 * spacing
		row := make([]int, 0, count)
		for j := 0; j < count; j++ {
			row = append(row, len(grid.Points))
			grid.Points = append(grid.Points, geom.Coord{
				X: offset + float64(j)*spacing,
				Y: -float64(i) * spacing,
			})
		}
		grid.Rows = append(grid.Rows, row)
	}

	return grid, nil
}

// SquareLayout builds an n×n lattice with dots at (i*spacing, j*spacing).
// Rows are ordered bottom (j = 0) to top.
func SquareLayout(n int, spacing float64) (*DotGrid, error) {
	if n < MinGridSize || n > MaxGridSize {
		return nil, fmt.Errorf("%w: grid size %d must be between %d and %d",
			ErrInvalidParameter, n, MinGridSize, MaxGridSize)
	}
	if !(spacing > 0) {
		return nil, fmt.Errorf("%w: spacing %v must be positive", ErrInvalidParameter, spacing)
	}

	grid := &DotGrid{
		Points:  make([]geom.Coord, 0, n*n),
		Rows:    make([][]int, 0, n),
		Spacing: spacing,
	}
	for j := 0; j < n; j++ {
		row := make([]int, 0, n)
		for i := 0; i < n; i++ {
			row = append(row, len(grid.Points))
			grid.Points = append(grid.Points, geom.Coord{X: float64(i) * spacing, Y: float64(j) * spacing})
		}
		grid.Rows = append(grid.Rows, row)
	}
	return grid, nil
}

// ClampMaxWidth coerces n to the nearest valid diamond max width: odd, at
// least MinMaxWidth and at most MaxMaxWidth. Even values round down.
func ClampMaxWidth(n int) int {
	if n > MaxMaxWidth {
		n = MaxMaxWidth
	}
	if n%2 == 0 {
		n--
	}
	if n < MinMaxWidth {
		n = MinMaxWidth
	}
	return n
}

// ClampGridSize coerces n into [MinGridSize, MaxGridSize].
func ClampGridSize(n int) int {
	if n < MinGridSize {
		return MinGridSize
	}
	if n > MaxGridSize {
		return MaxGridSize
	}
	return n
}

// BorderSet is a set of dot indices on the outer boundary of a lattice.
type BorderSet map[int]struct{}

// Contains reports whether index i is a border dot.
func (b BorderSet) Contains(i int) bool {
	_, ok := b[i]
	return ok
}

// Indices returns the border indices in ascending order.
func (b BorderSet) Indices() []int {
	out := make([]int, 0, len(b))
	for i := range b {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// FindBorder classifies the border of a set of dots. Rows are recovered from
// the Y coordinates; for every row the dots with the smallest and largest X
// are border dots, and a row holding a single dot contributes that dot.
func FindBorder(points []geom.Coord) BorderSet {
	type band struct {
		y        float64
		min, max int
	}
	bands := make([]band, 0)

	for idx, p := range points {
		found := false
		for b := range bands {
			if !almostEqual(bands[b].y, p.Y) {
				continue
			}
			if p.X < points[bands[b].min].X {
				bands[b].min = idx
			}
			if p.X > points[bands[b].max].X {
				bands[b].max = idx
			}
			found = true
			break
		}
		if !found {
			bands = append(bands, band{y: p.Y, min: idx, max: idx})
		}
	}

	border := make(BorderSet, 2*len(bands))
	for _, b := range bands {
		border[b.min] = struct{}{}
		border[b.max] = struct{}{}
	}
	return border
}

// Connection joins two dots by index. A is always less than B.
type Connection struct {
	A int `json:"a"`
	B int `json:"b"`
}

// DiagonalConnections returns every unordered pair of dots whose offset is
// exactly (±spacing, ±spacing), in index order.
func DiagonalConnections(points []geom.Coord, spacing float64) []Connection {
	conns := make([]Connection, 0)
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			dx := math.Abs(points[i].X - points[j].X)
			dy := math.Abs(points[i].Y - points[j].Y)
			if almostEqual(dx, spacing) && almostEqual(dy, spacing) {
				conns = append(conns, Connection{A: i, B: j})
			}
		}
	}
	return conns
}
