// Package pattern builds the geometry of kolam designs: the dot lattice, its
// border, and the motifs (diamonds, arcs, loops, lines) anchored on it.
//
// Everything here is a pure function of its parameters. Nothing is drawn; the
// render package consumes the Scene values produced by Generate.
//
// # Coordinate System
//
// Coordinates live on an abstract design plane measured in "spacing" units,
// with X increasing rightward and Y increasing upward (the diamond lattice
// grows downward, so its rows have negative Y). The renderer flips Y when
// mapping to pixels.
//
// # Layouts
//
// Two lattices are supported:
//   - Diamond: rows of 1, 3, 5, ... dots centred at x = 0, growing to a maximum
//     width and shrinking back (the "unsymmetrical dots" kolam).
//   - Square: an n×n grid with dots at (i*spacing, j*spacing).
//
// # Pattern Types
//
//   - straight-lines: full-length horizontal and vertical strokes
//   - connected-diamonds: a diamond in every cell, neighbours sharing corners
//   - diamond-arcs: connected diamonds closed off by border arcs
//   - loops: a loop around every dot
//   - mixed: diamonds and loops alternating on a checkerboard
//   - diamond-lattice: diamonds on the interior of a diamond layout, joined by
//     diagonal strokes
package pattern
