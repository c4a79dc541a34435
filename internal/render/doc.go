// Package render turns a pattern.Scene into pixels or vector markup.
//
// A scene is first flattened into an ordered list of Commands (lines,
// polygons, arcs, circles and dots in design-plane coordinates). The raster
// backend fills anti-aliased stroke polygons with golang.org/x/image/vector
// and encodes PNG; the vector backend writes SVG through svgo. Both fit the
// scene bounds into a square canvas with a margin and flip Y so the design
// plane's "up" is up in the output.
package render
