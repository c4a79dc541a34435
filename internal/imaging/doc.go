// Package imaging loads raster images and extracts their line structure.
//
// It provides a path-keyed decode cache (with EXIF orientation applied), a
// Canny edge detector producing binary *image.Gray maps, and connected
// component contour extraction over those maps. The analyzer builds its
// density and complexity measurements on these; the MCP server exposes the
// loader and edge detector directly.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left, X increasing
// rightward and Y increasing downward. Edge maps always start at (0,0);
// contour bounds are reported in the coordinate space of the map passed in.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Canny and FindContours are
// stateless and allocate their own buffers.
//
// # Error Handling
//
// Every load or decode failure wraps ErrImageFormat, so callers can report
// "unreadable image" without inspecting the underlying cause.
package imaging
