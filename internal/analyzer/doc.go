// Package analyzer scores a kolam image on three heuristics and describes
// the result in plain sentences.
//
// # Metrics
//
//   - Symmetry: left half against the mirrored right half, both binarized.
//   - Line density: share of pixels on the Canny edge map.
//   - Complexity: number of external contours on that edge map.
//
// # Findings
//
// A Policy maps each metric through fixed thresholds to one sentence and
// appends its closing statements. CanonicalPolicy is the default;
// TieredPolicy adds a moderate symmetry tier with tighter cutoffs.
//
// # Small Images
//
// Images with a side below Options.MinSide are stretched up to it when
// Options.Upscale is set, and rejected with ErrImageTooSmall otherwise.
// Zero-area images are always rejected.
package analyzer
