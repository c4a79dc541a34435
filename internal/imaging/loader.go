package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// ErrImageFormat is returned when an image cannot be opened or decoded.
var ErrImageFormat = errors.New("imaging: unreadable image")

// ImageCache provides thread-safe caching of decoded images keyed by path.
//
// Each entry remembers the file's size and modification time. Load stats the
// file on every call and decodes again when either has changed, so a file
// overwritten in place is never served stale. Cached images stay in memory
// until replaced, Evict or Clear.
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/path/to/kolam.jpg")
//	if err != nil {
//	    return err
//	}
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]cachedImage
}

type cachedImage struct {
	img     image.Image
	size    int64
	modTime time.Time
}

// NewImageCache creates an empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]cachedImage),
	}
}

// Load retrieves an image from the cache or decodes it from disk.
//
// PNG, JPEG, GIF, BMP, TIFF and WebP are supported. JPEG EXIF orientation is applied, so a
// photo of a floor drawing taken in portrait comes back upright.
//
// The image is cached under the exact path string given; relative and
// absolute paths to the same file are separate entries.
//
// All failures wrap ErrImageFormat.
func (c *ImageCache) Load(path string) (image.Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		c.Evict(path)
		return nil, fmt.Errorf("%w: failed to open image: %w", ErrImageFormat, err)
	}

	c.mu.RLock()
	entry, ok := c.images[path]
	c.mu.RUnlock()
	if ok && entry.size == info.Size() && entry.modTime.Equal(info.ModTime()) {
		return entry.img, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open image: %w", ErrImageFormat, err)
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		c.Evict(path)
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = cachedImage{img: img, size: info.Size(), modTime: info.ModTime()}
	c.mu.Unlock()

	return img, nil
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]cachedImage)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
// If the path is not cached, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Decode reads one image from r, applying EXIF orientation.
// Failures wrap ErrImageFormat.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image: %w", ErrImageFormat, err)
	}
	return img, nil
}

// EncodePNGBase64 encodes img as PNG and returns it base64 encoded.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("failed to encode png: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels, after orientation is applied.
	Width int `json:"width"`

	// Height is the image height in pixels, after orientation is applied.
	Height int `json:"height"`

	// Format is "png", "jpeg", "gif", "tiff", "bmp" or "unknown".
	// Detection is based on the file extension, not its contents.
	Format string `json:"format"`

	// ColorDepth is "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the decoded image carries an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through cache and describes it.
//
// Color depth and alpha presence come from the decoded Go image type:
//   - *image.RGBA64, *image.NRGBA64, *image.Gray16 -> "16-bit"
//   - *image.RGBA, *image.NRGBA and their 16-bit forms have alpha
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	if f, err := imaging.FormatFromFilename(path); err == nil {
		format = strings.ToLower(f.String())
	}

	hasAlpha := false
	colorDepth := "8-bit"
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray16:
		colorDepth = "16-bit"
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		ColorDepth:    colorDepth,
		HasAlpha:      hasAlpha,
		FileSizeBytes: stat.Size(),
	}, nil
}
