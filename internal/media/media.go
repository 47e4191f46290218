// Package media inspects and resizes the site's static images.
package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"strings"
	"sync"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// OGWidth is the width of generated social preview images.
	OGWidth     = 1200
	jpegQuality = 80
)

// Size is an image's pixel dimensions.
type Size struct {
	Width  int
	Height int
}

// Prober reads image dimensions from a static file tree and remembers them.
type Prober struct {
	fsys  fs.FS
	mu    sync.RWMutex
	sizes map[string]Size
}

// NewProber returns a Prober over fsys, the root of the static directory.
func NewProber(fsys fs.FS) *Prober {
	return &Prober{fsys: fsys, sizes: make(map[string]Size)}
}

// Size returns the dimensions of the local image at urlPath. Remote URLs and
// unreadable files report false.
func (p *Prober) Size(urlPath string) (Size, bool) {
	name, ok := LocalPath(urlPath)
	if !ok {
		return Size{}, false
	}
	p.mu.RLock()
	s, cached := p.sizes[name]
	p.mu.RUnlock()
	if cached {
		return s, s.Width > 0
	}

	s, err := decodeSize(p.fsys, name)
	if err != nil {
		s = Size{}
	}
	p.mu.Lock()
	p.sizes[name] = s
	p.mu.Unlock()
	return s, err == nil
}

// Open opens the local image at urlPath.
func (p *Prober) Open(urlPath string) (fs.File, error) {
	name, ok := LocalPath(urlPath)
	if !ok {
		return nil, fs.ErrNotExist
	}
	return p.fsys.Open(name)
}

func decodeSize(fsys fs.FS, name string) (Size, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return Size{}, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return Size{}, fmt.Errorf("decode %s: %w", name, err)
	}
	return Size{Width: cfg.Width, Height: cfg.Height}, nil
}

// LocalPath maps a site URL such as /public/images/a.webp or /images/a.webp
// to a path inside the static directory.
func LocalPath(urlPath string) (string, bool) {
	if urlPath == "" || strings.Contains(urlPath, "://") || strings.HasPrefix(urlPath, "//") {
		return "", false
	}
	name := strings.TrimPrefix(urlPath, "/")
	name = strings.TrimPrefix(name, "public/")
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	if !fs.ValidPath(name) || name == "." {
		return "", false
	}
	return name, true
}

// FitWidth decodes src, scales it down to maxWidth if it is wider and encodes
// the result as JPEG.
func FitWidth(src io.Reader, maxWidth int) ([]byte, Size, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, Size{}, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxWidth > 0 && w > maxWidth {
		newH := h * maxWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w, h = maxWidth, newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, Size{}, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), Size{Width: w, Height: h}, nil
}
