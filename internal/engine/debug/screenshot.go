package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Screenshots writes PNG captures of the framebuffer to a directory.
type Screenshots struct {
	Dir    string
	Prefix string

	now func() time.Time
}

// NewScreenshots creates a writer for dir using prefix in file names.
func NewScreenshots(dir, prefix string) *Screenshots {
	return &Screenshots{Dir: dir, Prefix: prefix, now: time.Now}
}

// Filename returns the path the next capture would use.
func (s *Screenshots) Filename() string {
	name := fmt.Sprintf("%s_%s.png", s.Prefix, s.now().Format("2006-01-02_15-04-05"))
	if s.Dir != "" {
		name = filepath.Join(s.Dir, name)
	}
	return name
}

// SavePixels saves bottom-up RGBA rows as read back from OpenGL.
func (s *Screenshots) SavePixels(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * row
		copy(img.Pix[y*img.Stride:y*img.Stride+row], pixels[src:src+row])
	}
	return s.Save(img)
}

// Save writes img and returns its path.
func (s *Screenshots) Save(img image.Image) (string, error) {
	if s.Dir != "" {
		if err := os.MkdirAll(s.Dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}
	name := s.Filename()
	f, err := os.Create(name)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return name, nil
}
