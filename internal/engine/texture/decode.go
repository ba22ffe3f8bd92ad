// Package texture decodes texture images and loads them off the render
// thread.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/matchers"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedImage is returned for data that is not a decodable image.
var ErrUnsupportedImage = errors.New("unsupported image")

// supported lists the sniffed types that have a registered decoder.
var supported = map[string]bool{
	matchers.TypePng.Extension:  true,
	matchers.TypeJpeg.Extension: true,
	matchers.TypeGif.Extension:  true,
	matchers.TypeBmp.Extension:  true,
	matchers.TypeTiff.Extension: true,
	matchers.TypeWebp.Extension: true,
}

// Sniff returns the image type extension of data ("png", "jpg", ...), or
// "tga" for headerless TGA data.
func Sniff(data []byte) (string, error) {
	kind, err := filetype.Match(data)
	if err != nil {
		return "", fmt.Errorf("sniffing: %w", err)
	}
	if kind != filetype.Unknown {
		if !supported[kind.Extension] {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, kind.MIME.Value)
		}
		return kind.Extension, nil
	}
	if _, err := parseTGAHeader(data); err == nil {
		return "tga", nil
	}
	return "", ErrUnsupportedImage
}

// Decode sniffs and decodes an encoded image into RGBA.
func Decode(data []byte) (*image.RGBA, error) {
	format, err := Sniff(data)
	if err != nil {
		return nil, err
	}
	if format == "tga" {
		return DecodeTGA(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", format, err)
	}
	return ToRGBA(img), nil
}

// DecodeFile reads and decodes an image file.
func DecodeFile(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// ToRGBA converts any image to *image.RGBA with its origin at (0, 0).
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
