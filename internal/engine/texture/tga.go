package texture

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

func init() {
	// TGA has no magic number; an empty magic matches anything, so this
	// must stay registered after the formats it would otherwise shadow.
	image.RegisterFormat("tga", "", decodeTGAReader, decodeTGAConfig)
}

// DecodeTGA decodes a TGA image.
// Supports uncompressed true-color (type 2) and RLE compressed (type 10)
// files with 24 or 32 bits per pixel.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}

	offset := 18 + h.idLength
	if offset > len(data) {
		return nil, fmt.Errorf("tga: %w: data truncated", ErrUnsupportedImage)
	}
	pixels := data[offset:]
	img := image.NewRGBA(image.Rect(0, 0, h.width, h.height))

	if h.imageType == TGATypeUncompressed {
		if len(pixels) < h.width*h.height*h.bytesPerPixel {
			return nil, fmt.Errorf("tga: %w: pixel data truncated", ErrUnsupportedImage)
		}
		for i := 0; i < h.width*h.height; i++ {
			h.put(img, i, h.pixel(pixels[i*h.bytesPerPixel:]))
		}
		return img, nil
	}

	h.decodeRLE(img, pixels)
	return img, nil
}

type tgaHeader struct {
	idLength      int
	imageType     byte
	width, height int
	bytesPerPixel int
	topToBottom   bool
}

func parseTGAHeader(data []byte) (tgaHeader, error) {
	if len(data) < 18 {
		return tgaHeader{}, fmt.Errorf("tga: %w: header too short", ErrUnsupportedImage)
	}
	h := tgaHeader{
		idLength:  int(data[0]),
		imageType: data[2],
		width:     int(data[12]) | int(data[13])<<8,
		height:    int(data[14]) | int(data[15])<<8,
		// Bit 5 of the descriptor marks top-to-bottom row order
		topToBottom: data[17]&0x20 != 0,
	}
	bpp := int(data[16])

	if data[1] != 0 {
		return h, fmt.Errorf("tga: %w: color-mapped images", ErrUnsupportedImage)
	}
	if h.imageType != TGATypeUncompressed && h.imageType != TGATypeRLE {
		return h, fmt.Errorf("tga: %w: image type %d", ErrUnsupportedImage, h.imageType)
	}
	if bpp != 24 && bpp != 32 {
		return h, fmt.Errorf("tga: %w: %d bits per pixel", ErrUnsupportedImage, bpp)
	}
	h.bytesPerPixel = bpp / 8
	return h, nil
}

// pixel reads one BGR(A) pixel.
func (h tgaHeader) pixel(p []byte) color.RGBA {
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if h.bytesPerPixel == 4 {
		c.A = p[3]
	}
	return c
}

// put stores the i-th pixel in file order, flipping bottom-up files.
func (h tgaHeader) put(img *image.RGBA, i int, c color.RGBA) {
	x, y := i%h.width, i/h.width
	if !h.topToBottom {
		y = h.height - 1 - y
	}
	img.SetRGBA(x, y, c)
}

func (h tgaHeader) decodeRLE(img *image.RGBA, data []byte) {
	total := h.width * h.height
	n, pos := 0, 0

	for n < total && pos < len(data) {
		packet := data[pos]
		pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// Run-length packet: one pixel repeated
			if pos+h.bytesPerPixel > len(data) {
				return
			}
			c := h.pixel(data[pos:])
			pos += h.bytesPerPixel
			for i := 0; i < count && n < total; i++ {
				h.put(img, n, c)
				n++
			}
			continue
		}

		// Raw packet
		for i := 0; i < count && n < total; i++ {
			if pos+h.bytesPerPixel > len(data) {
				return
			}
			h.put(img, n, h.pixel(data[pos:]))
			pos += h.bytesPerPixel
			n++
		}
	}
}

func decodeTGAReader(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeTGA(data)
}

func decodeTGAConfig(r io.Reader) (image.Config, error) {
	header := make([]byte, 18)
	if _, err := io.ReadFull(bufio.NewReader(r), header); err != nil {
		return image.Config{}, err
	}
	h, err := parseTGAHeader(header)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.RGBAModel, Width: h.width, Height: h.height}, nil
}
