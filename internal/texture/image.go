package texture

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
)

// ToImage converts a decoded texture buffer into an image. Rows are stored
// bottom-up; pixels are B, G, R[, A] for depth 3 and 4 and a single gray
// byte for depth 1.
func ToImage(buf []byte, width, height, depth int) (*image.NRGBA, error) {
	switch depth {
	case 1, 3, 4:
	default:
		return nil, fmt.Errorf("texture: unsupported depth %d", depth)
	}
	if width < 0 || height < 0 || len(buf) != width*height*depth {
		return nil, fmt.Errorf("texture: buffer of %d bytes does not hold %dx%dx%d", len(buf), width, height, depth)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := buf[(height-1-y)*width*depth:]
		for x := 0; x < width; x++ {
			p := src[x*depth:]
			i := img.PixOffset(x, y)
			switch depth {
			case 1:
				img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = p[0], p[0], p[0], 255
			case 3:
				img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = p[2], p[1], p[0], 255
			case 4:
				img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = p[2], p[1], p[0], p[3]
			}
		}
	}
	return img, nil
}

// Write encodes a texture buffer (see ToImage) to w in format.
func Write(w io.Writer, format string, buf []byte, width, height, depth int) error {
	img, err := ToImage(buf, width, height, depth)
	if err != nil {
		return err
	}
	return Encode(w, format, img)
}

// Encode writes img in one of the concrete formats.
func Encode(w io.Writer, format string, img image.Image) error {
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTGA:
		err = tga.Encode(w, img)
	case FormatWebP:
		err = nativewebp.Encode(w, img, nil)
	default:
		return fmt.Errorf("texture: unsupported output format %q", format)
	}
	if err != nil {
		return fmt.Errorf("texture: encode %s: %w", format, err)
	}
	return nil
}
