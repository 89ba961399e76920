package steg

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/0xlayout/privacypuzzle/internal/failure"
)

// Output container formats. Both are lossless, so the LSB plane survives.
const (
	FormatPNG  = "png"
	FormatTIFF = "tiff"
)

// Extension returns the file extension, with dot, for a supported format.
func Extension(format string) (string, error) {
	switch format {
	case FormatPNG, FormatTIFF:
		return "." + format, nil
	}
	return "", fmt.Errorf("%w: unsupported output format %q", failure.ErrValidation, format)
}

// Decode reads an image container (PNG, TIFF, BMP, JPEG or GIF) into a raster and
// reports the detected format. Lossy inputs decode fine but anything hidden
// in them before the lossy step is gone.
func Decode(r io.Reader) (Raster, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return Raster{}, "", fmt.Errorf("%w: could not decode image: %v", failure.ErrFormat, err)
	}
	return NewRaster(img), format, nil
}

// alphaPNG keeps the alpha plane in the PNG even when every pixel is opaque.
type alphaPNG struct{ *image.NRGBA }

func (alphaPNG) Opaque() bool { return false }

// Encode writes r to w in a lossless container. PNG output is always RGBA
// (color type 6).
func Encode(w io.Writer, r Raster, format string) error {
	if _, err := Extension(format); err != nil {
		return err
	}
	img, err := r.Image()
	if err != nil {
		return err
	}
	if format == FormatTIFF {
		return tiff.Encode(w, img, nil)
	}
	return png.Encode(w, alphaPNG{img})
}
