package retrolens

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
)

// DefaultQuality is the JPEG quality used when exporting the canvas.
const DefaultQuality = 92

// ErrUnsupportedFormat is returned when the destination extension is not a supported image format.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// SupportedExtensions lists the image file extensions accepted as input.
var SupportedExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif"}

// decodeImg decodes an image from a reader, honoring the EXIF orientation of photos.
func decodeImg(r io.Reader) (*image.NRGBA, error) {
	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("could not decode the source image: %w", err)
	}
	return imgToNRGBA(src), nil
}

// encodeImg encodes an image to the writer in the format matching the extension.
// An empty extension means JPEG.
func encodeImg(w io.Writer, img image.Image, ext string, quality int) error {
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	switch strings.ToLower(ext) {
	case "", ".jpg", ".jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case ".png":
		return png.Encode(w, img)
	case ".bmp":
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// extOf returns the file extension of the writer in case it's a file.
func extOf(w io.Writer) string {
	if f, ok := w.(*os.File); ok {
		return filepath.Ext(f.Name())
	}
	return ""
}

// imgToNRGBA converts any image type to *image.NRGBA with min-point at (0, 0).
func imgToNRGBA(img image.Image) *image.NRGBA {
	if src, ok := img.(*image.NRGBA); ok && src.Bounds().Min == (image.Point{}) {
		return src
	}
	return imaging.Clone(img)
}
