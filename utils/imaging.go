package utils

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"path"
	"strings"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrImageTooLarge is returned for images whose declared area exceeds the
// configured pixel cap. The check runs before any pixel data is decoded.
var ErrImageTooLarge = errors.New("image dimensions too large")

// ImageOptions controls CompressImage.
type ImageOptions struct {
	MaxWidth  int
	Quality   int
	MaxPixels int64
}

var compressibleExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// IsCompressibleImage reports whether name looks like a raster image the
// compressor can decode.
func IsCompressibleImage(name string) bool {
	return compressibleExts[strings.ToLower(path.Ext(name))]
}

// CompressImage decodes r, downscales it to opts.MaxWidth preserving the
// aspect ratio when wider, flattens transparency onto white and re-encodes it
// as JPEG at opts.Quality. Images declaring more than opts.MaxPixels are
// rejected with ErrImageTooLarge.
func CompressImage(r io.Reader, opts ImageOptions) ([]byte, error) {
	var head bytes.Buffer
	conf, _, err := image.DecodeConfig(io.TeeReader(r, &head))
	if err != nil {
		return nil, fmt.Errorf("decode image header: %w", err)
	}
	if conf.Width <= 0 || conf.Height <= 0 {
		return nil, errors.New("decode image header: empty image")
	}
	if opts.MaxPixels > 0 && int64(conf.Width)*int64(conf.Height) > opts.MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, conf.Width, conf.Height)
	}

	src, _, err := image.Decode(io.MultiReader(&head, r))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if opts.MaxWidth > 0 && w > opts.MaxWidth {
		h = (h*opts.MaxWidth + w/2) / w
		if h < 1 {
			h = 1
		}
		w = opts.MaxWidth
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	}

	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// JPEGName swaps the extension of name for .jpg.
func JPEGName(name string) string {
	return strings.TrimSuffix(name, path.Ext(name)) + ".jpg"
}
