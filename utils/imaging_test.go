package utils

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngFixture(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 128})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

var testImageOptions = ImageOptions{MaxWidth: 1200, Quality: 70, MaxPixels: 40_000_000}

// declaredSizePNG encodes a 1x1 PNG and rewrites its IHDR to claim w x h.
func declaredSizePNG(t *testing.T, w, h uint32) []byte {
	t.Helper()
	data := pngFixture(t, 1, 1)
	// 8-byte signature, 4-byte length, "IHDR", then width and height.
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestCompressImageRejectsHugeDeclaredSize(t *testing.T) {
	data := declaredSizePNG(t, 50000, 50000)
	require.Less(t, len(data), 1024)

	_, err := CompressImage(bytes.NewReader(data), testImageOptions)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestCompressImagePixelCapCountsArea(t *testing.T) {
	data := pngFixture(t, 40, 30)
	_, err := CompressImage(bytes.NewReader(data), ImageOptions{MaxWidth: 1200, Quality: 70, MaxPixels: 1199})
	assert.ErrorIs(t, err, ErrImageTooLarge)

	_, err = CompressImage(bytes.NewReader(data), ImageOptions{MaxWidth: 1200, Quality: 70, MaxPixels: 1200})
	assert.NoError(t, err)
}

func TestCompressImageDownscalesWideImages(t *testing.T) {
	out, err := CompressImage(bytes.NewReader(pngFixture(t, 2400, 600)), testImageOptions)
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 1200, cfg.Width)
	assert.Equal(t, 300, cfg.Height)
}

func TestCompressImageKeepsSmallImageSize(t *testing.T) {
	out, err := CompressImage(bytes.NewReader(pngFixture(t, 300, 200)), testImageOptions)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestCompressImageRejectsGarbage(t *testing.T) {
	_, err := CompressImage(bytes.NewReader([]byte("not an image")), testImageOptions)
	assert.Error(t, err)
}

func TestIsCompressibleImage(t *testing.T) {
	assert.True(t, IsCompressibleImage("a.JPG"))
	assert.True(t, IsCompressibleImage("b.webp"))
	assert.False(t, IsCompressibleImage("c.svg"))
	assert.False(t, IsCompressibleImage("d.pdf"))
	assert.Equal(t, "photo.jpg", JPEGName("photo.png"))
}
