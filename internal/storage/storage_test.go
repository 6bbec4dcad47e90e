package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"farmfit/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizePhoto(t *testing.T) {
	out, err := NormalizePhoto(pngBytes(t, 64, 48))
	require.NoError(t, err)
	require.NotEmpty(t, out)
	// WebP container
	assert.Equal(t, "RIFF", string(out[:4]))
	assert.Equal(t, "WEBP", string(out[8:12]))
}

func TestNormalizePhotoDownscales(t *testing.T) {
	out, err := NormalizePhoto(pngBytes(t, MaxPhotoDimension*2, 100))
	require.NoError(t, err)

	cfgImg, _, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, MaxPhotoDimension, cfgImg.Width)
	assert.Equal(t, 50, cfgImg.Height)
}

func TestNormalizePhotoRejectsNonImage(t *testing.T) {
	_, err := NormalizePhoto([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestDeleteByURLIgnoresExternalURLs(t *testing.T) {
	s := &s3Store{bucket: "farmfit-media", publicBaseURL: "https://media.farmfit.dev"}

	// External and malformed URLs never reach the S3 client.
	assert.NoError(t, s.DeleteByURL(context.Background(), "https://i.pravatar.cc/150?u=3"))
	assert.NoError(t, s.DeleteByURL(context.Background(), "https://media.farmfit.dev/"))
	assert.NoError(t, s.DeleteByURL(context.Background(), ""))
}

func TestNewS3StoreRequiresConfig(t *testing.T) {
	_, err := NewS3Store(context.Background(), &config.Config{})
	assert.Error(t, err)

	_, err = NewS3Store(context.Background(), &config.Config{S3Bucket: "farmfit-media"})
	assert.Error(t, err)
}
