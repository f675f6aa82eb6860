package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{16, 150, 105, 255})
		}
	}
	return img
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solid(w, h), &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(w, h)))
	return buf.Bytes()
}

func decodedSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, "jpeg", format)
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestPrepare_PNGBecomesJPEG(t *testing.T) {
	p, err := Prepare("calculator.png", bytes.NewReader(encodePNG(t, 80, 60)))
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", p.MIME)
	assert.Equal(t, "calculator.jpg", p.Filename)
	w, h := decodedSize(t, p.Data)
	assert.Equal(t, 80, w)
	assert.Equal(t, 60, h)
}

func TestPrepare_DownscalesKeepingAspect(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"landscape", 2048, 1024, 1024, 512},
		{"portrait", 600, 3000, 204, 1024},
		{"square", 1500, 1500, 1024, 1024},
		{"within bounds", 1024, 800, 1024, 800},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Prepare("x.jpg", bytes.NewReader(encodeJPEG(t, tt.w, tt.h)))
			require.NoError(t, err)
			w, h := decodedSize(t, p.Data)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestPrepare_RejectsNonImages(t *testing.T) {
	_, err := Prepare("notes.txt", bytes.NewReader([]byte("just some text")))
	assert.ErrorIs(t, err, ErrUnsupported)

	gif := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")
	_, err = Prepare("anim.gif", bytes.NewReader(gif))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestPrepare_CorruptJPEG(t *testing.T) {
	data := encodeJPEG(t, 10, 10)[:20]
	_, err := Prepare("broken.jpg", bytes.NewReader(data))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupported)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "umbrella.jpeg")
	require.NoError(t, os.WriteFile(path, encodeJPEG(t, 32, 32), 0o600))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "umbrella.jpg", p.Filename)

	_, err = Load(filepath.Join(t.TempDir(), "missing.jpg"))
	assert.Error(t, err)
}

func TestJPEGName(t *testing.T) {
	assert.Equal(t, "photo.jpg", jpegName(""))
	assert.Equal(t, "a.b.jpg", jpegName("dir/a.b.png"))
}
