package filemgr

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoestore/apperr"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func uploadRequest(t *testing.T, field, filename string, body []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(body)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("name", "boot"))
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestSaveFormImageStoresOriginalAndThumb(t *testing.T) {
	root := t.TempDir()
	storage := NewLocalStorage(root, "/static/uploads/")

	r := uploadRequest(t, "image", "Boot.PNG", pngBytes(t, 2000, 1000))
	url, err := SaveFormImage(context.Background(), storage, r, "image", EntityProduct, true)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/static/uploads/product/photo/"), url)
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	name := filepath.Base(url)
	orig, err := os.ReadFile(filepath.Join(root, "product", "photo", name))
	require.NoError(t, err)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(orig))
	require.NoError(t, err)
	assert.Equal(t, MaxImageWidth, cfg.Width)
	assert.Equal(t, 800, cfg.Height)

	thumb, err := os.ReadFile(filepath.Join(root, "product", "thumb", name))
	require.NoError(t, err)
	cfg, err = jpeg.DecodeConfig(bytes.NewReader(thumb))
	require.NoError(t, err)
	assert.Equal(t, ThumbWidth, cfg.Width)
}

func TestSaveFormImageRejects(t *testing.T) {
	storage := NewLocalStorage(t.TempDir(), "/u")
	ctx := context.Background()

	t.Run("extension", func(t *testing.T) {
		r := uploadRequest(t, "image", "boot.exe", pngBytes(t, 10, 10))
		_, err := SaveFormImage(ctx, storage, r, "image", EntityProduct, true)
		assert.True(t, apperr.Is(err, apperr.KindValidation))
		assert.Equal(t, "image", apperr.FieldOf(err))
	})

	t.Run("content", func(t *testing.T) {
		r := uploadRequest(t, "image", "boot.png", []byte("plain text pretending"))
		_, err := SaveFormImage(ctx, storage, r, "image", EntityProduct, true)
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})

	t.Run("missing required", func(t *testing.T) {
		r := uploadRequest(t, "other", "boot.png", pngBytes(t, 10, 10))
		_, err := SaveFormImage(ctx, storage, r, "image", EntityCarousel, true)
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})

	t.Run("missing optional", func(t *testing.T) {
		r := uploadRequest(t, "other", "boot.png", pngBytes(t, 10, 10))
		url, err := SaveFormImage(ctx, storage, r, "image", EntityCarousel, false)
		assert.NoError(t, err)
		assert.Empty(t, url)
	})
}

func TestResolveKey(t *testing.T) {
	assert.Equal(t, "carousel/photo/a.jpg", ResolveKey(EntityCarousel, PicPhoto, "a.jpg"))
	assert.Equal(t, "about/misc/a.jpg", ResolveKey(EntityAbout, "poster", "a.jpg"))
}

func TestLocalStorageStaysUnderRoot(t *testing.T) {
	root := t.TempDir()
	s := NewLocalStorage(root, "/u")
	url, err := s.Put(context.Background(), "../../escape.txt", []byte("x"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "/u/escape.txt", url)
	_, err = os.Stat(filepath.Join(root, "escape.txt"))
	assert.NoError(t, err)
}
