package media

import (
	"bytes"
	"context"
	"image/color"
	"io"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStoreRoundtrip(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	payload := []byte("hello attachment")
	key := "complaints/before/sample.jpg"
	require.NoError(t, store.Save(ctx, key, bytes.NewReader(payload), int64(len(payload)), "image/jpeg"))

	rc, err := store.Open(ctx, key)
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestDiskStoreOpenMissing(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open(context.Background(), "complaints/before/nope.jpg")
	assert.Error(t, err)
}

func TestNewKey(t *testing.T) {
	key := NewKey("complaints/before", "Photo.JPG")
	assert.True(t, strings.HasPrefix(key, "complaints/before/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"), "extension must be lowercased, got %s", key)

	// No extension falls back to .jpg.
	assert.True(t, strings.HasSuffix(NewKey("x", "photo"), ".jpg"))

	// Keys must be unique for identical filenames.
	assert.NotEqual(t, NewKey("x", "a.png"), NewKey("x", "a.png"))
}

func TestNormalizeUpload(t *testing.T) {
	img := imaging.New(2000, 500, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))

	data, contentType, err := NormalizeUpload(&buf)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)

	decoded, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, maxUploadWidth, decoded.Bounds().Dx(), "oversized uploads are shrunk to the max width")
}

func TestNormalizeUpload_KeepsSmallImages(t *testing.T) {
	img := imaging.New(640, 480, color.NRGBA{A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.JPEG))

	data, contentType, err := NormalizeUpload(&buf)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)

	decoded, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 640, decoded.Bounds().Dx())
}

func TestNormalizeUpload_UndecodablePassthrough(t *testing.T) {
	raw := []byte("not an image at all")

	data, _, err := NormalizeUpload(bytes.NewReader(raw))
	require.NoError(t, err, "undecodable payloads are stored verbatim, not rejected")
	assert.Equal(t, raw, data)
}
