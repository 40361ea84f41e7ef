package images

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
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

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(w, h)))
	return buf.Bytes()
}

// pngWithHeader encodes a 1x1 PNG and rewrites its IHDR to declare w x h,
// so the header claims far more pixels than the file carries.
func pngWithHeader(t *testing.T, w, h uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))
	data := buf.Bytes()

	// 8-byte signature, 4-byte length, "IHDR", then width and height.
	require.Equal(t, "IHDR", string(data[12:16]))
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(w, h), nil))
	return buf.Bytes()
}

func TestNewStorage(t *testing.T) {
	t.Run("creates the subdirectory", func(t *testing.T) {
		tmpDir := t.TempDir()

		storage, err := NewStorage(tmpDir, "avatars")
		require.NoError(t, err)
		require.NotNil(t, storage)

		info, err := os.Stat(filepath.Join(tmpDir, "avatars"))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("rejects empty paths", func(t *testing.T) {
		_, err := NewStorage("", "avatars")
		assert.ErrorContains(t, err, "base path cannot be empty")

		_, err = NewStorage(t.TempDir(), "")
		assert.ErrorContains(t, err, "subdirectory cannot be empty")
	})
}

func TestStorage_SaveGetDelete(t *testing.T) {
	storage, err := NewStorage(t.TempDir(), "avatars")
	require.NoError(t, err)

	data := pngBytes(t, 8, 8)
	require.NoError(t, storage.Save("usr-1", "image/png", data))
	assert.True(t, storage.Exists("usr-1"))

	got, contentType, err := storage.Get("usr-1")
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, "image/png", contentType)

	require.NoError(t, storage.Delete("usr-1"))
	assert.False(t, storage.Exists("usr-1"))
	require.NoError(t, storage.Delete("usr-1"), "deleting twice is fine")

	_, _, err = storage.Get("usr-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_SaveReplacesOtherFormat(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewStorage(dir, "avatars")
	require.NoError(t, err)

	require.NoError(t, storage.Save("usr-1", "image/png", pngBytes(t, 4, 4)))
	require.NoError(t, storage.Save("usr-1", "image/jpeg", jpegBytes(t, 4, 4)))

	_, contentType, err := storage.Get("usr-1")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)

	_, err = os.Stat(filepath.Join(dir, "avatars", "usr-1.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestStorage_SaveRejectsBadInput(t *testing.T) {
	storage, err := NewStorage(t.TempDir(), "avatars")
	require.NoError(t, err)

	assert.Error(t, storage.Save("", "image/png", []byte{1}))
	assert.Error(t, storage.Save("usr-1", "image/png", nil))
	assert.Error(t, storage.Save("usr-1", "image/gif", []byte{1}))
}

func TestStorage_PathStaysInsideDir(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewStorage(dir, "avatars")
	require.NoError(t, err)

	require.NoError(t, storage.Save("../escape", "image/png", pngBytes(t, 2, 2)))

	_, err = os.Stat(filepath.Join(dir, "escape.png"))
	assert.True(t, os.IsNotExist(err))
	assert.True(t, storage.Exists("../escape"))
}

func TestParseAvatar(t *testing.T) {
	t.Run("accepts png and computes blurhash", func(t *testing.T) {
		avatar, err := ParseAvatar(pngBytes(t, 200, 100))
		require.NoError(t, err)
		assert.Equal(t, "image/png", avatar.ContentType)
		assert.Equal(t, 200, avatar.Width)
		assert.Equal(t, 100, avatar.Height)
		assert.NotEmpty(t, avatar.BlurHash)
	})

	t.Run("accepts jpeg", func(t *testing.T) {
		avatar, err := ParseAvatar(jpegBytes(t, 32, 32))
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", avatar.ContentType)
	})

	t.Run("rejects other formats", func(t *testing.T) {
		_, err := ParseAvatar([]byte("GIF89a not really"))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)

		_, err = ParseAvatar(nil)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("rejects oversized uploads", func(t *testing.T) {
		_, err := ParseAvatar(make([]byte, MaxAvatarBytes+1))
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("rejects huge dimensions before decoding", func(t *testing.T) {
		data := pngWithHeader(t, 16000, 16000)
		require.Less(t, len(data), 1024)

		_, err := ParseAvatar(data)
		assert.ErrorIs(t, err, ErrTooManyPixels)

		_, err = ParseAvatar(pngWithHeader(t, 10, MaxAvatarDimension+1))
		assert.ErrorIs(t, err, ErrTooManyPixels)
	})
}

func TestThumbnail(t *testing.T) {
	small := testImage(10, 10)
	assert.Same(t, small, thumbnail(small).(*image.RGBA))

	wide := thumbnail(testImage(640, 160))
	assert.Equal(t, 64, wide.Bounds().Dx())
	assert.Equal(t, 16, wide.Bounds().Dy())

	tall := thumbnail(testImage(1, 1000))
	assert.Equal(t, 1, tall.Bounds().Dx())
	assert.Equal(t, 64, tall.Bounds().Dy())
}
