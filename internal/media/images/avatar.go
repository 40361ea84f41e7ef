package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"net/http"

	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// MaxAvatarBytes is the largest accepted profile picture.
	MaxAvatarBytes = 2 << 20
	// MaxAvatarDimension bounds width and height before pixels are decoded.
	MaxAvatarDimension = 4096
)

var (
	ErrTooLarge          = errors.New("image exceeds 2 MB")
	ErrTooManyPixels     = errors.New("image exceeds 4096x4096 pixels")
	ErrUnsupportedFormat = errors.New("image must be JPEG, PNG or WebP")
)

// Avatar is a validated profile picture.
type Avatar struct {
	Data        []byte
	ContentType string
	BlurHash    string
	Width       int
	Height      int
}

// ParseAvatar checks size, dimensions and format and computes the BlurHash.
// The format is sniffed from the bytes, not taken from the client.
func ParseAvatar(data []byte) (*Avatar, error) {
	if len(data) == 0 {
		return nil, ErrUnsupportedFormat
	}
	if len(data) > MaxAvatarBytes {
		return nil, ErrTooLarge
	}

	contentType := http.DetectContentType(data)
	if _, ok := extensions[contentType]; !ok {
		return nil, ErrUnsupportedFormat
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if cfg.Width > MaxAvatarDimension || cfg.Height > MaxAvatarDimension {
		return nil, ErrTooManyPixels
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	hash, err := ComputeBlurHash(img)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	return &Avatar{
		Data:        data,
		ContentType: contentType,
		BlurHash:    hash,
		Width:       b.Dx(),
		Height:      b.Dy(),
	}, nil
}
