// Package media normalizes uploaded images into the inline base64 form stored on
// stores and user profiles.
package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

const (
	// JPEGQuality is the re-encode quality for every stored image.
	JPEGQuality = 85

	dataURLPrefix = "data:image/jpeg;base64,"
)

// Box is a bounding box an image is fitted into.
type Box struct {
	Width  int
	Height int
}

var (
	StoreImageBox = Box{Width: 800, Height: 600}
	AvatarBox     = Box{Width: 300, Height: 300}
)

var ErrUndecodable = errors.New("image could not be decoded")

// Decode reads an uploaded image, applying its EXIF orientation.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	return img, nil
}

// Normalize fits img into box (never upscaling), re-encodes it as JPEG and returns the
// base64 text that is persisted.
func Normalize(img image.Image, box Box) (string, error) {
	if img == nil {
		return "", ErrUndecodable
	}
	fitted := img
	b := img.Bounds()
	if b.Dx() > box.Width || b.Dy() > box.Height {
		fitted = imaging.Fit(img, box.Width, box.Height, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeAndNormalize is Decode followed by Normalize.
func DecodeAndNormalize(r io.Reader, box Box) (string, error) {
	img, err := Decode(r)
	if err != nil {
		return "", err
	}
	return Normalize(img, box)
}

// DataURL renders stored base64 JPEG bytes as a data URL; empty input yields "".
func DataURL(encoded string) string {
	if encoded == "" {
		return ""
	}
	return dataURLPrefix + encoded
}
