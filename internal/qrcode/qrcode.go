// Package qrcode renders short URLs as QR code images.
package qrcode

import (
	"encoding/base64"
	"errors"
	"fmt"

	goqrcode "github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG edge length in pixels.
const DefaultSize = 256

const dataURIPrefix = "data:image/png;base64,"

// ErrEmptyContent is returned when there is nothing to encode.
var ErrEmptyContent = errors.New("qrcode: empty content")

// Encoder turns text into an embeddable image reference.
type Encoder interface {
	DataURI(content string) (string, error)
}

// PNGEncoder encodes content as a base64 PNG data URI.
type PNGEncoder struct {
	size  int
	level goqrcode.RecoveryLevel
}

// NewPNGEncoder creates an encoder producing size x size images.
// A non-positive size falls back to DefaultSize.
func NewPNGEncoder(size int) *PNGEncoder {
	if size <= 0 {
		size = DefaultSize
	}
	return &PNGEncoder{size: size, level: goqrcode.Medium}
}

// DataURI renders content and returns "data:image/png;base64,<payload>".
func (e *PNGEncoder) DataURI(content string) (string, error) {
	if content == "" {
		return "", ErrEmptyContent
	}

	png, err := goqrcode.Encode(content, e.level, e.size)
	if err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}

	return dataURIPrefix + base64.StdEncoding.EncodeToString(png), nil
}
