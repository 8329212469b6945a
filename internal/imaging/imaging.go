// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging prepares uploaded listing photos for storage. It sniffs
// the real image format from the bytes, rejects oversized images before a
// full decode, and scales photos wider than the display width down to a
// JPEG so listing pages stay light.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoder

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// MaxWidth is the widest photo stored; wider uploads are scaled down.
	MaxWidth = 1600

	// maxPixels guards against decompression bombs.
	maxPixels = 40_000_000

	jpegQuality = 82
)

var (
	// ErrNotImage is returned when the upload is not a JPEG, PNG or WebP image.
	ErrNotImage = errors.New("not a supported image")

	// ErrTooLarge is returned when the image dimensions exceed the pixel limit.
	ErrTooLarge = errors.New("image dimensions too large")
)

// formatTypes maps decoder names to the content type stored with the photo.
var formatTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
}

// Photo is an upload ready to be stored.
type Photo struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// Prepare checks src and returns the photo to store. Photos up to maxWidth
// are kept byte for byte; wider ones are resized and re-encoded as JPEG.
func Prepare(src []byte, maxWidth int) (*Photo, error) {
	return prepare(src, maxWidth, maxPixels)
}

func prepare(src []byte, maxWidth int, pixelLimit int64) (*Photo, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	contentType, ok := formatTypes[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotImage, format)
	}
	if int64(cfg.Width)*int64(cfg.Height) > pixelLimit {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	if maxWidth <= 0 || cfg.Width <= maxWidth {
		return &Photo{Data: src, ContentType: contentType, Width: cfg.Width, Height: cfg.Height}, nil
	}

	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	height := int(float64(bounds.Dy()) * float64(maxWidth) / float64(bounds.Dx()))
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode photo: %w", err)
	}

	return &Photo{Data: buf.Bytes(), ContentType: "image/jpeg", Width: maxWidth, Height: height}, nil
}
