// Package imaging validates uploaded avatars and normalises them to a
// fixed-size PNG.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"

	"github.com/yukikurage/task-manager/internal/constants"
)

var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrUnsupportedImage = errors.New("please upload an image")
)

var allowedExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

var allowedContentTypes = map[string]bool{"image/jpeg": true, "image/png": true}

// Validate checks the declared file name and size of an upload.
func Validate(filename string, size int64) error {
	if size > constants.MaxAvatarBytes {
		return ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return ErrUnsupportedImage
	}
	return nil
}

// Normalize checks that data really is a JPEG or PNG image and re-encodes it
// as an AvatarSize x AvatarSize PNG.
func Normalize(data []byte) ([]byte, error) {
	if len(data) > constants.MaxAvatarBytes {
		return nil, ErrFileTooLarge
	}
	if mt := mimetype.Detect(data); !allowedContentTypes[mt.String()] {
		return nil, ErrUnsupportedImage
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, constants.AvatarSize, constants.AvatarSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode avatar: %w", err)
	}
	return buf.Bytes(), nil
}
