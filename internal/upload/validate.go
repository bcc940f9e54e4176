package upload

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDisallowedExtension = errors.New("file type not allowed")
	ErrTooLarge            = errors.New("file too large")
)

var allowedImageExts = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
}

// Validate checks an uploaded image against the allowed extensions and the
// size ceiling.
func Validate(filename string, size, maxBytes int64) error {
	ext := strings.ToLower(Ext(filename))
	if !allowedImageExts[ext] {
		return fmt.Errorf("%w: %q (allowed: jpg, jpeg, png, gif, webp)", ErrDisallowedExtension, ext)
	}
	if maxBytes > 0 && size > maxBytes {
		return fmt.Errorf("%w: %d bytes exceeds the %d byte limit", ErrTooLarge, size, maxBytes)
	}
	return nil
}
