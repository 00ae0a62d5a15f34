package models

import (
	"encoding/base64"
	"errors"
	"strings"
)

// MaxImageBytes caps inline product images at 5 MiB.
const MaxImageBytes = 5 << 20

// ErrInvalidImage is raised before any request when an upload is not an
// image or exceeds the size cap.
var ErrInvalidImage = errors.New("please select an image in a valid format no larger than 5MB")

const imageURIPrefix = "data:image/"

// EncodeImage converts raw upload bytes into the inline data URI the API
// stores. The media type must be image/* and the payload at most 5 MiB.
func EncodeImage(mediaType string, data []byte) (string, error) {
	if !strings.HasPrefix(mediaType, "image/") {
		return "", ErrInvalidImage
	}
	if len(data) == 0 || len(data) > MaxImageBytes {
		return "", ErrInvalidImage
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// ValidateImageURI checks an already-encoded data URI against the same
// media type and size constraints. An empty string is acceptable: it is
// how "no image" is stored.
func ValidateImageURI(uri string) error {
	if uri == "" {
		return nil
	}
	if !strings.HasPrefix(uri, imageURIPrefix) {
		return ErrInvalidImage
	}
	_, payload, found := strings.Cut(uri, ";base64,")
	if !found {
		return ErrInvalidImage
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes {
		return ErrInvalidImage
	}
	return nil
}
