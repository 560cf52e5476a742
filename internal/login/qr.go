package login

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidQR is returned when a QR payload is not a base64 image data URL.
var ErrInvalidQR = errors.New("invalid qr code data url")

// DecodeQR splits a "data:image/<type>;base64,<payload>" URL into the image
// type and raw bytes.
func DecodeQR(dataURL string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(dataURL, "data:image/")
	if !ok {
		return "", nil, ErrInvalidQR
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidQR
	}
	imageType, ok := strings.CutSuffix(header, ";base64")
	if !ok || imageType == "" {
		return "", nil, ErrInvalidQR
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidQR, err)
	}
	return imageType, data, nil
}

// WriteQR decodes dataURL and writes the image to path. When path has no
// extension the image type is appended. It returns the written path.
func WriteQR(dataURL, path string) (string, error) {
	imageType, data, err := DecodeQR(dataURL)
	if err != nil {
		return "", err
	}
	if filepath.Ext(path) == "" {
		path += "." + imageType
	}
	if dir := filepath.Dir(path); dir != "." {
		if err = os.MkdirAll(dir, 0o750); err != nil {
			return "", fmt.Errorf("creating qr directory: %w", err)
		}
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("writing qr image: %w", err)
	}
	return path, nil
}
