package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder

	_ "golang.org/x/image/webp" // Register WEBP format decoder
)

// MaxInputBytes is the default size cap for raw photo input (10MB).
// Inputs above the cap are rejected before any decode work happens.
const MaxInputBytes = 10 << 20

// Error sentinels for input validation. Wrapped errors can be classified
// with errors.Is.
var (
	// ErrSizeLimit indicates the raw input exceeded the accepted byte size.
	ErrSizeLimit = errors.New("input exceeds size limit")

	// ErrUnsupportedFormat indicates the input bytes are not one of the
	// supported formats (JPEG, PNG, WEBP, GIF).
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrInvalidImage indicates the bytes do not decode to a valid image,
	// or the decoded image has a zero dimension.
	ErrInvalidImage = errors.New("invalid image")

	// ErrRegionOutOfBounds indicates a crop region outside the image extent.
	ErrRegionOutOfBounds = errors.New("region out of bounds")
)

// DetectFormat sniffs the image format from magic bytes.
//
// Returns one of "jpeg", "png", "webp", "gif", or an ErrUnsupportedFormat
// error. Sniffing inspects only the leading bytes and never decodes, so it
// is safe to run before the (comparatively expensive) decode step.
func DetectFormat(data []byte) (string, error) {
	switch {
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return "jpeg", nil
	case len(data) >= 8 && bytes.Equal(data[:8], []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}):
		return "png", nil
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return "webp", nil
	case len(data) >= 6 && (bytes.Equal(data[:6], []byte("GIF87a")) || bytes.Equal(data[:6], []byte("GIF89a"))):
		return "gif", nil
	}
	return "", fmt.Errorf("%w: unrecognized magic bytes", ErrUnsupportedFormat)
}

// Decode validates and decodes raw photo bytes.
//
// Validation order is fixed: byte-size check first (ErrSizeLimit), then
// format sniffing (ErrUnsupportedFormat), then the actual decode
// (ErrInvalidImage). A maxBytes of 0 applies the MaxInputBytes default;
// a negative maxBytes disables the size check.
//
// Returns the decoded image and the sniffed format name.
func Decode(data []byte, maxBytes int) (image.Image, string, error) {
	if maxBytes == 0 {
		maxBytes = MaxInputBytes
	}
	if maxBytes > 0 && len(data) > maxBytes {
		return nil, "", fmt.Errorf("%w: %d bytes (max %d)", ErrSizeLimit, len(data), maxBytes)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty input", ErrInvalidImage)
	}

	format, err := DetectFormat(data)
	if err != nil {
		return nil, "", err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: decode %s: %v", ErrInvalidImage, format, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, "", fmt.Errorf("%w: zero dimension %dx%d", ErrInvalidImage, bounds.Dx(), bounds.Dy())
	}

	return img, format, nil
}
