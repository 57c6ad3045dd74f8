package imaging

import (
	"bytes"
	"errors"
	"image/png"
	"testing"
)

func encodeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, uniformGray(width, height, 200)); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    string
		wantErr bool
	}{
		{
			name: "png magic",
			data: []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0},
			want: "png",
		},
		{
			name: "jpeg magic",
			data: []byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0, 0, 0, 0, 0, 0, 0},
			want: "jpeg",
		},
		{
			name: "webp magic",
			data: []byte{'R', 'I', 'F', 'F', 0, 0, 0, 0, 'W', 'E', 'B', 'P'},
			want: "webp",
		},
		{
			name: "gif87a magic",
			data: []byte("GIF87a......"),
			want: "gif",
		},
		{
			name: "gif89a magic",
			data: []byte("GIF89a......"),
			want: "gif",
		},
		{
			name:    "unknown bytes",
			data:    []byte("this is not an image at all"),
			wantErr: true,
		},
		{
			name:    "too short",
			data:    []byte{0x89, 'P'},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.data)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Fatalf("DetectFormat() error = %v, want ErrUnsupportedFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DetectFormat() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeValidPNG(t *testing.T) {
	data := encodeTestPNG(t, 40, 30)

	img, format, err := Decode(data, 0)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if format != "png" {
		t.Errorf("Decode() format = %q, want png", format)
	}
	b := img.Bounds()
	if b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("Decode() dimensions = %dx%d, want 40x30", b.Dx(), b.Dy())
	}
}

func TestDecodeSizeLimit(t *testing.T) {
	// 11 MB payload rejected before any decoding is attempted. The content
	// is garbage on purpose: the size gate must fire first.
	data := make([]byte, 11<<20)

	_, _, err := Decode(data, MaxInputBytes)
	if !errors.Is(err, ErrSizeLimit) {
		t.Fatalf("Decode() error = %v, want ErrSizeLimit", err)
	}
}

func TestDecodeSizeLimitDisabled(t *testing.T) {
	data := encodeTestPNG(t, 8, 8)

	if _, _, err := Decode(data, -1); err != nil {
		t.Fatalf("Decode() with disabled limit failed: %v", err)
	}
	if _, _, err := Decode(data, 4); !errors.Is(err, ErrSizeLimit) {
		t.Fatalf("Decode() with tiny limit error = %v, want ErrSizeLimit", err)
	}
}

func TestDecodeUnsupportedFormat(t *testing.T) {
	_, _, err := Decode([]byte("%PDF-1.4 definitely not a raster image"), 0)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Decode() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestDecodeTruncatedPNG(t *testing.T) {
	data := encodeTestPNG(t, 64, 64)

	_, _, err := Decode(data[:len(data)/2], 0)
	if !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("Decode() error = %v, want ErrInvalidImage", err)
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	_, _, err := Decode(nil, 0)
	if err == nil {
		t.Fatal("Decode() expected error for empty input, got nil")
	}
}
