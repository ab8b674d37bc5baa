package valueobjects

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestNewImageData(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr bool
	}{
		{
			name:    "empty data should fail",
			data:    []byte{},
			wantErr: true,
		},
		{
			name:    "nil data should fail",
			data:    nil,
			wantErr: true,
		},
		{
			name:    "invalid image data should fail",
			data:    []byte{0x00, 0x01, 0x02},
			wantErr: true,
		},
		{
			name:    "html page should fail",
			data:    []byte("<html><body>not an image</body></html>"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewImageData(tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewImageData() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestImageData_Format(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))

	var jpegBuf bytes.Buffer
	if err := jpeg.Encode(&jpegBuf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("Failed to create test JPEG: %v", err)
	}
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		t.Fatalf("Failed to create test PNG: %v", err)
	}

	tests := []struct {
		name     string
		data     []byte
		format   ImageFormat
		mimeType string
	}{
		{name: "jpeg", data: jpegBuf.Bytes(), format: JPEG, mimeType: "image/jpeg"},
		{name: "png keeps its format", data: pngBuf.Bytes(), format: PNG, mimeType: "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imageData, err := NewImageData(tt.data)
			if err != nil {
				t.Fatalf("NewImageData() error = %v", err)
			}
			if imageData.Format() != tt.format {
				t.Errorf("Format() = %v, want %v", imageData.Format(), tt.format)
			}
			if imageData.MimeType() != tt.mimeType {
				t.Errorf("MimeType() = %v, want %v", imageData.MimeType(), tt.mimeType)
			}
			if !bytes.Equal(imageData.Data(), tt.data) {
				t.Errorf("Data() should return the input bytes unchanged")
			}
		})
	}
}

func TestLoadImageData(t *testing.T) {
	dir := t.TempDir()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to create test PNG: %v", err)
	}
	path := filepath.Join(dir, "person.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	data, err := LoadImageData(path)
	if err != nil {
		t.Fatalf("LoadImageData() error = %v", err)
	}
	if data.Size() != buf.Len() {
		t.Errorf("Size() = %d, want %d", data.Size(), buf.Len())
	}

	if _, err := LoadImageData(filepath.Join(dir, "missing.png")); err == nil {
		t.Errorf("expected error for missing file")
	}
}
