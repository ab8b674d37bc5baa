package entities

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"tryon-combine/internal/domain/valueobjects"
)

func writeTestImage(t *testing.T, dir, name string, asPNG bool) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	var buf bytes.Buffer
	var err error
	if asPNG {
		err = png.Encode(&buf, img)
	} else {
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("Failed to write test image: %v", err)
	}
	return path
}

func TestNewTryOnRequest(t *testing.T) {
	params := valueobjects.DefaultTryOnParameters()

	tests := []struct {
		name        string
		id          TryOnRequestID
		personPath  string
		garmentPath string
		parameters  *valueobjects.TryOnParameters
		wantErr     bool
	}{
		{
			name:        "valid request",
			id:          NewTryOnRequestID(),
			personPath:  "uploads/person_x.jpg",
			garmentPath: "uploads/prod_x.jpg",
			parameters:  params,
			wantErr:     false,
		},
		{
			name:        "missing id should fail",
			personPath:  "uploads/person_x.jpg",
			garmentPath: "uploads/prod_x.jpg",
			parameters:  params,
			wantErr:     true,
		},
		{
			name:        "missing person path should fail",
			id:          NewTryOnRequestID(),
			garmentPath: "uploads/prod_x.jpg",
			parameters:  params,
			wantErr:     true,
		},
		{
			name:       "missing garment path should fail",
			id:         NewTryOnRequestID(),
			personPath: "uploads/person_x.jpg",
			parameters: params,
			wantErr:    true,
		},
		{
			name:        "nil parameters should use defaults",
			id:          NewTryOnRequestID(),
			personPath:  "uploads/person_x.jpg",
			garmentPath: "uploads/prod_x.jpg",
			parameters:  nil,
			wantErr:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request, err := NewTryOnRequest(tt.id, tt.personPath, tt.garmentPath, tt.parameters)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewTryOnRequest() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if request.ID() != tt.id {
				t.Errorf("ID() = %v, want %v", request.ID(), tt.id)
			}
			if request.Parameters() == nil {
				t.Errorf("Parameters should not be nil")
			}
		})
	}
}

func TestNewTryOnRequestID_Unique(t *testing.T) {
	seen := make(map[TryOnRequestID]bool)
	for range 100 {
		id := NewTryOnRequestID()
		if seen[id] {
			t.Fatalf("duplicate request id %s", id)
		}
		seen[id] = true
	}
}

func TestTryOnRequest_LoadImages(t *testing.T) {
	dir := t.TempDir()
	personPath := writeTestImage(t, dir, "person.png", true)
	garmentPath := writeTestImage(t, dir, "garment.jpg", false)

	request, err := NewTryOnRequest(NewTryOnRequestID(), personPath, garmentPath, nil)
	if err != nil {
		t.Fatalf("NewTryOnRequest() error = %v", err)
	}

	person, garment, err := request.LoadImages()
	if err != nil {
		t.Fatalf("LoadImages() error = %v", err)
	}
	if person.Format() != valueobjects.PNG || garment.Format() != valueobjects.JPEG {
		t.Errorf("formats = %s, %s, want png, jpeg", person.Format(), garment.Format())
	}

	wantPerson, err := os.ReadFile(personPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(person.Data(), wantPerson) {
		t.Errorf("person bytes were modified while loading")
	}
	if person.MimeType() != "image/png" {
		t.Errorf("person MimeType() = %s, want image/png", person.MimeType())
	}

	t.Run("garment that is not an image", func(t *testing.T) {
		bogus := filepath.Join(dir, "bogus.jpg")
		if err := os.WriteFile(bogus, []byte("<html></html>"), 0o644); err != nil {
			t.Fatal(err)
		}
		request, _ := NewTryOnRequest(NewTryOnRequestID(), personPath, bogus, nil)
		if _, _, err := request.LoadImages(); err == nil {
			t.Errorf("expected error for non-image garment")
		}
	})
}

func TestFetchResult(t *testing.T) {
	ok := FetchSucceeded("uploads/prod_1.jpeg", "image/jpeg", 10)
	if !ok.OK() {
		t.Errorf("FetchSucceeded should be OK")
	}

	cause := errors.New("connection refused")
	failed := FetchFailed(FetchUnreachable, cause)
	if failed.OK() {
		t.Errorf("FetchFailed should not be OK")
	}
	if failed.Failure.Reason != FetchUnreachable {
		t.Errorf("Reason = %v, want %v", failed.Failure.Reason, FetchUnreachable)
	}
	if !errors.Is(failed.Failure, cause) {
		t.Errorf("cause should be reachable from failure")
	}
}

func TestTryOnResult(t *testing.T) {
	result := NewTryOnResult(NewTryOnRequestID(), nil)
	if result.HasImages() {
		t.Errorf("empty result should have no images")
	}
	if result.FirstImage() != nil {
		t.Errorf("FirstImage() should be nil for empty result")
	}
	result.SetFilteredReason("person_generation")
	if result.FilteredReason() != "person_generation" {
		t.Errorf("FilteredReason() = %q", result.FilteredReason())
	}
}
