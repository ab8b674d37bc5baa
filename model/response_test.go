package model

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"testing"
)

func loadResponse(t *testing.T, name string) *VirtualTryOnResponse {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("Failed to read test data: %v", err)
	}
	var response VirtualTryOnResponse
	if err := json.Unmarshal(data, &response); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}
	return &response
}

func TestVirtualTryOnResponseParsing(t *testing.T) {
	response := loadResponse(t, "predict_response.json")

	if len(response.Predictions) != 1 {
		t.Fatalf("Expected one prediction, got %d", len(response.Predictions))
	}

	first := response.Predictions[0]
	if first.MimeType != "image/jpeg" {
		t.Errorf("Expected MimeType image/jpeg, got %s", first.MimeType)
	}

	decoded, err := base64.StdEncoding.DecodeString(first.BytesBase64Encoded)
	if err != nil {
		t.Fatalf("BytesBase64Encoded should be valid base64: %v", err)
	}
	if len(decoded) < 2 || decoded[0] != 0xFF || decoded[1] != 0xD8 {
		t.Errorf("Expected JPEG magic bytes")
	}

	if response.FilteredReason() != "" {
		t.Errorf("Unexpected filtered reason %q", response.FilteredReason())
	}
}

func TestVirtualTryOnResponse_FilteredReason(t *testing.T) {
	response := loadResponse(t, "filtered_response.json")

	if response.Predictions[0].BytesBase64Encoded != "" {
		t.Errorf("filtered prediction should carry no image")
	}
	if response.FilteredReason() == "" {
		t.Errorf("Expected a filtered reason")
	}
}

func TestErrorResponseJSON(t *testing.T) {
	data, err := json.Marshal(ErrorResponse{Error: "No person image uploaded", Code: "missing_person_image"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"error":"No person image uploaded","code":"missing_person_image"}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}
