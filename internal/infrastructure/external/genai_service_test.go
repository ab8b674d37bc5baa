package external

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"
)

type fakeModels struct {
	resp   *genai.RecontextImageResponse
	err    error
	model  string
	source *genai.RecontextImageSource
	config *genai.RecontextImageConfig
}

func (f *fakeModels) RecontextImage(ctx context.Context, model string, source *genai.RecontextImageSource, config *genai.RecontextImageConfig) (*genai.RecontextImageResponse, error) {
	f.model = model
	f.source = source
	f.config = config
	return f.resp, f.err
}

func TestGenAIService_GenerateTryOn(t *testing.T) {
	person := testJPEG(t)
	garment := testJPEG(t)
	generated := testJPEG(t)

	t.Run("fixed configuration and single product", func(t *testing.T) {
		fake := &fakeModels{
			resp: &genai.RecontextImageResponse{
				GeneratedImages: []*genai.GeneratedImage{
					{Image: &genai.Image{ImageBytes: generated.Data(), MIMEType: "image/jpeg"}},
				},
			},
		}
		service := &GenAIService{config: testConfig, models: fake}

		result, err := service.GenerateTryOn(context.Background(), testRequest(t), person, garment)
		if err != nil {
			t.Fatalf("GenerateTryOn() error = %v", err)
		}

		if fake.model != testConfig.Model {
			t.Errorf("model = %s, want %s", fake.model, testConfig.Model)
		}
		if fake.config.OutputMIMEType != "image/jpeg" {
			t.Errorf("OutputMIMEType = %s", fake.config.OutputMIMEType)
		}
		if fake.config.NumberOfImages == nil || *fake.config.NumberOfImages != 1 {
			t.Errorf("NumberOfImages = %v", fake.config.NumberOfImages)
		}
		if string(fake.config.SafetyFilterLevel) != "BLOCK_LOW_AND_ABOVE" {
			t.Errorf("SafetyFilterLevel = %s", fake.config.SafetyFilterLevel)
		}
		if len(fake.source.ProductImages) != 1 {
			t.Errorf("expected exactly one product image, got %d", len(fake.source.ProductImages))
		}
		if !bytes.Equal(fake.source.PersonImage.ImageBytes, person.Data()) {
			t.Errorf("person bytes were not forwarded")
		}
		if !bytes.Equal(result.FirstImage().Data(), generated.Data()) {
			t.Errorf("result bytes differ from generated image")
		}
	})

	t.Run("zero images keeps the filter reason", func(t *testing.T) {
		fake := &fakeModels{
			resp: &genai.RecontextImageResponse{
				GeneratedImages: []*genai.GeneratedImage{
					{RAIFilteredReason: "blocked: person"},
				},
			},
		}
		service := &GenAIService{config: testConfig, models: fake}

		result, err := service.GenerateTryOn(context.Background(), testRequest(t), person, garment)
		if err != nil {
			t.Fatalf("GenerateTryOn() error = %v", err)
		}
		if result.HasImages() {
			t.Errorf("expected no images")
		}
		if result.FilteredReason() != "blocked: person" {
			t.Errorf("FilteredReason() = %q", result.FilteredReason())
		}
	})

	t.Run("sdk error is wrapped", func(t *testing.T) {
		cause := errors.New("permission denied")
		service := &GenAIService{config: testConfig, models: &fakeModels{err: cause}}

		_, err := service.GenerateTryOn(context.Background(), testRequest(t), person, garment)
		if !errors.Is(err, cause) {
			t.Errorf("expected wrapped cause, got %v", err)
		}
	})
}
