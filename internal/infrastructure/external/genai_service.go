package external

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"tryon-combine/internal/domain/entities"
	"tryon-combine/internal/domain/repositories"
	"tryon-combine/internal/domain/valueobjects"
)

// recontextModels is the subset of *genai.Models this service needs.
type recontextModels interface {
	RecontextImage(
		ctx context.Context,
		model string,
		source *genai.RecontextImageSource,
		config *genai.RecontextImageConfig,
	) (*genai.RecontextImageResponse, error)
}

// GenAIService calls the virtual try-on model through the genai SDK
// (Vertex AI backend).
type GenAIService struct {
	config repositories.AIClientConfig
	models recontextModels
}

func NewGenAIService(ctx context.Context, config repositories.AIClientConfig) (*GenAIService, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  config.ProjectID,
		Location: config.Location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GenAIService{
		config: config,
		models: client.Models,
	}, nil
}

func (s *GenAIService) GenerateTryOn(
	ctx context.Context,
	request *entities.TryOnRequest,
	person *valueobjects.ImageData,
	garment *valueobjects.ImageData,
) (*entities.TryOnResult, error) {
	params := request.Parameters()

	source := &genai.RecontextImageSource{
		PersonImage: &genai.Image{
			ImageBytes: person.Data(),
			MIMEType:   person.MimeType(),
		},
		ProductImages: []*genai.ProductImage{
			{
				ProductImage: &genai.Image{
					ImageBytes: garment.Data(),
					MIMEType:   garment.MimeType(),
				},
			},
		},
	}

	config := &genai.RecontextImageConfig{
		OutputMIMEType:    string(params.OutputMimeType()),
		NumberOfImages:    genai.Ptr(int32(params.SampleCount())),
		SafetyFilterLevel: genai.SafetyFilterLevel(params.SafetySetting().Upper()),
		PersonGeneration:  genai.PersonGeneration(params.PersonGeneration().Upper()),
		AddWatermark:      genai.Ptr(params.AddWatermark()),
		BaseSteps:         genai.Ptr(int32(params.BaseSteps())),
	}
	if params.OutputMimeType() == valueobjects.MimeTypeJPEG && params.CompressionQuality() > 0 {
		config.OutputCompressionQuality = genai.Ptr(int32(params.CompressionQuality()))
	}
	if !params.AddWatermark() && params.Seed() > 0 {
		config.Seed = genai.Ptr(int32(params.Seed()))
	}

	slog.Info("RecontextImage", "requestID", request.ID(), "model", s.config.Model,
		"personBytes", person.Size(), "garmentBytes", garment.Size())

	resp, err := s.models.RecontextImage(ctx, s.config.Model, source, config)
	if err != nil {
		return nil, fmt.Errorf("failed to recontext image: %w", err)
	}

	var images []*valueobjects.ImageData
	var filteredReason string
	for i, generated := range resp.GeneratedImages {
		if generated == nil {
			continue
		}
		if generated.RAIFilteredReason != "" && filteredReason == "" {
			filteredReason = generated.RAIFilteredReason
		}
		if generated.Image == nil || len(generated.Image.ImageBytes) == 0 {
			continue
		}

		imageData, err := valueobjects.NewImageData(generated.Image.ImageBytes)
		if err != nil {
			slog.Warn("skipping invalid generated image", "requestID", request.ID(), "index", i, "error", err)
			continue
		}
		images = append(images, imageData)
	}

	result := entities.NewTryOnResult(request.ID(), images)
	result.SetFilteredReason(filteredReason)
	return result, nil
}

// Close is a no-op; the genai client holds no resources that need releasing.
func (s *GenAIService) Close() error {
	return nil
}
