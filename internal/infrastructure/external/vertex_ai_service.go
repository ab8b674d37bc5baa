package external

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"

	"tryon-combine/internal/domain/entities"
	"tryon-combine/internal/domain/repositories"
	"tryon-combine/internal/domain/valueobjects"
	"tryon-combine/model"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// VertexAIService calls the virtual try-on model through the Vertex AI
// `:predict` REST endpoint.
type VertexAIService struct {
	config  repositories.AIClientConfig
	client  *http.Client
	baseURL string
}

// NewVertexAIService builds an OAuth2-authenticated client from Application
// Default Credentials, or from credentialsFile when it is set.
func NewVertexAIService(ctx context.Context, config repositories.AIClientConfig, credentialsFile string) (*VertexAIService, error) {
	opts := []option.ClientOption{option.WithScopes(cloudPlatformScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, _, err := htransport.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated http client: %w", err)
	}

	return NewVertexAIServiceWithClient(config, client, fmt.Sprintf("https://%s-aiplatform.googleapis.com", config.Location)), nil
}

func NewVertexAIServiceWithClient(config repositories.AIClientConfig, client *http.Client, baseURL string) *VertexAIService {
	return &VertexAIService{
		config:  config,
		client:  client,
		baseURL: baseURL,
	}
}

func (s *VertexAIService) endpoint() string {
	return fmt.Sprintf("%s/v1/projects/%s/locations/%s/publishers/google/models/%s:predict",
		s.baseURL, s.config.ProjectID, s.config.Location, s.config.Model)
}

func (s *VertexAIService) GenerateTryOn(
	ctx context.Context,
	request *entities.TryOnRequest,
	person *valueobjects.ImageData,
	garment *valueobjects.ImageData,
) (*entities.TryOnResult, error) {
	params := request.Parameters()

	outputOptions := map[string]interface{}{
		"mimeType": string(params.OutputMimeType()),
	}
	if params.OutputMimeType() == valueobjects.MimeTypeJPEG && params.CompressionQuality() > 0 {
		outputOptions["compressionQuality"] = params.CompressionQuality()
	}

	parameters := map[string]interface{}{
		"addWatermark":     params.AddWatermark(),
		"baseSteps":        params.BaseSteps(),
		"personGeneration": string(params.PersonGeneration()),
		"safetySetting":    string(params.SafetySetting()),
		"sampleCount":      params.SampleCount(),
		"outputOptions":    outputOptions,
	}

	// The API rejects a seed while watermarking is on.
	if !params.AddWatermark() && params.Seed() > 0 {
		parameters["seed"] = params.Seed()
	}

	apiRequest := map[string]interface{}{
		"instances": []map[string]interface{}{
			{
				"personImage": map[string]interface{}{
					"image": map[string]interface{}{
						"bytesBase64Encoded": person.ToBase64(),
					},
				},
				"productImages": []map[string]interface{}{
					{
						"image": map[string]interface{}{
							"bytesBase64Encoded": garment.ToBase64(),
						},
					},
				},
			},
		},
		"parameters": parameters,
	}

	reqBody, err := json.Marshal(apiRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	slog.Debug("vertex predict request", "requestID", request.ID(), "model", s.config.Model, "parameters", parameters)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint(), bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	predResp, err := s.parseResponse(respBody)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	var images []*valueobjects.ImageData
	for i, prediction := range predResp.Predictions {
		if prediction.BytesBase64Encoded == "" {
			continue
		}

		imageBytes, err := base64.StdEncoding.DecodeString(prediction.BytesBase64Encoded)
		if err != nil {
			slog.Warn("skipping undecodable prediction", "requestID", request.ID(), "index", i, "error", err)
			continue
		}

		imageData, err := valueobjects.NewImageData(imageBytes)
		if err != nil {
			slog.Warn("skipping invalid prediction image", "requestID", request.ID(), "index", i, "error", err)
			continue
		}

		images = append(images, imageData)
	}

	result := entities.NewTryOnResult(request.ID(), images)
	result.SetFilteredReason(predResp.FilteredReason())
	return result, nil
}

func (s *VertexAIService) parseResponse(data []byte) (*model.VirtualTryOnResponse, error) {
	var response model.VirtualTryOnResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

func (s *VertexAIService) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
