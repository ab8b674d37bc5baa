package external

import (
	"context"

	"tryon-combine/internal/domain/repositories"
)

// NewAIService picks the genai SDK backend or the raw REST backend.
func NewAIService(ctx context.Context, config repositories.AIClientConfig, useSDK bool, credentialsFile string) (repositories.AIService, error) {
	if useSDK {
		return NewGenAIService(ctx, config)
	}
	return NewVertexAIService(ctx, config, credentialsFile)
}
