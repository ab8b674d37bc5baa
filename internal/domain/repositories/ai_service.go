package repositories

import (
	"context"

	"tryon-combine/internal/domain/entities"
	"tryon-combine/internal/domain/valueobjects"
)

// AIService performs the remote virtual try-on call.
type AIService interface {
	GenerateTryOn(
		ctx context.Context,
		request *entities.TryOnRequest,
		person *valueobjects.ImageData,
		garment *valueobjects.ImageData,
	) (*entities.TryOnResult, error)

	Close() error
}

// ImageFetcher downloads a remote image into a local file. It never returns
// an error; failures are reported through the result.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string, dest string) entities.FetchResult
}
