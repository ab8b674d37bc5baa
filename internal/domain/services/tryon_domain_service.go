package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"tryon-combine/internal/domain/apperror"
	"tryon-combine/internal/domain/entities"
	"tryon-combine/internal/domain/repositories"
)

type TryOnDomainService struct {
	aiService repositories.AIService
}

func NewTryOnDomainService(aiService repositories.AIService) *TryOnDomainService {
	return &TryOnDomainService{
		aiService: aiService,
	}
}

// ProcessTryOn loads both images and runs the remote try-on. Every returned
// error is an *apperror.Error.
func (s *TryOnDomainService) ProcessTryOn(ctx context.Context, request *entities.TryOnRequest) (*entities.TryOnResult, error) {
	if err := s.validateRequest(request); err != nil {
		return nil, apperror.New(apperror.Internal, "internal server error", fmt.Errorf("request validation failed: %w", err))
	}

	person, garment, err := request.LoadImages()
	if err != nil {
		return nil, apperror.New(apperror.InvalidUpload, "uploaded files must be JPEG, PNG, GIF or WebP images", err)
	}

	result, err := s.aiService.GenerateTryOn(ctx, request, person, garment)
	if err != nil {
		return nil, s.classify(ctx, err)
	}

	if !result.HasImages() {
		slog.Warn("try-on returned no images", "requestID", request.ID(), "filteredReason", result.FilteredReason())
		return nil, apperror.New(
			apperror.ContentFiltered,
			"the images were rejected by the safety filter",
			fmt.Errorf("no images generated (reason: %q)", result.FilteredReason()),
		)
	}

	return result, nil
}

func (s *TryOnDomainService) validateRequest(request *entities.TryOnRequest) error {
	if request == nil {
		return fmt.Errorf("request is required")
	}

	if request.Parameters() == nil {
		return fmt.Errorf("parameters are required")
	}

	return nil
}

func (s *TryOnDomainService) classify(ctx context.Context, err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperror.New(apperror.UpstreamTimeout, "the try-on service did not respond in time", err)
	}

	if s.isQuotaError(err) {
		return apperror.New(apperror.QuotaExceeded, "service temporarily unavailable due to high demand", err)
	}

	return apperror.New(apperror.TryOnFailed, "try-on generation failed", err)
}

func (s *TryOnDomainService) isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "quota exceeded") ||
		strings.Contains(errStr, "resourceexhausted") ||
		strings.Contains(errStr, "resource_exhausted") ||
		strings.Contains(errStr, "status 429")
}
