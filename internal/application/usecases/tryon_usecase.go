package usecases

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"tryon-combine/internal/domain/apperror"
	"tryon-combine/internal/domain/entities"
	"tryon-combine/internal/domain/repositories"
	"tryon-combine/internal/domain/services"
	"tryon-combine/internal/domain/valueobjects"
)

type TryOnUseCase struct {
	workspace      repositories.Workspace
	tempFiles      repositories.TempFileRepository
	fetcher        repositories.ImageFetcher
	domainService  *services.TryOnDomainService
	parameters     *valueobjects.TryOnParameters
	requestTimeout time.Duration
}

func NewTryOnUseCase(
	workspace repositories.Workspace,
	tempFiles repositories.TempFileRepository,
	fetcher repositories.ImageFetcher,
	domainService *services.TryOnDomainService,
	requestTimeout time.Duration,
) *TryOnUseCase {
	return &TryOnUseCase{
		workspace:      workspace,
		tempFiles:      tempFiles,
		fetcher:        fetcher,
		domainService:  domainService,
		parameters:     valueobjects.DefaultTryOnParameters(),
		requestTimeout: requestTimeout,
	}
}

// UploadedImage is an image file received from the client.
type UploadedImage struct {
	Filename string
	Content  io.Reader
}

// TryOnInput carries one person image and exactly one garment source.
// When both Garment and GarmentURL are set the upload wins.
type TryOnInput struct {
	Person     *UploadedImage
	Garment    *UploadedImage
	GarmentURL string
}

type TryOnOutput struct {
	RequestID  entities.TryOnRequestID
	ResultPath string
	MimeType   string
	Size       int64
}

// Responder delivers the finished result. The file at ResultPath is deleted
// as soon as the responder returns.
type Responder func(ctx context.Context, output *TryOnOutput) error

// Execute runs the whole combine flow. Every temporary file it creates is
// removed before it returns, whether or not the flow succeeded.
func (uc *TryOnUseCase) Execute(ctx context.Context, input TryOnInput, respond Responder) error {
	if input.Person == nil {
		return apperror.New(apperror.MissingPersonImage, "No person image uploaded", nil)
	}
	if input.Garment == nil && strings.TrimSpace(input.GarmentURL) == "" {
		return apperror.New(apperror.MissingGarmentImage, "No product image or URL provided", nil)
	}

	if uc.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.requestTimeout)
		defer cancel()
	}

	id := entities.NewTryOnRequestID()
	logger := slog.With("requestID", id)
	defer uc.cleanup(logger, id)

	personPath, err := uc.saveUpload(ctx, id, "person", input.Person)
	if err != nil {
		return err
	}

	garmentPath, err := uc.acquireGarment(ctx, logger, id, input)
	if err != nil {
		return err
	}

	request, err := entities.NewTryOnRequest(id, personPath, garmentPath, uc.parameters)
	if err != nil {
		return apperror.New(apperror.Internal, "internal server error", err)
	}

	started := time.Now()
	result, err := uc.domainService.ProcessTryOn(ctx, request)
	if err != nil {
		return err
	}
	logger.Info("try-on completed", "elapsed", time.Since(started).Round(time.Millisecond))

	output, err := uc.saveResult(ctx, id, result)
	if err != nil {
		return err
	}

	return respond(ctx, output)
}

func (uc *TryOnUseCase) acquireGarment(ctx context.Context, logger *slog.Logger, id entities.TryOnRequestID, input TryOnInput) (string, error) {
	if input.Garment != nil {
		return uc.saveUpload(ctx, id, "prod", input.Garment)
	}

	dest := uc.workspace.Path(id, "prod_downloaded", "")
	if err := uc.tempFiles.Track(ctx, id, dest); err != nil {
		return "", apperror.New(apperror.Internal, "internal server error", err)
	}

	fetched := uc.fetcher.Fetch(ctx, strings.TrimSpace(input.GarmentURL), dest)
	if !fetched.OK() {
		logger.Warn("garment download failed", "reason", fetched.Failure.Reason, "error", fetched.Failure.Err)
		return "", apperror.New(apperror.GarmentFetchFailed, "Failed to download product URL", fetched.Failure)
	}
	return fetched.Path, nil
}

func (uc *TryOnUseCase) saveUpload(ctx context.Context, id entities.TryOnRequestID, role string, upload *UploadedImage) (string, error) {
	path := uc.workspace.Path(id, role, imageExtension(upload.Filename))
	if err := uc.tempFiles.Track(ctx, id, path); err != nil {
		return "", apperror.New(apperror.Internal, "internal server error", err)
	}

	n, err := uc.workspace.Save(path, upload.Content)
	if err != nil {
		return "", apperror.New(apperror.InvalidUpload, fmt.Sprintf("failed to read %s image", role), err)
	}
	slog.Debug("saved upload", "requestID", id, "role", role, "size", humanize.Bytes(uint64(n)))
	return path, nil
}

func (uc *TryOnUseCase) saveResult(ctx context.Context, id entities.TryOnRequestID, result *entities.TryOnResult) (*TryOnOutput, error) {
	image := result.FirstImage()
	path := uc.workspace.Path(id, "result", uc.parameters.OutputMimeType().Extension())
	if err := uc.tempFiles.Track(ctx, id, path); err != nil {
		return nil, apperror.New(apperror.Internal, "internal server error", err)
	}

	n, err := uc.workspace.Save(path, bytes.NewReader(image.Data()))
	if err != nil {
		return nil, apperror.New(apperror.Internal, "internal server error", fmt.Errorf("failed to save result: %w", err))
	}

	return &TryOnOutput{
		RequestID:  id,
		ResultPath: path,
		MimeType:   string(uc.parameters.OutputMimeType()),
		Size:       n,
	}, nil
}

func (uc *TryOnUseCase) cleanup(logger *slog.Logger, id entities.TryOnRequestID) {
	paths, err := uc.tempFiles.Release(context.Background(), id)
	if err != nil {
		logger.Error("failed to release temp files", "error", err)
		return
	}
	for _, path := range paths {
		if err := uc.workspace.Remove(path); err != nil {
			logger.Error("error cleaning up file", "path", path, "error", err)
		}
	}
}

// Sweep removes files left behind by requests that never reached cleanup.
func (uc *TryOnUseCase) Sweep(ctx context.Context) int {
	pending, err := uc.tempFiles.Pending(ctx)
	if err != nil {
		slog.Error("failed to list pending temp files", "error", err)
		return 0
	}

	removed := 0
	for id := range pending {
		paths, err := uc.tempFiles.Release(ctx, id)
		if err != nil {
			slog.Error("failed to release temp files", "requestID", id, "error", err)
			continue
		}
		for _, path := range paths {
			if err := uc.workspace.Remove(path); err != nil {
				slog.Error("error cleaning up file", "requestID", id, "path", path, "error", err)
				continue
			}
			removed++
		}
	}
	return removed
}

// imageExtension keeps a known image extension from the client filename and
// drops everything else, so nothing client-controlled reaches the path.
func imageExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	default:
		return ""
	}
}
