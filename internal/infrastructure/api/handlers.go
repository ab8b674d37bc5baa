package api

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"tryon-combine/internal/application/services"
	"tryon-combine/internal/application/usecases"
	"tryon-combine/internal/domain/apperror"
	"tryon-combine/model"
)

//go:embed web
var webFS embed.FS

var indexTemplate = template.Must(template.ParseFS(webFS, "web/index.html"))

type TryOnHandler struct {
	tryOnUseCase *usecases.TryOnUseCase
	formService  *services.FormService
	location     string // shown on the index page
}

func NewTryOnHandler(
	tryOnUseCase *usecases.TryOnUseCase,
	formService *services.FormService,
	location string,
) *TryOnHandler {
	return &TryOnHandler{
		tryOnUseCase: tryOnUseCase,
		formService:  formService,
		location:     location,
	}
}

func (h *TryOnHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := map[string]string{"Location": h.location}
	if err := indexTemplate.Execute(w, data); err != nil {
		slog.Error("failed to render index", "error", err)
	}
}

// StaticFiles serves the page assets bundled with the binary.
func StaticFiles() http.Handler {
	sub, err := fs.Sub(webFS, "web/static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

func (h *TryOnHandler) HandleCombine(w http.ResponseWriter, r *http.Request) {
	input, release, err := h.formService.ParseCombineForm(w, r)
	defer release()
	if err != nil {
		h.sendError(w, r, err)
		return
	}

	err = h.tryOnUseCase.Execute(r.Context(), *input, func(ctx context.Context, output *usecases.TryOnOutput) error {
		return h.streamResult(w, r, output)
	})
	if err != nil {
		h.sendError(w, r, err)
	}
}

func (h *TryOnHandler) streamResult(w http.ResponseWriter, r *http.Request, output *usecases.TryOnOutput) error {
	f, err := os.Open(output.ResultPath)
	if err != nil {
		return apperror.New(apperror.Internal, "internal server error", err)
	}
	defer f.Close()

	slog.Info("sending try-on result", "requestID", output.RequestID, "size", humanize.Bytes(uint64(output.Size)))

	w.Header().Set("Content-Type", output.MimeType)
	w.Header().Set("Cache-Control", "no-store, max-age=0")
	w.Header().Set("X-Try-On-Request-ID", string(output.RequestID))
	http.ServeContent(w, r, filepath.Base(output.ResultPath), time.Time{}, f)
	return nil
}

func (h *TryOnHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// sendError logs the full error and writes only the stable code and
// client-safe message.
func (h *TryOnHandler) sendError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperror.From(err)
	status := StatusFor(appErr.Code)

	attrs := []any{"path", r.URL.Path, "code", appErr.Code, "status", status, "error", err}
	if status >= http.StatusInternalServerError {
		slog.Error("combine failed", attrs...)
	} else {
		slog.Warn("combine rejected", attrs...)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{
		Error: appErr.Message,
		Code:  string(appErr.Code),
	})
}

// StatusFor maps an error code to its HTTP status. Remote failures are all
// 500; the code in the body tells them apart.
func StatusFor(code apperror.Code) int {
	switch code {
	case apperror.MissingPersonImage, apperror.MissingGarmentImage, apperror.EmptyFilename, apperror.InvalidUpload:
		return http.StatusBadRequest
	case apperror.PayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case apperror.ContentFiltered:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
