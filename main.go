package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appservices "tryon-combine/internal/application/services"
	"tryon-combine/internal/application/usecases"
	"tryon-combine/internal/config"
	"tryon-combine/internal/domain/repositories"
	domainservices "tryon-combine/internal/domain/services"
	"tryon-combine/internal/infrastructure/api"
	"tryon-combine/internal/infrastructure/external"
	infrarepos "tryon-combine/internal/infrastructure/repositories"
	"tryon-combine/internal/infrastructure/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("[boot] Using VTO_MODEL=%s", cfg.VTOModel)
	log.Printf("[boot] USE_SDK=%v (false=REST API, true=genai.Client)", cfg.UseSDK)

	// Infrastructure
	aiService, err := external.NewAIService(ctx, repositories.AIClientConfig{
		ProjectID: cfg.ProjectID,
		Location:  cfg.Location,
		Model:     cfg.VTOModel,
	}, cfg.UseSDK, cfg.CredentialsFile)
	if err != nil {
		log.Fatalf("Failed to create try-on service: %v", err)
	}
	defer aiService.Close()

	workspace, err := storage.NewWorkspace(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}
	tempFiles := infrarepos.NewMemoryTempFileRepository()
	fetcher := external.NewHTTPImageFetcher(cfg.FetchTimeout, cfg.MaxUploadBytes)

	// Domain
	tryOnDomainService := domainservices.NewTryOnDomainService(aiService)

	// Application
	tryOnUseCase := usecases.NewTryOnUseCase(workspace, tempFiles, fetcher, tryOnDomainService, cfg.RequestTimeout)
	formService := appservices.NewFormService(cfg.MaxUploadBytes)

	// API
	handler := api.NewTryOnHandler(tryOnUseCase, formService, cfg.Location)
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		log.Printf("Project: %s, Location: %s, Model: %s", cfg.ProjectID, cfg.Location, cfg.VTOModel)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout+5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}

	if removed := tryOnUseCase.Sweep(context.Background()); removed > 0 {
		log.Printf("Removed %d leftover temp files", removed)
	}
}
