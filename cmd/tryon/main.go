package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"tryon-combine/internal/application/usecases"
	"tryon-combine/internal/config"
	"tryon-combine/internal/domain/repositories"
	domainservices "tryon-combine/internal/domain/services"
	"tryon-combine/internal/infrastructure/external"
	infrarepos "tryon-combine/internal/infrastructure/repositories"
	"tryon-combine/internal/infrastructure/storage"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "tryon",
		Short: "Runs virtual try-on requests against Vertex AI from the command line",
	}
	root.AddCommand(runCommand())
	return root
}

type runOpts struct {
	person     string
	garment    string
	garmentURL string
	output     string
}

func runCommand() *cobra.Command {
	opts := runOpts{}

	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Dress a person photo in a garment and write the result",
		Example: "tryon run --person me.jpg --garment shirt.png --out result.jpeg",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (opts.garment == "") == (opts.garmentURL == "") {
				return fmt.Errorf("exactly one of --garment or --garment-url is required")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return run(ctx, cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.person, "person", "", "Person photo")
	cmd.Flags().StringVar(&opts.garment, "garment", "", "Garment photo")
	cmd.Flags().StringVar(&opts.garmentURL, "garment-url", "", "Garment image URL")
	cmd.Flags().StringVar(&opts.output, "out", "result.jpeg", "Where to write the generated image")
	cmd.MarkFlagRequired("person")

	return cmd
}

func run(ctx context.Context, stdout io.Writer, opts runOpts) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	aiService, err := external.NewAIService(ctx, repositories.AIClientConfig{
		ProjectID: cfg.ProjectID,
		Location:  cfg.Location,
		Model:     cfg.VTOModel,
	}, cfg.UseSDK, cfg.CredentialsFile)
	if err != nil {
		return err
	}
	defer aiService.Close()

	tmpDir, err := os.MkdirTemp("", "tryon-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	workspace, err := storage.NewWorkspace(tmpDir)
	if err != nil {
		return err
	}

	useCase := usecases.NewTryOnUseCase(
		workspace,
		infrarepos.NewMemoryTempFileRepository(),
		external.NewHTTPImageFetcher(cfg.FetchTimeout, cfg.MaxUploadBytes),
		domainservices.NewTryOnDomainService(aiService),
		cfg.RequestTimeout,
	)

	personFile, err := os.Open(opts.person)
	if err != nil {
		return err
	}
	defer personFile.Close()

	input := usecases.TryOnInput{
		Person:     &usecases.UploadedImage{Filename: opts.person, Content: personFile},
		GarmentURL: opts.garmentURL,
	}
	if opts.garment != "" {
		garmentFile, err := os.Open(opts.garment)
		if err != nil {
			return err
		}
		defer garmentFile.Close()
		input.Garment = &usecases.UploadedImage{Filename: opts.garment, Content: garmentFile}
	}

	started := time.Now()
	err = useCase.Execute(ctx, input, func(ctx context.Context, output *usecases.TryOnOutput) error {
		data, err := os.ReadFile(output.ResultPath)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.output, data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %s (%s) in %s\n", opts.output, humanize.Bytes(uint64(len(data))), time.Since(started).Round(time.Millisecond))
		return nil
	})
	if err != nil {
		return fmt.Errorf("try-on failed: %w", err)
	}
	return nil
}
