package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/household-twins/bookshelf/internal/audit"
	"github.com/household-twins/bookshelf/internal/bookshelf"
	"github.com/household-twins/bookshelf/internal/covers"
	"github.com/household-twins/bookshelf/internal/handlers"
	"github.com/household-twins/bookshelf/internal/storage"
	"github.com/household-twins/bookshelf/internal/vision"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		port     string
		dataDir  string
		provider string
		model    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the bookshelf digital twin API server",
		Long: `Starts the bookshelf HTTP API on the specified port.

The API accepts shelf photos for vision-based book detection, manages the
persisted bookshelf, and runs audit sessions that reconcile the digital twin
against what is actually on the shelf.`,
		Example: `  # Start server on default port 8000
  bookshelf serve

  # Custom port and data directory, OpenAI as the vision provider
  bookshelf serve --port 3000 --data-dir /var/lib/bookshelf --provider openai`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dataDir == "" {
				dataDir = os.Getenv("BOOKSHELF_DATA_DIR")
			}
			if dataDir == "" {
				dataDir = "data"
			}

			lock, err := storage.LockDir(dataDir)
			if err != nil {
				return err
			}
			defer func() {
				if err := lock.Release(); err != nil {
					slog.Warn("Failed to release data directory lock", "err", err)
				}
			}()

			visionSvc, err := vision.NewService(provider, model)
			if err != nil {
				return err
			}
			if !visionSvc.Configured() {
				slog.Warn("Vision provider is not configured; image scanning will be unavailable",
					"provider", visionSvc.ProviderName())
			}

			shelfStore := bookshelf.NewStore(dataDir)
			auditStore := audit.NewStore(dataDir)
			handler := handlers.New(shelfStore, auditStore, visionSvc, covers.NewClient())

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/health", handler.HandleHealth)
			mux.HandleFunc("/api/scan", handler.HandleScan)
			mux.HandleFunc("/api/bookshelf", handler.HandleBookshelf)
			mux.HandleFunc("/api/bookshelf/book", handler.HandleBookshelfBook)
			mux.HandleFunc("/api/bookshelf/reorder", handler.HandleReorder)
			mux.HandleFunc("/api/audit", handler.HandleAudit)
			mux.HandleFunc("/api/audit/start", handler.HandleAuditStart)
			mux.HandleFunc("/api/audit/scan", handler.HandleAuditScan)
			mux.HandleFunc("/api/audit/book", handler.HandleAuditBook)
			mux.HandleFunc("/api/audit/diff", handler.HandleAuditDiff)
			mux.HandleFunc("/api/audit/apply", handler.HandleAuditApply)

			addr := ":" + port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Bookshelf API available", "addr", addr, "data_dir", dataDir,
					"provider", visionSvc.ProviderName())
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8000", "Port to listen on")
	cmd.Flags().StringVarP(&dataDir, "data-dir", "d", "", "Directory for persisted state (default \"data\")")
	cmd.Flags().StringVar(&provider, "provider", "", "Vision provider: gemini, openai, or ollama (default gemini)")
	cmd.Flags().StringVar(&model, "model", "", "Vision model (defaults to the provider's default)")

	return cmd
}
