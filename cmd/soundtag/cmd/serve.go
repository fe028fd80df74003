package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soundtag-tech/soundtag/internal/server"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for the barcode API",
	Long: `Start an HTTP server that provides REST API endpoints for the
barcode codec.

The server provides the following endpoints:
  POST /codes/encode - Encode a media reference into bar heights
  POST /codes/decode - Decode bar heights into a media reference
  POST /codes/render - Render a media reference as a barcode PNG
  POST /codes/scan   - Scan an uploaded barcode image
  GET  /codes/ws     - WebSocket for interactive encode/decode
  GET  /health       - Health check endpoint
  GET  /metrics      - Prometheus metrics

Examples:
  soundtag serve
  soundtag serve --port 8080
  soundtag serve --host 0.0.0.0 --port 3000`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		host := cfg.Server.Host
		if cmd.Flags().Changed("host") {
			host, _ = cmd.Flags().GetString("host")
		}
		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}
		corsOrigin := cfg.Server.CORSOrigin
		if cmd.Flags().Changed("cors-origin") {
			corsOrigin, _ = cmd.Flags().GetString("cors-origin")
		}
		logoPath := cfg.Detect.LogoPath
		if cmd.Flags().Changed("logo") {
			logoPath, _ = cmd.Flags().GetString("logo")
		}

		apiServer, err := server.NewServer(server.Config{
			Host:              host,
			Port:              port,
			CORSOrigin:        corsOrigin,
			MaxUploadMB:       cfg.Server.MaxUploadMB,
			TimeoutSec:        cfg.Server.TimeoutSec,
			LogoPath:          logoPath,
			MinLogoConfidence: cfg.Detect.MinLogoConfidence,
		})
		if err != nil {
			return err
		}

		mux := http.NewServeMux()
		apiServer.SetupRoutes(mux)

		httpServer := &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       time.Duration(cfg.Server.TimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(cfg.Server.TimeoutSec) * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("Starting barcode API server", "host", host, "port", port)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-sigCh:
			slog.Info("Received signal, shutting down", "signal", sig.String())
		}

		shutdownTimeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
		slog.Info("Starting graceful shutdown", "timeout", shutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		slog.Info("Server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("host", "", "host to bind to")
	serveCmd.Flags().Int("port", 0, "port to listen on")
	serveCmd.Flags().String("cors-origin", "", "CORS allowed origin")
	serveCmd.Flags().String("logo", "", "logo image enabling detection on the scan endpoint")
	rootCmd.AddCommand(serveCmd)
}
