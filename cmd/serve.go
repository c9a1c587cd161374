package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiesman99/gridmark/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for image watermarking",
	Long: `Start an HTTP server that watermarks uploaded images.

Upload an image as the multipart field "image". The watermark flags of the
root command set the defaults; requests may override them with query
parameters.

Examples:
  # Start server on default port 3000
  gridmark serve

  # Start server with custom bind address and default text
  gridmark serve --bind 0.0.0.0 --port 8080 --text "© Example Corp"

  # Watermark an image
  curl -F image=@photo.jpg "http://localhost:3000/api/v1/watermark?count=20" -o out.png`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server configuration
	serveCmd.Flags().StringP("bind", "b", "localhost", "bind address")
	serveCmd.Flags().IntP("port", "p", 3000, "port to listen on")
	serveCmd.Flags().Duration("timeout", 30*time.Second, "request timeout")
	serveCmd.Flags().Int64("max-upload", server.DefaultMaxUploadSize, "maximum upload size in bytes")
	serveCmd.Flags().Int64("upload-memory", server.DefaultUploadMemory, "upload bytes kept in memory before spilling to temp files")
	serveCmd.Flags().Int64("max-concurrent", int64(runtime.NumCPU()), "maximum concurrent renders")

	// Bind flags to viper
	viper.BindPFlag("server.bind", serveCmd.Flags().Lookup("bind"))
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.timeout", serveCmd.Flags().Lookup("timeout"))
	viper.BindPFlag("server.max-upload", serveCmd.Flags().Lookup("max-upload"))
	viper.BindPFlag("server.upload-memory", serveCmd.Flags().Lookup("upload-memory"))
	viper.BindPFlag("server.max-concurrent", serveCmd.Flags().Lookup("max-concurrent"))
}

func runServe(cmd *cobra.Command, args []string) error {
	bind := viper.GetString("server.bind")
	port := viper.GetInt("server.port")
	timeout := viper.GetDuration("server.timeout")

	addr := fmt.Sprintf("%s:%d", bind, port)
	logger := newLogger(cmd.ErrOrStderr())

	defaults, err := watermarkOptions()
	if err != nil {
		return err
	}
	// A seeded generator cannot be shared between requests; use ?seed= instead.
	if defaults.Rand != nil {
		logger.Warn("Ignoring --seed in server mode; pass the seed query parameter per request")
		defaults.Rand = nil
	}

	apiServer := server.NewServer(server.Config{
		Version:       version,
		Defaults:      defaults,
		MaxUploadSize: viper.GetInt64("server.max-upload"),
		UploadMemory:  viper.GetInt64("server.upload-memory"),
		MaxConcurrent: viper.GetInt64("server.max-concurrent"),
		Logger:        logger,
	})

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.NewRouter(apiServer, timeout),
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()

		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "err", err)
		}
	}()

	logger.Info("Starting gridmark server", "addr", addr, "text", defaults.Style.Text, "count", defaults.Count)
	logger.Info("Health check: http://" + addr + "/api/v1/health")
	logger.Info("Watermark endpoint: http://" + addr + "/api/v1/watermark")

	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
