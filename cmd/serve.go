package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiesman99/herobanner/internal/server"
)

// Version is reported by the health endpoint
var Version = "1.0.0"

func newServeCmd(v *viper.Viper) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP server for previewing hero banners",
		Long: `Start an HTTP server that renders hero banners on request without
writing the output file.

Examples:
  # Start server on default port 8080
  herobanner serve

  # Preview a blended banner
  curl -o preview.jpg 'http://localhost:8080/api/v1/hero?indexes=1,0,2&mode=blend'

  # Start server with custom bind address
  herobanner serve --bind 0.0.0.0 --port 8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, v)
		},
	}

	// Server configuration
	serveCmd.Flags().StringP("bind", "b", "localhost", "bind address")
	serveCmd.Flags().IntP("port", "p", 8080, "port to listen on")
	serveCmd.Flags().Duration("timeout", 30*time.Second, "request timeout")

	// Bind flags to viper
	v.BindPFlag("server.bind", serveCmd.Flags().Lookup("bind"))
	v.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	v.BindPFlag("server.timeout", serveCmd.Flags().Lookup("timeout"))

	return serveCmd
}

func runServe(cmd *cobra.Command, v *viper.Viper) error {
	bind := v.GetString("server.bind")
	port := v.GetInt("server.port")
	timeout := v.GetDuration("server.timeout")

	quality := v.GetInt("quality")
	if quality < 1 || quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100, got %d", quality)
	}
	height := v.GetInt("height")
	if height <= 0 {
		return fmt.Errorf("height must be positive, got %d", height)
	}

	addr := fmt.Sprintf("%s:%d", bind, port)

	apiServer := server.NewServer(server.Config{
		Categories:   categories(v),
		TargetHeight: height,
		Quality:      quality,
		Version:      Version,
	})

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.NewRouter(apiServer, timeout),
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		fmt.Fprintf(cmd.ErrOrStderr(), "\nShutting down server...\n")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	fmt.Fprintf(cmd.ErrOrStderr(), "Starting herobanner server on %s\n", addr)
	fmt.Fprintf(cmd.ErrOrStderr(), "Health check: http://%s/api/v1/health\n", addr)
	fmt.Fprintf(cmd.ErrOrStderr(), "Categories: http://%s/api/v1/categories\n", addr)
	fmt.Fprintf(cmd.ErrOrStderr(), "Hero preview: http://%s/api/v1/hero?indexes=0,0,0&mode=side-by-side\n", addr)

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("server error: %v", err)
	}

	return nil
}
