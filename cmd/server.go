package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	httpapi "repair-pool.com/repair-pool/internal/http"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API server",
	Long:  "Starts the repair pool HTTP API and the auto-award scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := bootstrap()
		defer app.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app.scheduler.Start()

		e := echo.New()
		e.HideBanner = true

		handler := httpapi.NewHandler(app.workflow, app.scheduler)
		httpapi.Register(e, handler, app.cfg.RateLimit)

		go func() {
			log.Printf("HTTP server listening on %s", app.cfg.AppURL)
			if err := e.Start(app.cfg.AppURL); err != nil {
				log.Printf("server stopped: %v", err)
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownTimeout())
		defer cancel()

		_ = e.Shutdown(shutdownCtx)
		app.scheduler.Shutdown(shutdownCtx)

		log.Println("HTTP server and award scheduler shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
