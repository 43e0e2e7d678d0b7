package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"gyrinx-content/core/loader"
	"gyrinx-content/core/logger"
	"gyrinx-content/core/middleware/auth"
	"gyrinx-content/core/middleware/rayid"
	"gyrinx-content/feature/content"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the content HTTP service",
	Long:  `Starts the HTTP server exposing import runs, stored content and dry-run previews.`,
	Run: func(cmd *cobra.Command, args []string) {
		e, err := setup()
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		logg := e.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if err := content.Migrate(e.db); err != nil {
			logg.Fatal("Failed to prepare content tables", zap.Error(err))
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		feature := content.NewFeature(e.db, e.client, e.cfg.Storage.Bucket, e.cfg.Content, logg)
		feature.Service().SetPreviewTimeout(e.cfg.Server.PreviewTimeout())

		mgr := loader.NewManager()
		mgr.Register(feature)

		// RayID first so every later log line carries it.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Use(auth.New(auth.Config{
			ApiKey: e.cfg.Server.ApiKey,
			Public: []string{"/health", "/metrics"},
		}))

		app.Get("/health", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok"})
		})
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("port", e.cfg.Server.Port))
			if err := app.Listen(e.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
