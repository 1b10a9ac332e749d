package cmd

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"bulkdozer/core/loader"
	"bulkdozer/core/logger"
	"bulkdozer/core/middleware/auth"
	"bulkdozer/core/middleware/rayid"
	"bulkdozer/feature/bulk"
	"bulkdozer/feature/integrity"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "bulkdozer/docs/swagger"
)

// @title Bulkdozer API
// @version 1.0
// @description Bulk sync between a tabular workbook and Campaign Manager.
// @host localhost:8080
// @BasePath /

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bulkdozer server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.close()
		logg := a.logger
		zap.ReplaceGlobals(logg)

		// The sync routes stay off until a profile id is known.
		if err := a.connectRemote(ctx); err != nil {
			logg.Warn("Remote service unavailable, bulk routes disabled", zap.Error(err))
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager()
		mgr.Register(bulk.NewFeature(a.bulkDeps()))
		mgr.Register(integrity.NewFeature(a.integrityDeps()))

		// RayID goes first so every later log line carries it.
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

		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{
			ApiKey: a.cfg.Server.ApiKey,
			Next: func(c *fiber.Ctx) bool {
				return strings.HasPrefix(c.Path(), "/swagger")
			},
		}))

		if err := mgr.LoadAll(app); err != nil {
			return err
		}
		for _, f := range mgr.Features() {
			logg.Info("Feature", zap.String("name", f.Name()), zap.Bool("enabled", f.IsEnabled()))
		}

		go func() {
			logg.Info("Starting server",
				zap.String("address", a.cfg.Server.Address()),
				zap.Bool("auth", a.cfg.Server.AuthEnabled()),
			)
			if err := app.Listen(a.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
