package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"picklr/core/database"
	"picklr/core/loader"
	"picklr/core/logger"
	"picklr/core/middleware/auth"
	"picklr/core/middleware/identity"
	"picklr/core/middleware/rayid"
	"picklr/core/provider"
	"picklr/feature/account"
	"picklr/feature/gallery"
	"picklr/feature/integrity"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "picklr/docs/swagger"
)

// @title Picklr API
// @version 1.0
// @description Gallery sync and tagging API.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

const callbackPath = "/account/callback"

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the picklr server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Configuration, logger, database
		cfg, logg, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if err := database.Migrate(db, catalogModels()...); err != nil {
			return err
		}
		logg.Info("Catalog ready", zap.String("driver", cfg.Database.Driver))

		// 2. Thumbnails and provider access
		store, err := newThumbStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		clients := provider.NewFactory(cfg.Provider)
		oauth := provider.NewOAuth(cfg.Provider, cfg.Server.CallbackURL(callbackPath))

		// 3. Features
		gal := gallery.NewFeature(galleryDeps(cfg, logg, db, store, clients), cfg.Server.RequestTimeout())
		accounts := account.NewService(gal.Service().Catalog(), oauth, clients, cfg.Provider.Root, logg)
		sessions := session.New(session.Config{Expiration: 10 * time.Minute})

		mgr := loader.NewManager(logg)
		mgr.Register(gal)
		mgr.Register(account.NewFeature(accounts, sessions))
		mgr.Register(integrity.NewFeature(db, store, catalogModels(), logg))

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				code := fiber.StatusInternalServerError
				var fe *fiber.Error
				if errors.As(err, &fe) {
					code = fe.Code
				}
				return c.Status(code).JSON(fiber.Map{"error": err.Error()})
			},
		})

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Request logging
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			started := time.Now()
			err := c.Next()
			fields := []zap.Field{
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
				zap.Int("status", c.Response().StatusCode()),
				zap.Duration("duration", time.Since(started)),
			}
			if err != nil {
				l.Error("Request error", append(fields, zap.Error(err))...)
			} else {
				l.Info("Request served", fields...)
			}
			return err
		})

		// 3. Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 4. Auth and identity
		public := []string{"/swagger", callbackPath}
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey, PublicPaths: public}))
		app.Use(identity.New(identity.Config{Header: cfg.Server.UserHeader, PublicPaths: public}))

		// 5. Load Features
		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		// 6. Start Server
		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			errCh <- app.Listen(":" + cfg.Server.Port)
		}()

		// 7. Graceful Shutdown
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}
		logg.Info("Shutting down server...")
		return app.ShutdownWithTimeout(cfg.Server.RequestTimeout())
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
