package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"greenspring/core/config"
	"greenspring/core/gpio"
	"greenspring/core/loader"
	"greenspring/core/logger"
	"greenspring/core/middleware/auth"
	"greenspring/core/middleware/rayid"
	"greenspring/core/mqtt"
	"greenspring/core/pinstore"
	"greenspring/core/realtime"
	"greenspring/core/reconcile"

	"greenspring/feature/live"
	"greenspring/feature/pins"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "greenspring/docs/swagger"
)

// @title GreenSpring API
// @version 1.0
// @description Pin configuration and control for the GreenSpring GPIO dashboard.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the GreenSpring server",
	Long:  `Starts the pin engine, the MQTT bridge when enabled, and the HTTP server.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Pin drivers and document store
		factory, err := gpio.NewFactory(cfg.GPIO, logg)
		if err != nil {
			logg.Fatal("Failed to initialize GPIO driver", zap.Error(err))
		}
		logg.Info("GPIO driver selected", zap.String("driver", factory.Name()))

		store, err := pinstore.Open(ctx, cfg.Store, cfg.Storage, cfg.Database, logg)
		if err != nil {
			logg.Fatal("Failed to open pin store", zap.Error(err))
		}

		// 4. Fan-out, broker bridge and engine
		hub := realtime.NewHub(logg)

		opts := reconcile.Options{
			Factory: factory,
			Store:   store,
			Hub:     hub,
			Logger:  logg,
		}
		var bridge *mqtt.Bridge
		if cfg.MQTT.Enabled {
			bridge = mqtt.New(cfg.MQTT, logg)
			opts.Publisher = bridge
		}
		engine := reconcile.New(opts)

		if bridge != nil {
			bridge.OnCommand(func(number, value int) {
				if err := engine.ApplyOutput(context.Background(), number, value, reconcile.OriginMQTT); err != nil {
					logg.Warn("Failed to apply MQTT command", logger.Pin(number), zap.Error(err))
				}
			})
			bridge.Connect()
		}

		if err := engine.Start(ctx); err != nil {
			logg.Fatal("Failed to start pin engine", zap.Error(err))
		}

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// RayID first so every log line can be traced.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Debug("Request started",
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

		protect := auth.New(auth.Config{ApiKey: cfg.Server.ApiKey})
		app.Use("/api", protect)
		app.Use("/ws", protect)

		// 6. Load Features
		var injector pins.Injector
		if sim, ok := factory.(*gpio.Simulator); ok {
			injector = sim
		}

		mgr := loader.NewManager(logg)
		mgr.Register(pins.NewFeature(engine, store, injector, logg))
		mgr.Register(live.NewFeature(engine, logg, 64))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		if cfg.Server.ServesStatic() {
			app.Static("/", cfg.Server.StaticDir)
		}

		// 7. Start Server
		go func() {
			logg.Info("Starting server", zap.String("address", cfg.Server.Address()))
			if err := app.Listen(cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")

		timeout := time.Duration(cfg.Server.ShutdownSeconds) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		if err := app.ShutdownWithTimeout(timeout); err != nil {
			logg.Warn("HTTP shutdown incomplete", zap.Error(err))
		}
		hub.Close()
		engine.Shutdown()
		if bridge != nil {
			bridge.Close()
		}
		logg.Info("Shutdown complete")
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
