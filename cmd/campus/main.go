package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/django/v3"
	campus "github.com/goliatone/go-campus"
	"github.com/goliatone/go-campus/activitymap"
	"github.com/goliatone/go-campus/client"
	"github.com/goliatone/go-campus/store"
	"github.com/goliatone/go-campus/webapp"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	mflash "github.com/goliatone/go-router/middleware/flash"
	"github.com/joho/godotenv"
)

// Config is the environment-driven app configuration.
type Config struct {
	APIBaseURL string
	HTTPAddr   string
	DBPath     string
	ViewsDir   string
	Debug      bool
}

func (c Config) GetBaseURL() string       { return c.APIBaseURL }
func (c Config) GetLoginPath() string     { return "/login" }
func (c Config) GetDashboardPath() string { return "/dashboard" }
func (c Config) GetDebug() bool           { return c.Debug }

func loadConfig() Config {
	// Missing .env is fine, the environment may carry everything already.
	_ = godotenv.Load()

	cfg := Config{
		APIBaseURL: envOr("CAMPUS_API_URL", "http://localhost:8000"),
		HTTPAddr:   envOr("CAMPUS_HTTP_ADDR", ":3000"),
		DBPath:     envOr("CAMPUS_DB_PATH", "campus.db"),
		ViewsDir:   envOr("CAMPUS_VIEWS_DIR", "./views"),
	}

	if debug, err := strconv.ParseBool(envOr("CAMPUS_DEBUG", "false")); err == nil {
		cfg.Debug = debug
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	cfg := loadConfig()
	logger := campus.DefaultLogger()
	ctx := context.Background()

	db, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	creds, err := store.NewBunStore(ctx, db)
	if err != nil {
		log.Fatal(err)
	}

	api := client.New(cfg.GetBaseURL(), creds,
		client.WithLogger(logger),
		client.WithOnSessionExpired(func() {
			// The credential store is already cleared; the route guards send
			// the visitor to login on their next request.
			logger.Warn("session expired, tokens cleared")
		}),
	)

	session := campus.NewController(api, creds,
		campus.WithLogger(logger),
		campus.WithDebug(cfg.GetDebug()),
		campus.WithActivitySink(campus.ActivitySinkFunc(func(ctx context.Context, event campus.ActivityEvent) error {
			logger.Info("activity %s", print.MaybePrettyJSON(activitymap.Normalize(event)))
			return nil
		})),
	)

	session.Bootstrap(ctx)

	engine := django.New(cfg.ViewsDir, ".html")
	engine.Reload(cfg.GetDebug())

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:      true,
			EnablePrintRoutes: cfg.GetDebug(),
			StrictRouting:     false,
			PassLocalsToViews: true,
			Views:             engine,
		}))
	})

	srv.Router().Use(mflash.New(mflash.ConfigDefault))

	webapp.RegisterRoutes(srv.Router().Group("/"),
		webapp.WithSession(session),
		webapp.WithCatalog(api),
		webapp.WithLogger(logger),
		webapp.WithConfig(cfg),
	)

	srv.Serve(cfg.HTTPAddr)

	WaitExitSignal()
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
