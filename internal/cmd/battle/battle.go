// Package battle parses battle command flags and runs the HTTP service.
package battle

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HensleyFerrari/rpg-app/internal/battle/api"
	"github.com/HensleyFerrari/rpg-app/internal/battle/service"
	"github.com/HensleyFerrari/rpg-app/internal/battle/storage/sqlite"
	"github.com/HensleyFerrari/rpg-app/internal/notify"
	"github.com/HensleyFerrari/rpg-app/internal/platform/config"
	"github.com/HensleyFerrari/rpg-app/internal/platform/otel"
	"github.com/HensleyFerrari/rpg-app/internal/platform/timeouts"
)

// Config holds battle command configuration.
type Config struct {
	Addr      string `env:"RPG_APP_ADDR" envDefault:":8080"`
	DBPath    string `env:"RPG_APP_DB_PATH" envDefault:"battle.db"`
	JWTSecret string `env:"RPG_APP_JWT_SECRET"`
}

// ParseConfig parses environment and flags into a Config. Flags override the
// environment.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("RPG_APP_JWT_SECRET is required")
	}
	return cfg, nil
}

// Run starts the battle engagement service and blocks until ctx is cancelled
// or the server fails.
func Run(ctx context.Context, cfg Config) error {
	shutdownTracing, err := otel.Setup(ctx, "battle")
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	hub := notify.NewHub()
	stores := service.Stores{Battles: store, Actions: store, Characters: store, Campaigns: store}
	svc := service.New(stores, hub, nil, nil, nil)

	engine := gin.New()
	engine.Use(gin.Recovery())
	api.New(svc, hub, []byte(cfg.JWTSecret), nil).Register(engine)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           engine,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("battle service listening on %s", cfg.Addr)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}
