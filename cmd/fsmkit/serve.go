package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/fsmkit/fsmkit"
	httpAdapter "github.com/fsmkit/fsmkit/internal/adapters/http"
	"github.com/fsmkit/fsmkit/internal/adapters/memory"
	redisAdapter "github.com/fsmkit/fsmkit/internal/adapters/redis"
	"github.com/fsmkit/fsmkit/internal/logging"
	"github.com/fsmkit/fsmkit/pkg/domain"
	"github.com/fsmkit/fsmkit/pkg/fields"
	"github.com/fsmkit/fsmkit/pkg/ports"
	"github.com/fsmkit/fsmkit/pkg/registry"
	"github.com/fsmkit/fsmkit/pkg/schema"
)

// serveConfig is read from the environment; flags override Addr.
type serveConfig struct {
	Addr          string `env:"FSMKIT_ADDR" envDefault:":8080"`
	RedisAddr     string `env:"FSMKIT_REDIS_ADDR"`
	RedisPassword string `env:"FSMKIT_REDIS_PASSWORD"`
	RedisDB       int    `env:"FSMKIT_REDIS_DB" envDefault:"0"`
}

var serveCmd = &cobra.Command{
	Use:   "serve <definition.yaml>",
	Short: "Serve a definition's query surface over HTTP",
	Long: `Starts a JSON API exposing the declared transitions and, per stored
record, the currently available ones. Record states live in Redis when
FSMKIT_REDIS_ADDR is set, in process memory otherwise.

The server binds every action to a no-op and every condition to a pass:
it answers queries, it never invokes transitions. Applications embedding
the library register their real functions instead.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(cmd, args[0]); err != nil {
			fmt.Printf("Serve failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides FSMKIT_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, path string) error {
	var cfg serveConfig
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}

	logger := logging.New(slog.LevelInfo)

	def, err := loadDefinition(path)
	if err != nil {
		return err
	}

	machine, err := buildQueryMachine(def, logger)
	if err != nil {
		return err
	}

	var store ports.StateStore
	if cfg.RedisAddr != "" {
		store = redisAdapter.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		logger.Info("using redis state store", "addr", cfg.RedisAddr)
	} else {
		store = memory.New()
		logger.Info("using in-memory state store")
	}

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: httpAdapter.NewHandler(machine, store, httpAdapter.WithLogger(logger)),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("query server listening", "addr", srv.Addr, "machine", def.Machine)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			srv.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}
	return nil
}

// buildQueryMachine wires a definition with stub actions and pass-through
// conditions. Good enough for the read-only query surface; invocation stays
// with embedding applications.
func buildQueryMachine(def *schema.Definition, logger *slog.Logger) (*fsmkit.Machine, error) {
	funcs := registry.New()
	noop := func(ctx context.Context, inst any, args domain.Args) (any, error) { return nil, nil }
	pass := func(inst, principal any) error { return nil }

	for _, f := range def.Fields {
		for _, t := range f.Transitions {
			name := t.Action
			if name == "" {
				name = t.Name
			}
			funcs.RegisterAction(name, noop)
			for _, c := range t.Conditions {
				logger.Warn("condition stubbed as pass-through", "field", f.Name, "condition", c)
				funcs.RegisterCondition(c, pass)
			}
		}
	}

	machine := fsmkit.New(fsmkit.WithLogger(logger))
	err := schema.Build(def, funcs, machine, func(f schema.FieldDef) ports.Field {
		return fields.Map(f.Name, f.Name)
	})
	if err != nil {
		return nil, err
	}
	return machine, nil
}
