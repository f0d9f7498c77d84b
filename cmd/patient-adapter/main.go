package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hsm/patient-adapter/internal/config"
	"github.com/hsm/patient-adapter/internal/domain/consent"
	"github.com/hsm/patient-adapter/internal/domain/patient"
	"github.com/hsm/patient-adapter/internal/platform/auth"
	"github.com/hsm/patient-adapter/internal/platform/db"
	"github.com/hsm/patient-adapter/internal/platform/middleware"
	"github.com/hsm/patient-adapter/internal/platform/rpc"
)

const version = "0.1.0"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "patient-adapter",
		Short:        "Patient and consent FHIR adapter",
		SilenceUsage: true,
	}

	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(callCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the message adapter and health endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			return withPool(cmd.Context(), func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) error {
				if err := db.EnsureSchema(ctx, pool, cfg.DBSchema); err != nil {
					return err
				}
				count, err := db.NewMigrator(pool, dir, cfg.DBSchema).Up(ctx)
				if err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) to schema %s.\n", count, cfg.DBSchema)
				return nil
			})
		},
	}
	upCmd.Flags().String("dir", "migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			return withPool(cmd.Context(), func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) error {
				statuses, err := db.NewMigrator(pool, dir, cfg.DBSchema).Status(ctx)
				if err != nil {
					return fmt.Errorf("failed to get migration status: %w", err)
				}
				printStatus(cmd.OutOrStdout(), cfg.DBSchema, statuses)
				return nil
			})
		},
	}
	statusCmd.Flags().String("dir", "migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func printStatus(w io.Writer, schema string, statuses []db.MigrationStatus) {
	fmt.Fprintf(w, "Migration status for schema: %s\n", schema)
	fmt.Fprintf(w, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
	for _, s := range statuses {
		status := "pending"
		appliedAt := ""
		if s.Applied {
			status = "applied"
			if s.AppliedAt != nil {
				appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
		}
		fmt.Fprintf(w, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
	}
}

func callCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <pattern> [json]",
		Short: "Send one request to a running adapter and print the reply",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addrFlag, _ := cmd.Flags().GetString("addr")
			secretFlag, _ := cmd.Flags().GetString("secret")
			subject, _ := cmd.Flags().GetString("subject")
			timeout, _ := cmd.Flags().GetDuration("timeout")
			event, _ := cmd.Flags().GetBool("event")

			var data json.RawMessage
			if len(args) == 2 {
				if !json.Valid([]byte(args[1])) {
					return fmt.Errorf("payload is not valid JSON: %s", args[1])
				}
				data = json.RawMessage(args[1])
			}

			cfg, err := config.LoadClient()
			if err != nil {
				return err
			}
			addr, tokenCfg := callTarget(cfg, addrFlag, secretFlag)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			client, err := rpc.Dial(ctx, addr)
			if err != nil {
				return err
			}
			defer client.Close()

			if tokenCfg.Enabled() {
				token, err := auth.SignToken(tokenCfg, subject)
				if err != nil {
					return fmt.Errorf("sign token: %w", err)
				}
				client.WithToken(token)
			}

			if event {
				return client.Emit(ctx, args[0], data)
			}
			reply, err := client.CallRaw(ctx, args[0], data)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(reply))
			return nil
		},
	}
	cmd.Flags().String("addr", "", "Adapter address (defaults to RPC_ADDR)")
	cmd.Flags().String("secret", "", "HMAC secret used to sign a request token (defaults to RPC_AUTH_SECRET)")
	cmd.Flags().String("subject", "cli", "Token subject recorded as the consent user")
	cmd.Flags().Duration("timeout", 10*time.Second, "Request timeout")
	cmd.Flags().Bool("event", false, "Send as an event and do not wait for a reply")
	return cmd
}

// callTarget resolves the address and token settings for the call command.
// Flags win over the loaded configuration.
func callTarget(cfg *config.Config, addr, secret string) (string, auth.TokenConfig) {
	if addr == "" {
		addr = cfg.RPCAddr
	}
	if secret == "" {
		secret = cfg.RPCAuthSecret
	}
	return addr, auth.TokenConfig{SigningKey: []byte(secret), Issuer: cfg.RPCAuthIssuer}
}

func withPool(ctx context.Context, fn func(context.Context, *config.Config, *pgxpool.Pool) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	pool, err := db.NewPool(ctx, poolConfig(cfg))
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(ctx, cfg, pool)
}

func poolConfig(cfg *config.Config) db.PoolConfig {
	return db.PoolConfig{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
		Schema:   cfg.DBSchema,
	}
}

func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	logger := zerolog.New(out).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Logger()
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	return logger.Level(level)
}

// newRouter builds the request pipeline. Middleware runs in registration order.
func newRouter(cfg *config.Config, logger zerolog.Logger, patients patient.Repository, consents consent.Repository) *rpc.Router {
	router := rpc.NewRouter()
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.RequestTimeout(cfg.RPCRequestTimeout),
		auth.TokenMiddleware(auth.TokenConfig{
			SigningKey: []byte(cfg.RPCAuthSecret),
			Issuer:     cfg.RPCAuthIssuer,
		}),
	)

	patientSvc := patient.NewService(patients, time.Now, logger)
	patient.NewHandler(patientSvc).RegisterPatterns(router)

	consentSvc := consent.NewService(consents, patientSvc, time.Now, logger)
	consent.NewHandler(consentSvc).RegisterPatterns(router)

	return router
}

func newHealthServer(logger zerolog.Logger, pool *pgxpool.Pool) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.HTTPLogger(logger))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	if pool != nil {
		e.GET("/health/db", db.HealthHandler(pool))
	}
	return e
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	logger := newLogger(cfg, os.Stdout)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, poolConfig(cfg))
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to database")
		return err
	}
	defer pool.Close()
	logger.Info().Str("schema", cfg.DBSchema).Msg("connected to database")

	router := newRouter(cfg, logger, patient.NewRepo(pool), consent.NewRepo(pool))
	srv := rpc.NewServer(cfg.RPCAddr, router, logger)
	if err := srv.Start(); err != nil {
		return err
	}
	logger.Info().
		Str("addr", srv.Addr()).
		Strs("patterns", router.Patterns()).
		Bool("auth", cfg.AuthEnabled()).
		Msg("rpc server listening")

	e := newHealthServer(logger, pool)
	go func() {
		addr := ":" + cfg.HTTPPort
		logger.Info().Str("addr", addr).Msg("starting health server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("health server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(); err != nil {
		logger.Warn().Err(err).Msg("rpc server stop")
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("health server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
