package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clara/clara/internal/config"
	"github.com/clara/clara/internal/domain/analysis"
	"github.com/clara/clara/internal/domain/impact"
	"github.com/clara/clara/internal/domain/patient"
	"github.com/clara/clara/internal/domain/risk"
	"github.com/clara/clara/internal/platform/cache"
	"github.com/clara/clara/internal/platform/db"
	"github.com/clara/clara/internal/platform/metrics"
	"github.com/clara/clara/migrations"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "clara-server",
		Short:        "CLARA clinical decision-support API server",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(scoreCmd())
	rootCmd.AddCommand(analyzeCmd())
	return rootCmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the CLARA API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func openMigrator(ctx context.Context) (*db.Migrator, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if !cfg.HasDatabase() {
		return nil, nil, errors.New("DATABASE_URL is required for migrations")
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, nil, err
	}
	return db.NewMigrator(pool, migrations.FS), pool.Close, nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	// migrate up
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, _ := cmd.Flags().GetInt("to")

			ctx := context.Background()
			migrator, closeFn, err := openMigrator(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			count, err := migrator.UpTo(ctx, target)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().Int("to", 0, "Stop after this version (0 applies everything)")
	cmd.AddCommand(upCmd)

	// migrate status
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			migrator, closeFn, err := openMigrator(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}
			printMigrationStatus(cmd.OutOrStdout(), statuses)
			return nil
		},
	})

	return cmd
}

func printMigrationStatus(w io.Writer, statuses []db.MigrationStatus) {
	fmt.Fprintf(w, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
	fmt.Fprintln(w, "---------- ---------------------------------------- ---------- --------------------")
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

func scoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a patient and print the risk assessment as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := patient.Attributes{}
			if cmd.Flags().Changed("age") {
				age, _ := cmd.Flags().GetInt("age")
				p.Age = &age
			}
			p.Diseases, _ = cmd.Flags().GetStringSlice("disease")
			p.Medications, _ = cmd.Flags().GetStringSlice("medication")
			p.Symptoms, _ = cmd.Flags().GetStringSlice("symptom")

			if err := p.Validate(); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), risk.NewScorer().Assess(p))
		},
	}
	cmd.Flags().Int("age", 0, "Patient age in years")
	cmd.Flags().StringSlice("disease", nil, "Diagnosed condition (repeatable)")
	cmd.Flags().StringSlice("medication", nil, "Current medication (repeatable)")
	cmd.Flags().StringSlice("symptom", nil, "Reported symptom (repeatable)")
	return cmd
}

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the comprehensive analysis on a transcript from --file or stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			transcript, err := readTranscript(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}

			req := analysis.Request{Transcript: transcript}
			req.Patient.ID, _ = cmd.Flags().GetString("patient-id")
			req.Patient.Name, _ = cmd.Flags().GetString("name")
			if cmd.Flags().Changed("age") {
				age, _ := cmd.Flags().GetInt("age")
				req.Patient.Age = &age
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			svc := newServices(cfg, impact.NewMemoryStore(impact.DefaultMemoryCapacity), nil, nil, zerolog.Nop())

			result, err := svc.pipeline.Comprehensive(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().String("file", "", "Transcript file (defaults to stdin)")
	cmd.Flags().String("patient-id", "", "Patient identifier")
	cmd.Flags().String("name", "", "Patient name")
	cmd.Flags().Int("age", 0, "Patient age in years")
	return cmd
}

func readTranscript(stdin io.Reader, path string) (string, error) {
	var (
		b   []byte
		err error
	)
	if path != "" {
		b, err = os.ReadFile(path)
	} else {
		b, err = io.ReadAll(stdin)
	}
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newLogger(env string) zerolog.Logger {
	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func runServer() error {
	// Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg.Env)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()

	// Assessment storage
	var (
		pool  *pgxpool.Pool
		store impact.AssessmentStore
	)
	if cfg.HasDatabase() {
		pool, err = db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		store = impact.NewAssessmentRepoPG(pool)
		logger.Info().Msg("connected to database")
	} else {
		store = impact.NewMemoryStore(impact.DefaultMemoryCapacity)
		logger.Warn().Msg("DATABASE_URL not set, assessment history is kept in memory")
	}

	// Transcript cache
	var analysisCache cache.Cache
	if cfg.RedisURL != "" {
		client, err := cache.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, transcript cache disabled")
		} else {
			defer client.Close()
			analysisCache = cache.NewRedisCache(client, "clara:")
			logger.Info().Msg("connected to redis")
		}
	}

	m := metrics.New()
	svc := newServices(cfg, store, analysisCache, m, logger)
	e := newServer(cfg, svc, pool, logger)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
