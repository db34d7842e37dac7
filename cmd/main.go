// Command pingpong runs a table tennis tournament: group stage with snake
// seeding followed by a single-elimination knockout.
//
// Usage:
//
//	pingpong serve
//	pingpong run cup.yaml --groups 4 --advance 2
//	pingpong hash-password <password>
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/pingpong-tournament/brackets"
	"github.com/Dosada05/pingpong-tournament/config"
	"github.com/Dosada05/pingpong-tournament/db"
	"github.com/Dosada05/pingpong-tournament/handlers"
	"github.com/Dosada05/pingpong-tournament/repositories"
	api "github.com/Dosada05/pingpong-tournament/routes"
	"github.com/Dosada05/pingpong-tournament/scripts"
	"github.com/Dosada05/pingpong-tournament/services"
	"github.com/Dosada05/pingpong-tournament/storage"
	"github.com/Dosada05/pingpong-tournament/utils"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	root := &cobra.Command{
		Use:           "pingpong",
		Short:         "Table tennis tournament manager",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd())
	root.AddCommand(runCmd())
	root.AddCommand(hashPasswordCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// serve
// --------------------------------------------------------------------------

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket API",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
			slog.SetDefault(logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, logger)
		},
	}
}

func serve(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.Bool("auth", cfg.AuthEnabled()),
		slog.Bool("archive", cfg.DatabaseURL != ""),
		slog.Bool("reports", cfg.ReportsEnabled()))

	archive, dbConn, err := openArchive(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if dbConn != nil {
		defer func() {
			if err := dbConn.Close(); err != nil {
				logger.Error("failed to close database connection", slog.Any("error", err))
			}
		}()
	}

	var uploader storage.FileUploader
	if cfg.ReportsEnabled() {
		uploader, err = storage.NewCloudflareR2Uploader(ctx, storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize Cloudflare R2 uploader: %w", err)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	}

	wsHub := brackets.NewHub(logger)

	tournamentService := services.NewTournamentService(
		services.Defaults{GroupCount: cfg.DefaultGroupCount, AdvancePerGroup: cfg.DefaultAdvancePerGroup},
		archive,
		uploader,
		wsHub,
		logger,
	)
	authService := services.NewAuthService(cfg.OrganizerPasswordHash, cfg.JWTSecretKey)

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		api.Options{
			JWTSecret:       []byte(cfg.JWTSecretKey),
			AllowedOrigins:  cfg.CORSAllowedOrigins,
			ResultRateLimit: cfg.ResultRateLimit,
			ResultRateBurst: cfg.ResultRateBurst,
		},
		handlers.NewAuthHandler(authService),
		handlers.NewTournamentHandler(tournamentService),
		handlers.NewWebSocketHandler(wsHub, tournamentService, cfg.CORSAllowedOrigins),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return wsHub.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("starting server", slog.String("address", server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			_ = server.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("application exited")
	return nil
}

// openArchive connects to Postgres when DATABASE_URL is set. Without it
// results live only in memory.
func openArchive(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repositories.ResultArchiveRepository, *sql.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, nil
	}
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	runID, err := repositories.NewRunID()
	if err != nil {
		dbConn.Close()
		return nil, nil, err
	}
	archive := repositories.NewPostgresResultArchiveRepository(dbConn, runID)
	if err := archive.EnsureSchema(ctx); err != nil {
		dbConn.Close()
		return nil, nil, err
	}
	logger.Info("result archive ready", slog.String("run_id", runID))
	return archive, dbConn, nil
}

// --------------------------------------------------------------------------
// run
// --------------------------------------------------------------------------

func runCmd() *cobra.Command {
	var groups, advance int
	cmd := &cobra.Command{
		Use:   "run <script.yaml>",
		Short: "Play a tournament from a YAML script and print the results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			script, err := scripts.Load(args[0])
			if err != nil {
				return err
			}
			applyRunFlags(script, groups, advance, cmd.Flags().Changed("groups"), cmd.Flags().Changed("advance"))

			ctx := cmd.Context()
			archive, dbConn, err := openArchive(ctx, cfg, logger)
			if err != nil {
				return err
			}
			if dbConn != nil {
				defer dbConn.Close()
			}

			svc := services.NewTournamentService(
				services.Defaults{GroupCount: cfg.DefaultGroupCount, AdvancePerGroup: cfg.DefaultAdvancePerGroup},
				archive, nil, nil, logger,
			)
			_, err = scripts.Run(ctx, svc, script, cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().IntVar(&groups, "groups", 4, "number of groups; used when set or when the script has no groups")
	cmd.Flags().IntVar(&advance, "advance", 2, "players advancing from each group; used when set or when the script has no advance")
	return cmd
}

// applyRunFlags lets explicit flags override the script. Flag defaults
// fill only the fields the script leaves out.
func applyRunFlags(s *scripts.Script, groups, advance int, groupsSet, advanceSet bool) {
	if groupsSet || s.Groups == nil {
		s.Groups = &groups
	}
	if advanceSet || s.Advance == nil {
		s.Advance = &advance
	}
}

// --------------------------------------------------------------------------
// hash-password
// --------------------------------------------------------------------------

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for ORGANIZER_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := utils.HashPassword(args[0])
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
