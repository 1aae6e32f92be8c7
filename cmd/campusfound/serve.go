package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/arvindnk/campusfound/internal/api"
	"github.com/arvindnk/campusfound/internal/db"
	"github.com/arvindnk/campusfound/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the campusfound API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Auto-init on first run.
		if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
			database, password, err := initDatabase(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("initializing database: %w", err)
			}
			database.Close()

			fmt.Printf("Database created: %s\n", cfg.DBPath)
			fmt.Println("Admin account created:")
			fmt.Printf("  Username: admin\n")
			fmt.Printf("  Password: %s\n", password)
			fmt.Println("Save this password, it cannot be recovered.")
			fmt.Println()
		}

		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		// Migrations are idempotent.
		if err := db.Migrate(database); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}

		jwtSecret := cfg.JWTSecret
		if jwtSecret == "" {
			// Persisted so tokens survive restarts.
			jwtSecret, err = store.GetJWTSecret(cmd.Context(), database)
			if err != nil {
				return fmt.Errorf("loading jwt secret: %w", err)
			}
		}

		server := &http.Server{
			Addr:    cfg.ListenAddr,
			Handler: api.LoggingMiddleware(api.NewRouter(database, jwtSecret)),
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			slog.Info("server listening", "addr", cfg.ListenAddr)
			errCh <- server.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			return fmt.Errorf("server error: %w", err)
		case <-ctx.Done():
		}

		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&cfg.ListenAddr, "addr", cfg.ListenAddr, "listen address")
	serveCmd.Flags().StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "JWT signing key (default: persisted in the database)")
}
