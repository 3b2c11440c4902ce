package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hazelvane/melodex/internal/catalog"
	"github.com/hazelvane/melodex/internal/repositories"
	"github.com/hazelvane/melodex/internal/server"
	"github.com/hazelvane/melodex/internal/services"
	"github.com/hazelvane/melodex/internal/shared"
	"github.com/urfave/cli/v3"
)

// buildResolver assembles the aggregation pipeline over the database and
// the Spotify client.
func (r *Runner) buildResolver(config *shared.Config, db *sql.DB) (*catalog.Resolver, *services.SpotifyClient, error) {
	spotify, err := services.NewSpotifyClient(config.Spotify, r.logger)
	if err != nil {
		return nil, nil, err
	}

	store := repositories.NewEntityStore(db)
	stores := catalog.Stores{
		Artists:   store,
		Albums:    store,
		Tracks:    store,
		Playlists: store,
	}

	resolver := catalog.NewResolver(spotify, stores, r.logger, config.Resolver.MaxPages)
	return resolver, spotify, nil
}

// Serve runs the catalog API server until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))
	if port := cmd.Int("port"); port > 0 {
		config.Server.Port = port
	}

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	resolver, spotify, err := r.buildResolver(config, db)
	if err != nil {
		return err
	}

	users := repositories.NewUserRepository(db)

	srv := server.New(config.Server, resolver, spotify, users, &config.Spotify, r.logger)

	errs := make(chan error, 1)
	go func() {
		errs <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errs:
		return err
	case sig := <-stop:
		r.logger.Info("shutting down", "signal", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
