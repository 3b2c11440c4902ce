package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hazelvane/melodex/internal/models"
	"github.com/hazelvane/melodex/internal/shared"
	"github.com/hazelvane/melodex/internal/tasks"
	"github.com/urfave/cli/v3"
)

// collectSeeds gathers seeds from the repeatable per-kind flags and the
// optional seeds file.
func collectSeeds(cmd *cli.Command) ([]tasks.Seed, error) {
	var seeds []tasks.Seed

	appendIDs := func(kind models.EntityKind, ids []string) {
		for _, id := range ids {
			seeds = append(seeds, tasks.Seed{Kind: kind, ID: id})
		}
	}

	appendIDs(models.KindArtist, cmd.StringSlice("artist"))
	appendIDs(models.KindAlbum, cmd.StringSlice("album"))
	appendIDs(models.KindTrack, cmd.StringSlice("track"))
	appendIDs(models.KindPlaylist, cmd.StringSlice("playlist"))

	if path := cmd.String("seeds"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read seeds file: %w", err)
		}
		var fileSeeds []tasks.Seed
		if err := json.Unmarshal(data, &fileSeeds); err != nil {
			return nil, fmt.Errorf("%w: seeds file: %v", shared.ErrInvalidArgument, err)
		}
		seeds = append(seeds, fileSeeds...)
	}

	return seeds, nil
}

// Warm pre-resolves the requested entities into the local cache.
func (r *Runner) Warm(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	seeds, err := collectSeeds(cmd)
	if err != nil {
		return err
	}
	if len(seeds) == 0 {
		return fmt.Errorf("%w: no seeds given", shared.ErrMissingArgument)
	}

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	resolver, _, err := r.buildResolver(config, db)
	if err != nil {
		return err
	}

	engine := tasks.NewWarmEngine(resolver)

	prog := make(chan tasks.ProgressUpdate, len(seeds)*2)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := engine.Warm(ctx, prog, seeds, tasks.WarmupOpts{
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	})
	close(prog)
	<-done
	if err != nil {
		return err
	}

	r.writePlain("Warmed %d/%d entities (%d failed)\n", result.Succeeded, result.Total, result.Failed)
	return nil
}

// Export writes playlist snapshots as JSON files.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	resolver, _, err := r.buildResolver(config, db)
	if err != nil {
		return err
	}

	engine := tasks.NewWarmEngine(resolver)

	result, err := engine.ExportPlaylists(ctx, cmd.StringSlice("id"), tasks.ExportOpts{
		OutputDir: cmd.String("output"),
		Pretty:    cmd.Bool("pretty"),
	})
	if err != nil {
		return err
	}

	for _, res := range result.Results {
		if res.Success {
			r.writePlain("✓ %s → %s\n", res.PlaylistName, res.File)
		} else {
			r.writePlain("✗ %s: %s\n", res.PlaylistID, res.Error)
		}
	}
	r.writePlain("Exported %d/%d playlists, manifest: %s\n", result.Succeeded, result.Total, result.ManifestPath)
	return nil
}
