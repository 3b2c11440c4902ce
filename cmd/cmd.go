// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// configFlag is shared by every command that reads configuration.
func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand handles database initialization.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Initialize database and run migrations",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// serveCommand runs the HTTP server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the catalog API server",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:  "port",
				Usage: "Override the configured listen port",
			},
		},
		Action: r.Serve,
	}
}

// warmCommand pre-resolves entities into the cache.
func warmCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "warm",
		Usage: "Pre-resolve entities into the local cache",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "seeds",
				Usage: "Path to a JSON file of {kind, id} seeds",
			},
			&cli.StringSliceFlag{
				Name:  "artist",
				Usage: "Artist id to warm (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "album",
				Usage: "Album id to warm (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "track",
				Usage: "Track id to warm (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "playlist",
				Usage: "Playlist id to warm (repeatable)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent warmup workers",
				Value: 5,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Seeds dispatched per second",
				Value: 5.0,
			},
		},
		Action: r.Warm,
	}
}

// exportCommand writes playlist snapshots to disk.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export playlist snapshots as JSON",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringSliceFlag{
				Name:     "id",
				Usage:    "Playlist id to export (repeatable)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Export,
	}
}
