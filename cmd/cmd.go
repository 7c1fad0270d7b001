// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand creates the config file and the decision database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and database",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config file from the built-in template",
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the decision database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// libraryCommand inspects the remote station library
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "library",
		Aliases: []string{"lib"},
		Usage:   "Remote station library operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the tracks known to the station library",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force-refresh",
						Usage: "Refetch the library even if the cached listing is fresh",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.LibraryList,
			},
			{
				Name:  "status",
				Usage: "Check that the station library is reachable",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.LibraryStatus,
			},
		},
	}
}

// checkCommand runs duplicate detection for a batch of candidates
func checkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Decide which candidate tracks should be uploaded",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "Media item export to check (JSON, - for stdin)",
				Value:   "-",
			},
			&cli.BoolFlag{
				Name:  "force-refresh",
				Usage: "Refetch the library even if the cached listing is fresh",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Report format: text, csv, markdown or json",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the report to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Shorthand for --format json",
			},
			&cli.BoolFlag{
				Name:  "record",
				Usage: "Write decisions to the decision log",
			},
			&cli.StringFlag{
				Name:  "run",
				Usage: "Run id used for recorded decisions (generated when empty)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of concurrent checks",
				Value: 4,
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Browse candidates and results interactively",
			},
		},
		Action: r.Check,
	}
}

// fingerprintCommand shows how a single track normalizes
func fingerprintCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "fingerprint",
		Usage: "Print the normalized fingerprint of a track",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "artist",
				Usage:    "Track artist",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "album",
				Usage:    "Track album",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "title",
				Usage:    "Track title",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "mbid",
				Usage: "MusicBrainz track id",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Fingerprint,
	}
}

// historyCommand reads the decision log
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect recorded upload decisions",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recorded decisions",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "run",
						Usage: "Only decisions from this run",
					},
					&cli.StringFlag{
						Name:  "strategy",
						Usage: "Only decisions made by this strategy",
					},
					&cli.BoolFlag{
						Name:  "uploads",
						Usage: "Only decisions to upload",
					},
					&cli.BoolFlag{
						Name:  "skips",
						Usage: "Only decisions to skip",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of decisions to return",
						Value: 100,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "runs",
				Usage: "Summarize recorded runs",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryRuns,
			},
			{
				Name:  "delete",
				Usage: "Remove a recorded decision",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.HistoryDelete,
			},
		},
	}
}
