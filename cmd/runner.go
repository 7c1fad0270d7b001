package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/libsync/internal/cache"
	"github.com/desertthunder/libsync/internal/detection"
	"github.com/desertthunder/libsync/internal/repositories"
	"github.com/desertthunder/libsync/internal/services"
	"github.com/desertthunder/libsync/internal/shared"
	"github.com/desertthunder/libsync/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The library service, known-tracks cache and decision database are created lazily
// from the loaded configuration unless injected through [RunnerOpts].
type Runner struct {
	config     *shared.Config
	configPath string
	library    services.LibraryService
	known      *cache.KnownTracks
	db         *sql.DB
	ownsDB     bool
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Library    services.LibraryService
	Known      *cache.KnownTracks
	DB         *sql.DB
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	return &Runner{
		config:     opts.Config,
		library:    opts.Library,
		known:      opts.Known,
		db:         opts.DB,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, libraryCommand, checkCommand, fingerprintCommand, historyCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Init loads the configuration named by --config and applies the log level.
//
// A missing config file is not an error: the embedded defaults are used so that
// `setup config` can create it.
func (r *Runner) Init(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.configPath = cmd.String("config")

	if _, err := os.Stat(r.configPath); err == nil {
		config, err := shared.LoadConfig(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	} else {
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
	}

	level := r.config.Log.Level
	if flagLevel := cmd.String("log-level"); flagLevel != "" {
		level = flagLevel
	}
	if level != "" {
		if err := shared.ApplyLogLevel(r.logger, level); err != nil {
			return ctx, err
		}
	}

	return ctx, nil
}

// SetLogger replaces the logger used by the runner and everything it creates afterwards.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// Close releases the database if the runner opened it.
func (r *Runner) Close() error {
	if r.db == nil || !r.ownsDB {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	r.ownsDB = false
	return err
}

func (r *Runner) libraryService() (services.LibraryService, error) {
	if r.library != nil {
		return r.library, nil
	}

	opts := []services.StationOption{services.WithServiceLogger(r.logger)}
	if r.httpClient != nil {
		opts = append(opts, services.WithHTTPClient(r.httpClient))
	}

	svc, err := services.NewStationService(r.config.Library, opts...)
	if err != nil {
		return nil, err
	}
	r.library = svc
	return svc, nil
}

func (r *Runner) knownTracks() *cache.KnownTracks {
	if r.known == nil {
		r.known = cache.New(r.config.Cache.TTL(), cache.WithLogger(r.logger))
	}
	return r.known
}

func (r *Runner) decisions() (*repositories.DecisionRepository, error) {
	if r.db == nil {
		db, err := shared.OpenDecisionLog(r.config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to open decision log: %w", err)
		}
		r.db = db
		r.ownsDB = true
	}
	return repositories.NewDecisionRepository(r.db), nil
}

func (r *Runner) chain() *detection.Chain {
	return detection.NewChain(
		detection.WithLogger(r.logger),
		detection.WithDurationTolerance(
			r.config.Detection.DurationToleranceSeconds,
			r.config.Detection.NearMissSeconds,
		),
	)
}

func (r *Runner) newChecker(record bool) (*tasks.DuplicateChecker, error) {
	library, err := r.libraryService()
	if err != nil {
		return nil, err
	}

	opts := []tasks.CheckerOption{tasks.WithCheckerLogger(r.logger)}
	if record {
		repo, err := r.decisions()
		if err != nil {
			return nil, err
		}
		opts = append(opts, tasks.WithRecorder(repo))
	}

	return tasks.NewDuplicateChecker(library, r.knownTracks(), r.chain(), opts...), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
