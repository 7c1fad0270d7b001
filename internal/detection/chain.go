package detection

import (
	"github.com/charmbracelet/log"
	"github.com/desertthunder/libsync/internal/models"
)

const (
	DefaultDurationTolerance = 5.0
	DefaultNearMissWindow    = 10.0
)

// Strategy is one rule of the chain.
//
// Detect reports matched=false to let the next strategy run.
type Strategy interface {
	Kind() models.DetectionStrategy
	Detect(snapshot []models.RemoteTrack, candidate models.Candidate) (decision models.UploadDecision, matched bool, err error)
}

// Chain runs strategies in order for one candidate against one snapshot.
type Chain struct {
	strategies []Strategy
	logger     *log.Logger
}

type chainConfig struct {
	logger      *log.Logger
	tolerance   float64
	nearMiss    float64
	pathMatcher PathMatcher
}

// Option configures [NewChain].
type Option func(*chainConfig)

// WithLogger sets the logger used for warnings and near misses.
func WithLogger(l *log.Logger) Option {
	return func(c *chainConfig) { c.logger = l }
}

// WithDurationTolerance sets the accepted duration difference and the wider
// window in which rejections are logged as near misses, both in seconds.
func WithDurationTolerance(tolerance, nearMiss float64) Option {
	return func(c *chainConfig) {
		c.tolerance = tolerance
		c.nearMiss = max(nearMiss, tolerance)
	}
}

// WithPathMatcher enables the file-path slot between metadata and no-match.
func WithPathMatcher(m PathMatcher) Option {
	return func(c *chainConfig) { c.pathMatcher = m }
}

// NewChain builds the default strategy order.
func NewChain(opts ...Option) *Chain {
	cfg := chainConfig{
		logger:    log.Default(),
		tolerance: DefaultDurationTolerance,
		nearMiss:  DefaultNearMissWindow,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	strategies := []Strategy{
		&MusicBrainzStrategy{logger: cfg.logger},
		&MetadataStrategy{logger: cfg.logger, tolerance: cfg.tolerance, nearMiss: cfg.nearMiss},
	}
	if cfg.pathMatcher != nil {
		strategies = append(strategies, &FilePathStrategy{matcher: cfg.pathMatcher})
	}

	return &Chain{strategies: strategies, logger: cfg.logger}
}

// Strategies returns the kinds of the configured strategies in evaluation order.
func (c *Chain) Strategies() []models.DetectionStrategy {
	kinds := make([]models.DetectionStrategy, len(c.strategies))
	for i, s := range c.strategies {
		kinds[i] = s.Kind()
	}
	return kinds
}

// CheckDuplicate decides whether candidate should be uploaded into the
// library described by snapshot.
func (c *Chain) CheckDuplicate(snapshot []models.RemoteTrack, candidate models.Candidate) (models.UploadDecision, error) {
	for _, s := range c.strategies {
		decision, matched, err := s.Detect(snapshot, candidate)
		if err != nil {
			return models.UploadDecision{}, err
		}
		if matched {
			return decision, nil
		}
	}
	return models.NewUploadDecision("no matching track in library"), nil
}

// CheckDuplicate runs a default [Chain].
func CheckDuplicate(snapshot []models.RemoteTrack, candidate models.Candidate) (models.UploadDecision, error) {
	return NewChain().CheckDuplicate(snapshot, candidate)
}
