// Package cache holds a session-scoped snapshot of the remote library so that
// repeated duplicate checks do not each list the whole library again.
//
// A [KnownTracks] value is created by the composition root and passed to
// whoever needs it; it is never persisted. It is not safe for concurrent
// refresh: callers sharing one across goroutines must serialize
// [KnownTracks.GetOrRefresh] and [KnownTracks.Invalidate] themselves.
package cache

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/libsync/internal/models"
	"github.com/desertthunder/libsync/internal/shared"
)

// DefaultTTL is used when a non-positive TTL is configured.
const DefaultTTL = 300 * time.Second

// ErrCacheExpired is returned by [KnownTracks.Tracks] when the snapshot is stale.
var ErrCacheExpired = fmt.Errorf("%w: refresh required", shared.ErrCacheExpired)

// FetchFunc returns the full current library listing.
//
// It may block on network I/O; timeouts and cancellation are its own concern.
type FetchFunc func() ([]models.RemoteTrack, error)

// KnownTracks is a TTL cache over one library snapshot.
type KnownTracks struct {
	tracks    []models.RemoteTrack
	fetchedAt time.Time
	ttl       time.Duration
	valid     bool
	now       func() time.Time
	logger    *log.Logger
}

// Option configures a [KnownTracks].
type Option func(*KnownTracks)

// WithClock replaces [time.Now], mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *KnownTracks) { c.now = now }
}

// WithLogger sets the logger used for refresh events.
func WithLogger(l *log.Logger) Option {
	return func(c *KnownTracks) { c.logger = l }
}

// New returns an empty cache that is already expired.
func New(ttl time.Duration, opts ...Option) *KnownTracks {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &KnownTracks{ttl: ttl, now: time.Now, logger: log.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the validity window.
func (c *KnownTracks) TTL() time.Duration { return c.ttl }

// FetchedAt returns when the snapshot was last replaced; zero if never.
func (c *KnownTracks) FetchedAt() time.Time { return c.fetchedAt }

// Len returns the number of records in the current snapshot.
func (c *KnownTracks) Len() int { return len(c.tracks) }

// IsExpired reports whether the snapshot must be refetched before use.
func (c *KnownTracks) IsExpired() bool {
	if !c.valid {
		return true
	}
	return c.now().Sub(c.fetchedAt) >= c.ttl
}

// Tracks returns the snapshot, or [ErrCacheExpired] rather than stale data.
func (c *KnownTracks) Tracks() ([]models.RemoteTrack, error) {
	if c.IsExpired() {
		return nil, ErrCacheExpired
	}
	return c.tracks, nil
}

// GetOrRefresh returns the snapshot, calling fetch first when forceRefresh is
// set or the snapshot has expired. A failed fetch leaves the cache unchanged
// and its error is returned as is.
func (c *KnownTracks) GetOrRefresh(fetch FetchFunc, forceRefresh bool) ([]models.RemoteTrack, error) {
	if !forceRefresh && !c.IsExpired() {
		return c.tracks, nil
	}

	tracks, err := fetch()
	if err != nil {
		return nil, err
	}

	c.tracks = tracks
	c.fetchedAt = c.now()
	c.valid = true
	c.logger.Debug("known tracks refreshed", "count", len(tracks), "forced", forceRefresh, "ttl", c.ttl)

	return c.tracks, nil
}

// Invalidate drops the snapshot so the next access refetches regardless of TTL.
func (c *KnownTracks) Invalidate() {
	c.tracks = nil
	c.fetchedAt = time.Time{}
	c.valid = false
}
