// Station API implementation of [LibraryService]
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/libsync/internal/cache"
	"github.com/desertthunder/libsync/internal/models"
	"github.com/desertthunder/libsync/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// maxErrorBody bounds how much of an error response is echoed into errors.
const maxErrorBody = 512

// StationService reads a station's media library.
type StationService struct {
	baseURL    string
	stationID  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// StationOption configures a [StationService].
type StationOption func(*StationService)

// WithHTTPClient sets the base client; its transport is wrapped with bearer auth.
func WithHTTPClient(c *http.Client) StationOption {
	return func(s *StationService) { s.httpClient = c }
}

// WithServiceLogger sets the logger for request tracing.
func WithServiceLogger(l *log.Logger) StationOption {
	return func(s *StationService) { s.logger = l }
}

// NewStationService creates a client for the station described by cfg.
func NewStationService(cfg shared.LibraryConfig, opts ...StationOption) (*StationService, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("%w: library.base_url is required", shared.ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.StationID) == "" {
		return nil, fmt.Errorf("%w: library.station_id is required", shared.ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: library.api_key is required", shared.ErrMissingCredentials)
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	s := &StationService{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		stationID:  cfg.StationID,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(limit, 1),
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	base := s.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	s.httpClient = &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey, TokenType: "Bearer"}),
			Base:   base,
		},
		Timeout: cfg.Timeout(),
	}

	return s, nil
}

func (s *StationService) Name() string {
	return "Station " + s.stationID
}

// ListFiles retrieves GET /api/station/{id}/files.
func (s *StationService) ListFiles(ctx context.Context) ([]models.StationMediaFile, error) {
	var files []models.StationMediaFile
	endpoint := "/api/station/" + url.PathEscape(s.stationID) + "/files"
	if err := s.doRequest(ctx, http.MethodGet, endpoint, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// KnownTracks lists files and maps them to detection records.
func (s *StationService) KnownTracks(ctx context.Context) ([]models.RemoteTrack, error) {
	files, err := s.ListFiles(ctx)
	if err != nil {
		return nil, err
	}

	tracks := make([]models.RemoteTrack, 0, len(files))
	for _, f := range files {
		tracks = append(tracks, models.RemoteTrackFromAPI(f))
	}
	return tracks, nil
}

// Health retrieves GET /api/status.
func (s *StationService) Health(ctx context.Context) (*Status, error) {
	var status Status
	if err := s.doRequest(ctx, http.MethodGet, "/api/status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Fetcher adapts a [LibraryService] to the cache refresh callback.
func Fetcher(ctx context.Context, svc LibraryService) cache.FetchFunc {
	return func() ([]models.RemoteTrack, error) {
		return svc.KnownTracks(ctx)
	}
}

// doRequest performs an authenticated, rate limited request to the station API.
func (s *StationService) doRequest(ctx context.Context, method, endpoint string, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	s.logger.Debug("station request", "method", method, "endpoint", endpoint)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s %s: %v", shared.ErrTimeout, method, endpoint, err)
		}
		return fmt.Errorf("%w: %s %s: %v", shared.ErrAPIRequest, method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		sentinel := shared.ErrAPIRequest
		switch resp.StatusCode {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			sentinel = shared.ErrServiceUnavailable
		}
		return fmt.Errorf("%w: %s %s: status %d: %s",
			sentinel, method, endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
