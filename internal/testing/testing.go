// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/libsync/internal/models"
	"github.com/desertthunder/libsync/internal/services"
)

// MockLibrary is a test double for [services.LibraryService]
type MockLibrary struct {
	Files     []models.StationMediaFile
	Err       error
	HealthErr error
	Calls     int
}

func (m *MockLibrary) ListFiles(ctx context.Context) ([]models.StationMediaFile, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Files, nil
}

func (m *MockLibrary) KnownTracks(ctx context.Context) ([]models.RemoteTrack, error) {
	files, err := m.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	tracks := make([]models.RemoteTrack, 0, len(files))
	for _, f := range files {
		tracks = append(tracks, models.RemoteTrackFromAPI(f))
	}
	return tracks, nil
}

func (m *MockLibrary) Health(ctx context.Context) (*services.Status, error) {
	if m.HealthErr != nil {
		return nil, m.HealthErr
	}
	return &services.Status{Online: true, Timestamp: 1700000000}, nil
}

func (m *MockLibrary) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// MustWriteFile writes content to path, failing the test on error.
func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
