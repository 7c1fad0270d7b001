package shared

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLogger(t *testing.T) {
	t.Run("ApplyLogLevel", func(t *testing.T) {
		tt := []struct {
			name    string
			level   string
			want    log.Level
			wantErr bool
		}{
			{name: "debug", level: "debug", want: log.DebugLevel},
			{name: "warn with whitespace", level: " warn ", want: log.WarnLevel},
			{name: "empty keeps default", level: "", want: log.InfoLevel},
			{name: "unknown level", level: "chatty", want: log.InfoLevel, wantErr: true},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				logger := NewLogger(&bytes.Buffer{})
				err := ApplyLogLevel(logger, tc.level)
				if (err != nil) != tc.wantErr {
					t.Fatalf("ApplyLogLevel() error = %v, wantErr %v", err, tc.wantErr)
				}
				if tc.wantErr && !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
				if got := logger.GetLevel(); got != tc.want {
					t.Errorf("level = %v, want %v", got, tc.want)
				}
			})
		}
	})

	t.Run("WithLogger adds fields", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := WithLogger(NewLogger(buf), "run", "abc")
		logger.Info("hello")
		if !strings.Contains(buf.String(), "run=abc") {
			t.Errorf("expected run=abc in output, got %q", buf.String())
		}
	})
}

func TestFormatDuration(t *testing.T) {
	seconds := func(v float64) *float64 { return &v }

	tt := []struct {
		name string
		in   *float64
		want string
	}{
		{name: "unknown", in: nil, want: "-"},
		{name: "zero", in: seconds(0), want: "0:00"},
		{name: "rounds", in: seconds(259.4), want: "4:19"},
		{name: "rounds up", in: seconds(59.6), want: "1:00"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatDuration(tc.in); got != tc.want {
				t.Errorf("FormatDuration() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == "" || a == b {
		t.Errorf("expected unique non-empty ids, got %q and %q", a, b)
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tui.log")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	logger.Info("hello", "run", "abc")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("expected log line in file, got %q", string(data))
	}
}
