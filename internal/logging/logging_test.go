package logging_test

import (
	"bytes"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-ontoform/internal/logging"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New("warn", logging.FormatJSON, &buf)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	logger.Info().Msg("dropped")
	logger.Warn().Str("patient", "42").Msg("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line above the warn threshold, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["message"] != "kept" || entry["patient"] != "42" || entry["level"] != "warn" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Fatalf("expected timestamp in %v", entry)
	}
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New("", logging.FormatConsole, &buf)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Info().Msg("schema loaded")

	if strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), "schema loaded") {
		t.Fatalf("expected console output, got %q", buf.String())
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := logging.New("loud", logging.FormatJSON, nil); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
