package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alexanderramin/orbit/internal/domain"
)

// Envelope constants. Unwrap rejects anything else.
const (
	Format  = "orbit-board"
	Version = 1
)

// ErrInvalidEnvelope reports an export file that cannot be imported.
var ErrInvalidEnvelope = errors.New("invalid board export")

// Envelope is the top-level JSON structure of an exported board.
type Envelope struct {
	Format     string        `json:"format"`
	Version    int           `json:"version"`
	ExportedAt string        `json:"exportedAt"`
	State      *domain.State `json:"state"`
}

// Summary counts what an import would bring in.
type Summary struct {
	CampaignCount int `json:"campaignCount"`
	ProjectCount  int `json:"projectCount"`
}

// Result is a successfully unwrapped export.
type Result struct {
	State      *domain.State
	ExportedAt time.Time
	Summary    Summary
}

// Wrap packages a board for export.
func Wrap(s *domain.State, now time.Time) Envelope {
	if s == nil {
		s = domain.Empty()
	}
	return Envelope{
		Format:     Format,
		Version:    Version,
		ExportedAt: now.UTC().Format(time.RFC3339),
		State:      s,
	}
}

// Marshal wraps s and encodes it as indented JSON.
func Marshal(s *domain.State, now time.Time) ([]byte, error) {
	data, err := json.MarshalIndent(Wrap(s, now), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteFile exports s to path, creating parent directories as needed.
func WriteFile(path string, s *domain.State, now time.Time) error {
	data, err := Marshal(s, now)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating export directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	return nil
}

// LoadFile reads and unwraps an export file.
func LoadFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading export file: %w", err)
	}
	return Unwrap(data)
}
