package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/finance-dashboard/monzo-mail/internal/model"
)

// FileSource replays notifications from a JSON array of
// {"id", "subject", "date"} objects. Path "-" reads Stdin.
type FileSource struct {
	Path  string
	Stdin io.Reader
}

// Name returns the source name.
func (s *FileSource) Name() string { return "file" }

// Fetch reads the file and returns up to max records.
func (s *FileSource) Fetch(_ context.Context, max int) ([]model.RawNotification, error) {
	var r io.Reader
	if s.Path == "-" {
		if s.Stdin == nil {
			return nil, fmt.Errorf("reading stdin: no input")
		}
		r = s.Stdin
	} else {
		f, err := os.Open(s.Path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", s.Path, err)
		}
		defer f.Close()
		r = f
	}

	raws, err := ReadNotifications(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.Path, err)
	}
	if max > 0 && len(raws) > max {
		raws = raws[:max]
	}
	return raws, nil
}

// ReadNotifications decodes a JSON array of notifications. Every record
// needs an id.
func ReadNotifications(r io.Reader) ([]model.RawNotification, error) {
	var raws []model.RawNotification
	if err := json.NewDecoder(r).Decode(&raws); err != nil {
		return nil, fmt.Errorf("decoding notifications: %w", err)
	}
	for i, raw := range raws {
		if raw.ID == "" {
			return nil, fmt.Errorf("record %d: missing id", i)
		}
	}
	return raws, nil
}
