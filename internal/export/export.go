// Package export writes transaction logs for the dashboard.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/finance-dashboard/monzo-mail/internal/model"
)

// Writer serializes a transaction log.
type Writer interface {
	Write(w io.Writer, txns []model.Transaction) error
	Format() string
}

// Registry holds writers keyed by format name.
type Registry struct {
	writers map[string]Writer
}

// NewRegistry creates an empty writer registry.
func NewRegistry() *Registry {
	return &Registry{writers: make(map[string]Writer)}
}

// Register adds a writer. Panics on duplicate format.
func (r *Registry) Register(w Writer) {
	key := strings.ToLower(w.Format())
	if _, ok := r.writers[key]; ok {
		panic("duplicate writer format: " + key)
	}
	r.writers[key] = w
}

// Get returns the writer for format, or nil.
func (r *Registry) Get(format string) Writer {
	return r.writers[strings.ToLower(format)]
}

// Formats lists registered formats.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.writers))
	for k := range r.writers {
		out = append(out, k)
	}
	return out
}

// DefaultRegistry returns a registry with all built-in writers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&JSONWriter{})
	r.Register(&CSVWriter{})
	r.Register(&XLSXWriter{})
	return r
}

// WriteFile writes txns to path via a temp file in the same directory, so a
// failed run never leaves a truncated log behind.
func WriteFile(path string, w Writer, txns []model.Transaction) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := w.Write(tmp, txns); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", w.Format(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("moving output into place: %w", err)
	}
	return nil
}
