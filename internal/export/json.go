package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/finance-dashboard/monzo-mail/internal/model"
)

// JSONWriter writes an indented JSON array, the format the dashboard imports.
type JSONWriter struct{}

// Format returns the writer name.
func (w *JSONWriter) Format() string { return "json" }

// Write encodes txns. A nil slice is written as [].
func (w *JSONWriter) Write(out io.Writer, txns []model.Transaction) error {
	if txns == nil {
		txns = []model.Transaction{}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(txns); err != nil {
		return fmt.Errorf("encoding transactions: %w", err)
	}
	return nil
}

// ReadJSON loads a previously written log. A missing file yields nil.
func ReadJSON(path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var txns []model.Transaction
	if err := json.NewDecoder(f).Decode(&txns); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return txns, nil
}
