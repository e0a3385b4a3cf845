package reference

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/David-Botos/data-synth/pkg/converter"
)

// CSVLoader reads reference pools from delimited text files. The first row
// names the columns; blank cells are skipped. Files ending in .tsv are read
// tab-separated. A column becomes numbers only when every cell is numeric;
// otherwise its cells are kept verbatim.
type CSVLoader struct {
	// Comma overrides the delimiter for every file when non-zero
	Comma rune
}

// Load implements Loader
func (l CSVLoader) Load(ctx context.Context, source, column string) ([]interface{}, error) {
	f, err := os.Open(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, source)
		}
		return nil, fmt.Errorf("failed to open %s: %w", source, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	switch {
	case l.Comma != 0:
		reader.Comma = l.Comma
	case strings.EqualFold(filepath.Ext(source), ".tsv"):
		reader.Comma = '\t'
	}

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s has no header row", ErrColumnNotFound, source)
		}
		return nil, fmt.Errorf("failed to read header of %s: %w", source, err)
	}

	idx := headerIndex(header, column)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q not in %s", ErrColumnNotFound, column, source)
	}

	var cells []string
	for line := 2; ; line++ {
		if line%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s line %d: %w", source, line, err)
		}

		if idx >= len(record) {
			continue
		}
		cell := strings.TrimSpace(record[idx])
		if cell == "" {
			continue
		}
		cells = append(cells, cell)
	}

	if len(cells) == 0 {
		return nil, nil
	}
	return converter.ParseColumn(cells), nil
}

// headerIndex prefers an exact header match and falls back to a
// case-insensitive one
func headerIndex(header []string, column string) int {
	fallback := -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if name == column {
			return i
		}
		if fallback < 0 && strings.EqualFold(name, column) {
			fallback = i
		}
	}
	return fallback
}
