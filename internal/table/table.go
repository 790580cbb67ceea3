// Package table reads and writes comma-separated tables.
//
// Rows are plain string slices. Writing uses minimal quoting: a field is
// quoted only when it contains the delimiter, a quote, or a line break.
package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// Row is one line of a table.
type Row []string

// ErrOpen is returned when a table file cannot be opened or parsed.
var ErrOpen = errors.New("cannot read table")

// ErrCreate is returned when a table file cannot be created or written.
var ErrCreate = errors.New("cannot write table")

// ReadFile parses every row of the table at path, header included.
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer f.Close()

	rows, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpen, path, err)
	}
	return rows, nil
}

// Read parses every row from r. Rows may have differing field counts.
func Read(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var rows []Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// Write writes rows to w with minimal quoting.
func Write(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// CreateFile writes rows to a new file at path, truncating any existing file.
func CreateFile(path string, rows []Row) error {
	return writeFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, rows)
}

// CreateFileExclusive is CreateFile but fails if path already exists.
func CreateFileExclusive(path string, rows []Row) error {
	return writeFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, rows)
}

func writeFile(path string, flag int, rows []Row) error {
	f, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCreate, err)
	}
	if err := Write(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("%w: %s: %w", ErrCreate, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCreate, path, err)
	}
	return nil
}
