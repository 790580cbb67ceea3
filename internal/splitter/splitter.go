// Package splitter breaks a large table into fixed-size tables that each keep
// the original header.
package splitter

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/grouprequest/internal/table"
)

var (
	// ErrRead is returned when the source table cannot be read.
	ErrRead = errors.New("could not read table")

	// ErrWrite is returned when an output table cannot be created.
	ErrWrite = errors.New("could not write table")

	// ErrInvalidGroupSize is returned for a group size below 1.
	ErrInvalidGroupSize = errors.New("group size must be a positive integer")
)

// LoadTable reads the table at path and separates the header from the data rows.
func LoadTable(path string) (table.Row, []table.Row, error) {
	rows, err := table.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%w: %s has no header row", ErrRead, path)
	}
	return rows[0], rows[1:], nil
}

// Partition splits rows into consecutive groups of at most size rows.
// It returns ceil(len(rows)/size) groups, or a single empty group when rows is
// empty. Row order is preserved.
func Partition(rows []table.Row, size int) ([][]table.Row, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidGroupSize, size)
	}
	if len(rows) == 0 {
		return [][]table.Row{{}}, nil
	}

	groups := make([][]table.Row, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		groups = append(groups, rows[start:end:end])
	}
	return groups, nil
}

// OutputName returns the file name of the index-th group (1-based).
func OutputName(base string, index int) string {
	return fmt.Sprintf("%s_%d.csv", base, index)
}

// WriteGroup writes header followed by group to a new table at path.
func WriteGroup(path string, header table.Row, group []table.Row) error {
	rows := make([]table.Row, 0, len(group)+1)
	rows = append(rows, header)
	rows = append(rows, group...)

	if err := table.CreateFile(path, rows); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Summary describes the outcome of a Split call.
type Summary struct {
	// Written lists the files created, in group order.
	Written []string

	// Failed lists the files that could not be created, in group order.
	Failed []string
}

// Split reads infile and writes its data rows in groups of size to
// <outfile>_1.csv, <outfile>_2.csv, and so on. A group that cannot be written
// is reported and skipped; the returned error joins every such failure.
func Split(infile, outfile string, size int) (Summary, error) {
	var summary Summary

	header, rows, err := LoadTable(infile)
	if err != nil {
		return summary, err
	}

	groups, err := Partition(rows, size)
	if err != nil {
		return summary, err
	}
	slog.Debug("Partitioned table", "infile", infile, "rows", len(rows), "groups", len(groups))

	var errs []error
	for i, group := range groups {
		name := OutputName(outfile, i+1)
		if err := WriteGroup(name, header, group); err != nil {
			slog.Error("Failed to write group", "file", name, "error", err)
			summary.Failed = append(summary.Failed, name)
			errs = append(errs, err)
			continue
		}
		slog.Debug("Wrote group", "file", name, "rows", len(group))
		summary.Written = append(summary.Written, name)
	}

	return summary, errors.Join(errs...)
}
