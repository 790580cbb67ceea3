package dispatch

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/mmynk/grouprequest/internal/models"
	"github.com/mmynk/grouprequest/internal/table"
)

// RemainderHeader is the header row of a remainder table.
var RemainderHeader = table.Row{"FIRST_NAME", "LAST_NAME", "VENMO"}

// remainderTimeFormat keeps file names sortable and free of spaces and colons.
const remainderTimeFormat = "2006-01-02_15-04-05.000000"

// LoadRecipients reads the table at path, skipping the header row. Each data
// row needs at least first name, last name and handle; extra fields are ignored.
func LoadRecipients(path string) ([]models.Recipient, error) {
	rows, err := table.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	recipients := make([]models.Recipient, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < 3 {
			// i+2: 1-based line numbers plus the skipped header
			return nil, fmt.Errorf("%w: %s line %d has %d fields, want at least 3", ErrRead, path, i+2, len(row))
		}
		recipients = append(recipients, models.Recipient{
			FirstName: row[0],
			LastName:  row[1],
			Handle:    row[2],
		})
	}
	return recipients, nil
}

// RemainderFileName returns the name of the remainder table for a run at now.
func RemainderFileName(now time.Time) string {
	return fmt.Sprintf("%s-remainders.csv", now.Format(remainderTimeFormat))
}

// PersistDeferred writes deferred recipients to a new table in dir and returns
// its path. The file must not exist yet.
func PersistDeferred(dir string, now time.Time, deferred []models.Recipient) (string, error) {
	rows := make([]table.Row, 0, len(deferred)+1)
	rows = append(rows, RemainderHeader)
	for _, r := range deferred {
		rows = append(rows, r.Row())
	}

	path := filepath.Join(dir, RemainderFileName(now))
	if err := table.CreateFileExclusive(path, rows); err != nil {
		return "", fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return path, nil
}
