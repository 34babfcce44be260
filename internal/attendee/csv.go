// Package attendee loads attendee email lists from CSV files.
package attendee

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNoEmailColumn is returned when the CSV header has no "email" column.
var ErrNoEmailColumn = errors.New("CSV must have an 'email' column")

// Load reads a CSV document and returns the values of its "email" column.
// The column name match ignores case and surrounding whitespace. Rows with a
// blank email are dropped, as are duplicate addresses (first occurrence wins).
func Load(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows are tolerated, only the email cell matters

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoEmailColumn
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	emailCol := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), "email") {
			emailCol = i
			break
		}
	}
	if emailCol == -1 {
		return nil, ErrNoEmailColumn
	}

	seen := make(map[string]struct{})
	var attendees []string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		if emailCol >= len(record) {
			continue
		}
		email := strings.TrimSpace(record[emailCol])
		if email == "" {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		attendees = append(attendees, email)
	}
	return attendees, nil
}

// LoadFile opens path and loads its attendee list.
func LoadFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open attendee CSV: %w", err)
	}
	defer f.Close()
	return Load(f)
}
