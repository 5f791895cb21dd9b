package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Row is the persistence envelope around one record.
//
// Data is nil only for the tombstone returned by Delete.
type Row[T Schema] struct {
	ID       int64     `json:"id"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
	Data     *T        `json:"data"`
}

// IsTombstone reports whether r is the result of a Delete.
func (r Row[T]) IsTombstone() bool {
	return r.Data == nil
}

// timestampLayout is fixed width so that text order is time order. SQLite
// date functions accept it.
const timestampLayout = "2006-01-02 15:04:05.000000000"

// parseLayouts are tried in order when reading. The second matches the
// CURRENT_TIMESTAMP column default.
var parseLayouts = []string{
	timestampLayout,
	time.DateTime,
	time.RFC3339Nano,
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range parseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// rawRow is a row as scanned, before the payload is decoded.
type rawRow struct {
	id       int64
	created  string
	modified sql.NullString
	data     string
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRaw(sc scanner) (rawRow, error) {
	var r rawRow
	err := sc.Scan(&r.id, &r.created, &r.modified, &r.data)
	return r, err
}

// timestamps parses created and modified. A NULL modified (rows written
// with the column default) reads as created.
func (r rawRow) timestamps() (created, modified time.Time, err error) {
	created, err = parseTimestamp(r.created)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("created: %w", err)
	}
	if !r.modified.Valid || r.modified.String == "" {
		return created, created, nil
	}
	modified, err = parseTimestamp(r.modified.String)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("modified: %w", err)
	}
	return created, modified, nil
}
