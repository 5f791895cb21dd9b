// Package querysql generates the SQLite statements used by the typed row
// store: table DDL, single-row CRUD statements and paged SELECTs compiled from
// a query.Spec.
//
// Values supplied by the store (ids, payloads, timestamps, page windows) are
// always bound as ? parameters. Spec fragments are spliced verbatim; see the
// trust boundary notes in package query.
package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/spokewith/internal/query"
)

// Columns is the fixed row layout shared by every table.
const Columns = "id, created, modified, data"

// Compiler produces statements for one table. The table name must already be
// a validated identifier; Compiler does not quote it.
type Compiler struct {
	Table string
}

// NewCompiler creates a Compiler bound to table.
func NewCompiler(table string) *Compiler {
	return &Compiler{Table: table}
}

// Window is the slice of the result set fetched for one page.
type Window struct {
	Limit  int
	Offset int
}

// CreateTable returns the idempotent DDL for the table.
func (c *Compiler) CreateTable() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	modified TEXT,
	data TEXT NOT NULL CHECK (json_valid(data))
)`, c.Table)
}

// Insert returns the INSERT statement. Parameters: created, modified, data.
func (c *Compiler) Insert() string {
	return fmt.Sprintf("INSERT INTO %s (created, modified, data) VALUES (?, ?, ?)", c.Table)
}

// SelectByID returns the single-row SELECT. Parameter: id.
func (c *Compiler) SelectByID() string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", Columns, c.Table)
}

// Update returns the UPDATE statement. Parameters: data, modified, id.
func (c *Compiler) Update() string {
	return fmt.Sprintf("UPDATE %s SET data = ?, modified = ? WHERE id = ?", c.Table)
}

// Delete returns the DELETE statement. Parameter: id.
func (c *Compiler) Delete() string {
	return fmt.Sprintf("DELETE FROM %s WHERE id = ?", c.Table)
}

// Select compiles q and a page window into a SELECT. The window is bound as
// LIMIT ? OFFSET ? and returned as params.
//
// Clause order is WHERE, GROUP BY, ORDER BY. Every query ends its ORDER BY
// with "id ASC" so consecutive windows never overlap or skip rows.
func (c *Compiler) Select(q *query.Spec, w Window) (string, []any) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s", Columns, c.Table)

	if q != nil && strings.TrimSpace(q.Where) != "" {
		sb.WriteString(" WHERE (")
		sb.WriteString(q.Where)
		sb.WriteString(")")
	}
	if q != nil && strings.TrimSpace(q.GroupBy) != "" {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(q.GroupBy)
	}

	sb.WriteString(" ORDER BY ")
	sb.WriteString(stableOrderKey(q))
	sb.WriteString(" LIMIT ? OFFSET ?")

	return sb.String(), []any{w.Limit, w.Offset}
}

// stableOrderKey returns the ORDER BY terms: the caller's ordering followed
// by id as a tiebreaker.
func stableOrderKey(q *query.Spec) string {
	if q == nil || strings.TrimSpace(q.OrderBy) == "" {
		return "id ASC"
	}
	return q.OrderBy + ", id ASC"
}

// Quote renders s as a SQLite string literal, doubling embedded quotes.
// Use it to embed values in Where fragments built by trusted code.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Field returns a json_extract expression for a top-level payload field.
// name must be a plain field name; it is quoted as a JSON path key.
func Field(name string) string {
	key := strings.ReplaceAll(name, `"`, `\"`)
	return fmt.Sprintf(`json_extract(data, %s)`, Quote(`$."`+key+`"`))
}
