// Package store provides a typed row store on top of an embedded SQLite
// database.
//
// A Store[T] is bound for life to one record schema T and one table. Every
// table has the same fixed layout:
//
//	id        INTEGER PRIMARY KEY AUTOINCREMENT   assigned on create, never reused
//	created   TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
//	modified  TEXT                                set on create and every update
//	data      TEXT NOT NULL CHECK (json_valid(data))
//
// The table name is derived from the Go type name of T: lower-cased and
// suffixed with "s", so Call is stored in "calls".
//
// # Payloads
//
// Records are validated with T.Validate, encoded to canonical JSON
// (internal/codec) and stored opaquely in the data column. Reads decode and
// re-validate every payload; a payload that fails either step is reported as
// ErrDataCorruption.
//
// # Reads
//
// Read returns a lazy Pages sequence. Each page is fetched by its own bounded
// query, so the result set is never held in memory and no cursor pins the
// connection between pages. A corrupt row aborts the sequence; pages already
// returned remain valid. Restart a read by calling Read again.
//
// Filter, group and order clauses in query.Spec are raw SQLite fragments
// spliced into the SELECT text. They are a trust boundary, not an input
// channel: see package query.
//
// # Writes
//
// Create, Update and Delete each run in a single transaction. Update and
// Delete of a missing id return ErrNotFound; deleting twice is not
// idempotent.
//
// # Database Configuration
//
//   - One connection: SQLite serializes writers, and private in-memory
//     databases live only as long as their connection
//   - WAL mode for file databases
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON
//
// ":memory:" and "" open a private in-memory database that is never shared
// with another Store, even one opened with the same location.
package store
