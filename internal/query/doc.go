// Package query describes what a store read should return.
//
// A Spec carries up to five optional constraints that the store applies in a
// fixed order:
//
//	WHERE <Where>  GROUP BY <GroupBy>  ORDER BY <OrderBy>  then Offset, Limit
//
// Absent fields (empty strings, nil pointers) mean "no constraint". A nil
// *Spec means "every row in id order".
//
// TRUST BOUNDARY:
//
// Where, GroupBy and OrderBy are raw SQLite expression fragments. They are
// spliced into the generated SELECT text without quoting or escaping, so they
// can read or break anything the connection can. Build them in code from the
// same security boundary as the caller and never pass end-user text through
// them; use querysql.Quote and querysql.Field to embed values and payload
// fields. Lint reports fragments that look like statement injection, but it
// is advisory and never a substitute for keeping untrusted text out.
//
// The columns visible to fragments are id, created, modified and data. Payload
// fields are reachable with SQLite JSON functions, e.g.
// json_extract(data, '$.text').
package query
