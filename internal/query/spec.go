package query

// Spec is an immutable description of filter, grouping, ordering and paging
// intent for a single read. Callers construct one per call; the store copies
// it and never modifies it.
type Spec struct {
	// Where is a boolean SQLite expression. Empty means no filter.
	Where string

	// GroupBy is a SQLite GROUP BY expression list. Empty means no grouping.
	GroupBy string

	// OrderBy is a SQLite ORDER BY term list. The store always appends id as
	// a final tiebreaker so paging is deterministic.
	OrderBy string

	// Limit caps the total number of rows across all pages. Nil means no cap.
	Limit *int

	// Offset skips rows before the first returned row. Nil means zero.
	Offset *int
}

// Int returns a pointer to n, for filling Limit and Offset.
func Int(n int) *int {
	return &n
}

// Clone returns a deep copy of s. Clone of nil is nil.
func (s *Spec) Clone() *Spec {
	if s == nil {
		return nil
	}
	c := *s
	if s.Limit != nil {
		c.Limit = Int(*s.Limit)
	}
	if s.Offset != nil {
		c.Offset = Int(*s.Offset)
	}
	return &c
}

// LimitValue returns the limit and whether one is set.
func (s *Spec) LimitValue() (int, bool) {
	if s == nil || s.Limit == nil {
		return 0, false
	}
	return *s.Limit, true
}

// OffsetValue returns the offset, zero when unset.
func (s *Spec) OffsetValue() int {
	if s == nil || s.Offset == nil {
		return 0
	}
	return *s.Offset
}
