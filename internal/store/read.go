package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"

	"github.com/roach88/spokewith/internal/query"
	"github.com/roach88/spokewith/internal/querysql"
)

// Get retrieves a single row by id.
// Returns ErrNotFound if the row does not exist.
func (s *Store[T]) Get(ctx context.Context, id int64) (Row[T], error) {
	raw, err := scanRaw(s.db.QueryRowContext(ctx, s.sql.SelectByID(), id))
	if errors.Is(err, sql.ErrNoRows) {
		return Row[T]{}, s.fail(CodeNotFound, "get", id, nil)
	}
	if err != nil {
		return Row[T]{}, s.fail(CodeStorageUnavailable, "get", id, err)
	}

	row, err := decodeRow[T](raw)
	if err != nil {
		return Row[T]{}, s.fail(CodeDataCorruption, "get", id, err)
	}
	return row, nil
}

// Read returns the rows matching q as a lazy sequence of pages. No query
// runs until the first call to Next. A nil q returns every row in id order.
//
// q is copied, so the caller may reuse it afterwards.
func (s *Store[T]) Read(q *query.Spec) *Pages[T] {
	return &Pages[T]{store: s, spec: q.Clone()}
}

// Pages is a forward-only sequence of row batches produced by Read.
//
// Usage:
//
//	pages := st.Read(spec)
//	for pages.Next(ctx) {
//		for _, row := range pages.Page() { ... }
//	}
//	if err := pages.Err(); err != nil { ... }
//
// Every page holds at most the store's page size rows. Once Next returns
// false the sequence is finished; call Read again to start over.
type Pages[T Schema] struct {
	store    *Store[T]
	spec     *query.Spec
	started  bool
	done     bool
	produced int
	page     []Row[T]
	err      error
}

// Next fetches the next page. It returns false when no rows remain or an
// error occurred; check Err to tell them apart.
func (p *Pages[T]) Next(ctx context.Context) bool {
	if p.done {
		return false
	}
	p.page = nil

	if !p.started {
		p.started = true
		if err := query.Validate(p.spec); err != nil {
			return p.stop(p.store.fail(CodeValidation, "read", 0, err))
		}
		for _, warning := range query.Lint(p.spec) {
			p.store.logger.Warn("suspicious query fragment", "table", p.store.table, "warning", warning)
		}
	}

	size := p.store.pageSize
	if limit, ok := p.spec.LimitValue(); ok {
		remaining := limit - p.produced
		if remaining <= 0 {
			return p.stop(nil)
		}
		size = min(size, remaining)
	}

	window := querysql.Window{Limit: size, Offset: p.spec.OffsetValue() + p.produced}
	page, err := p.fetch(ctx, window)
	if err != nil {
		return p.stop(err)
	}
	if len(page) == 0 {
		return p.stop(nil)
	}

	p.page = page
	p.produced += len(page)
	if len(page) < size {
		// Short page: the result set is exhausted.
		p.done = true
	}
	return true
}

// Page returns the rows fetched by the last successful Next.
func (p *Pages[T]) Page() []Row[T] {
	return p.page
}

// Err returns the error that ended the sequence, if any.
func (p *Pages[T]) Err() error {
	return p.err
}

// All adapts the sequence to a range-over-func iterator. A failure is
// yielded once as the final element with a nil page.
func (p *Pages[T]) All(ctx context.Context) iter.Seq2[[]Row[T], error] {
	return func(yield func([]Row[T], error) bool) {
		for p.Next(ctx) {
			if !yield(p.Page(), nil) {
				return
			}
		}
		if err := p.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// Collect drains the remaining pages into one slice. Returns an empty slice
// (not nil) when nothing matched.
func (p *Pages[T]) Collect(ctx context.Context) ([]Row[T], error) {
	rows := []Row[T]{}
	for p.Next(ctx) {
		rows = append(rows, p.Page()...)
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func (p *Pages[T]) stop(err error) bool {
	p.done = true
	p.page = nil
	p.err = err
	return false
}

// fetch runs one bounded SELECT and decodes every row in it.
func (p *Pages[T]) fetch(ctx context.Context, w querysql.Window) ([]Row[T], error) {
	s := p.store
	stmt, params := s.sql.Select(p.spec, w)

	rows, err := s.db.QueryContext(ctx, stmt, params...)
	if err != nil {
		return nil, s.fail(CodeStorageUnavailable, "read", 0, fmt.Errorf("query: %w", err))
	}
	defer rows.Close()

	page := make([]Row[T], 0, w.Limit)
	for rows.Next() {
		raw, err := scanRaw(rows)
		if err != nil {
			return nil, s.fail(CodeStorageUnavailable, "read", 0, fmt.Errorf("scan: %w", err))
		}
		row, err := decodeRow[T](raw)
		if err != nil {
			return nil, s.fail(CodeDataCorruption, "read", raw.id, err)
		}
		page = append(page, row)
	}

	if err := rows.Err(); err != nil {
		return nil, s.fail(CodeStorageUnavailable, "read", 0, fmt.Errorf("iterate: %w", err))
	}

	s.logger.Debug("page read", "table", s.table, "rows", len(page), "offset", w.Offset)
	return page, nil
}
