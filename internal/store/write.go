package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Create validates data, stores it as a new row and returns the row as
// persisted. created and modified are both set to the current time.
func (s *Store[T]) Create(ctx context.Context, data T) (Row[T], error) {
	payload, err := encodePayload(data)
	if err != nil {
		return Row[T]{}, s.fail(CodeValidation, "create", 0, err)
	}
	ts := formatTimestamp(s.now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Row[T]{}, s.fail(CodeStorageUnavailable, "create", 0, fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, s.sql.Insert(), ts, ts, payload)
	if err != nil {
		return Row[T]{}, s.fail(CodeStorageUnavailable, "create", 0, fmt.Errorf("insert: %w", err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return Row[T]{}, s.fail(CodeStorageUnavailable, "create", 0, fmt.Errorf("last insert id: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return Row[T]{}, s.fail(CodeStorageUnavailable, "create", id, fmt.Errorf("commit: %w", err))
	}

	row, err := decodeRow[T](rawRow{
		id:       id,
		created:  ts,
		modified: sql.NullString{String: ts, Valid: true},
		data:     payload,
	})
	if err != nil {
		return Row[T]{}, s.fail(CodeDataCorruption, "create", id, err)
	}

	s.logger.Debug("row created", "table", s.table, "id", id)
	return row, nil
}

// Update replaces the payload of row id and sets modified to the current
// time; created is untouched. Returns ErrNotFound if the row does not exist.
//
// modified never precedes created: a clock reading earlier than created is
// clamped to created.
func (s *Store[T]) Update(ctx context.Context, id int64, data T) (Row[T], error) {
	payload, err := encodePayload(data)
	if err != nil {
		return Row[T]{}, s.fail(CodeValidation, "update", id, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Row[T]{}, s.fail(CodeStorageUnavailable, "update", id, fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback()

	existing, err := scanRaw(tx.QueryRowContext(ctx, s.sql.SelectByID(), id))
	if errors.Is(err, sql.ErrNoRows) {
		return Row[T]{}, s.fail(CodeNotFound, "update", id, nil)
	}
	if err != nil {
		return Row[T]{}, s.fail(CodeStorageUnavailable, "update", id, fmt.Errorf("select existing: %w", err))
	}

	created, _, err := existing.timestamps()
	if err != nil {
		return Row[T]{}, s.fail(CodeDataCorruption, "update", id, err)
	}

	now := s.now()
	if now.Before(created) {
		now = created
	}
	ts := formatTimestamp(now)

	if _, err := tx.ExecContext(ctx, s.sql.Update(), payload, ts, id); err != nil {
		return Row[T]{}, s.fail(CodeStorageUnavailable, "update", id, fmt.Errorf("update: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return Row[T]{}, s.fail(CodeStorageUnavailable, "update", id, fmt.Errorf("commit: %w", err))
	}

	row, err := decodeRow[T](rawRow{
		id:       id,
		created:  existing.created,
		modified: sql.NullString{String: ts, Valid: true},
		data:     payload,
	})
	if err != nil {
		return Row[T]{}, s.fail(CodeDataCorruption, "update", id, err)
	}

	s.logger.Debug("row updated", "table", s.table, "id", id)
	return row, nil
}

// Delete permanently removes row id and returns a tombstone carrying the id
// and the removed row's timestamps, with nil Data. Returns ErrNotFound if the
// row does not exist, including when it was already deleted.
func (s *Store[T]) Delete(ctx context.Context, id int64) (Row[T], error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Row[T]{}, s.fail(CodeStorageUnavailable, "delete", id, fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback()

	existing, err := scanRaw(tx.QueryRowContext(ctx, s.sql.SelectByID(), id))
	if errors.Is(err, sql.ErrNoRows) {
		return Row[T]{}, s.fail(CodeNotFound, "delete", id, nil)
	}
	if err != nil {
		return Row[T]{}, s.fail(CodeStorageUnavailable, "delete", id, fmt.Errorf("select existing: %w", err))
	}

	if _, err := tx.ExecContext(ctx, s.sql.Delete(), id); err != nil {
		return Row[T]{}, s.fail(CodeStorageUnavailable, "delete", id, fmt.Errorf("delete: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return Row[T]{}, s.fail(CodeStorageUnavailable, "delete", id, fmt.Errorf("commit: %w", err))
	}

	tombstone := Row[T]{ID: id}
	// A row with unreadable timestamps is still deleted; the tombstone just
	// carries zero times.
	if created, modified, err := existing.timestamps(); err == nil {
		tombstone.Created = created
		tombstone.Modified = modified
	}

	s.logger.Debug("row deleted", "table", s.table, "id", id)
	return tombstone, nil
}

// fail builds a store error for this table.
func (s *Store[T]) fail(code ErrorCode, op string, id int64, err error) error {
	return &Error{Code: code, Op: op, Table: s.table, ID: id, Err: err}
}
