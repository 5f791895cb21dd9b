package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/spokewith/internal/testutil"
)

// Note is the record schema used throughout the store tests.
type Note struct {
	Text string `json:"text"`
	Rank int    `json:"rank,omitempty"`
}

func (n Note) Validate() error {
	if strings.TrimSpace(n.Text) == "" {
		return errors.New("text is required")
	}
	if n.Rank < 0 {
		return errors.New("rank must be non-negative")
	}
	return nil
}

// createTestStore creates a new in-memory Note store with a step clock.
func createTestStore(t *testing.T, opts ...Option) *Store[Note] {
	t.Helper()
	opts = append([]Option{WithClock(testutil.NewDefaultStepClock())}, opts...)
	s, err := Open[Note](MemoryPath, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// seedNotes creates n notes with text "note-<i>" and rank i, i from 1.
func seedNotes(t *testing.T, s *Store[Note], n int) []Row[Note] {
	t.Helper()
	rows := make([]Row[Note], 0, n)
	for i := 1; i <= n; i++ {
		row, err := s.Create(context.Background(), Note{Text: noteText(i), Rank: i})
		require.NoError(t, err)
		rows = append(rows, row)
	}
	return rows
}

func noteText(i int) string {
	return "note-" + string(rune('a'+i-1))
}

// corruptRow overwrites the stored payload of id, bypassing validation.
func corruptRow(t *testing.T, s *Store[Note], id int64, payload string) {
	t.Helper()
	_, err := s.DB().Exec("UPDATE notes SET data = ? WHERE id = ?", payload, id)
	require.NoError(t, err)
}

// collectIDs drains pages and returns row ids in order along with page sizes.
func collectIDs(t *testing.T, pages *Pages[Note]) (ids []int64, sizes []int) {
	t.Helper()
	ctx := context.Background()
	for pages.Next(ctx) {
		sizes = append(sizes, len(pages.Page()))
		for _, row := range pages.Page() {
			ids = append(ids, row.ID)
		}
	}
	require.NoError(t, pages.Err())
	return ids, sizes
}
