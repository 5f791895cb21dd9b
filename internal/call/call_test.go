package call

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/spokewith/internal/store"
)

func TestValidate_Accepts(t *testing.T) {
	tests := []struct {
		name string
		c    Call
	}{
		{"text only", Call{Text: "caught up"}},
		{"all fields", Call{With: "Mum", At: "2024-03-01", Text: "birthday plans", Minutes: 45, Tags: []string{"family", "plans-2024"}}},
		{"leap day", Call{At: "2024-02-29", Text: "leap"}},
		{"one full day", Call{Text: "marathon", Minutes: 1440}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, tt.c.Validate())
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		c       Call
		wantMsg string
	}{
		{"empty text", Call{Text: ""}, "text"},
		{"blank text", Call{Text: "   "}, "text"},
		{"blank with", Call{With: " ", Text: "hi"}, "with"},
		{"bad date shape", Call{At: "01/03/2024", Text: "hi"}, "at"},
		{"not a calendar date", Call{At: "2023-02-29", Text: "hi"}, "calendar date"},
		{"negative minutes", Call{Text: "hi", Minutes: -1}, "minutes"},
		{"too many minutes", Call{Text: "hi", Minutes: 1441}, "minutes"},
		{"upper-case tag", Call{Text: "hi", Tags: []string{"Work"}}, "tags"},
		{"empty tag", Call{Text: "hi", Tags: []string{""}}, "tags"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid call")
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidate_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := Call{Text: "hi", Minutes: i}
			if i%2 == 1 {
				c.Minutes = -i
			}
			err := c.Validate()
			if (i%2 == 1) != (err != nil) {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("unexpected validation result: %v", err)
	}
}

func TestTableName(t *testing.T) {
	name, err := store.TableName[Call]()
	require.NoError(t, err)
	assert.Equal(t, "calls", name)
}
