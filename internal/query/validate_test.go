package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		spec    *Spec
		wantErr string
	}{
		{"nil spec", nil, ""},
		{"empty spec", &Spec{}, ""},
		{"zero limit", &Spec{Limit: Int(0)}, ""},
		{"positive limit and offset", &Spec{Limit: Int(10), Offset: Int(5)}, ""},
		{"negative limit", &Spec{Limit: Int(-1)}, "limit must be non-negative"},
		{"negative offset", &Spec{Offset: Int(-3)}, "offset must be non-negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.spec)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLint_CleanFragments(t *testing.T) {
	spec := &Spec{
		Where:   "json_extract(data, '$.with') = 'Ada'",
		OrderBy: "created DESC",
		GroupBy: "json_extract(data, '$.with')",
	}
	assert.Empty(t, Lint(spec))
	assert.Empty(t, Lint(nil))
}

func TestLint_FlagsInjectionShapes(t *testing.T) {
	spec := &Spec{
		Where:   "1=1; DROP TABLE calls",
		OrderBy: "id -- trailing",
	}

	warnings := Lint(spec)
	assert.Contains(t, warnings, "where fragment contains a statement separator")
	assert.Contains(t, warnings, `where fragment contains keyword "drop"`)
	assert.Contains(t, warnings, "order by fragment contains a SQL comment")
}

func TestLint_IgnoresQuotedLiterals(t *testing.T) {
	tests := []struct {
		name  string
		where string
	}{
		{"keyword in value", "json_extract(data, '$.\"text\"') = 'update me'"},
		{"delete in value", "json_extract(data, '$.\"with\"') = 'Delete Team'"},
		{"separator in value", "json_extract(data, '$.\"text\"') = 'a; b'"},
		{"comment in value", "json_extract(data, '$.\"text\"') = 'x -- y /* z'"},
		{"escaped quote", "json_extract(data, '$.\"with\"') = 'O''Brien; drop '"},
		{"keyword inside identifier", "last_update > 3 AND is_deleted = 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, Lint(&Spec{Where: tt.where}))
		})
	}
}

func TestLint_FlagsCodeAroundLiterals(t *testing.T) {
	warnings := Lint(&Spec{Where: "text = 'a'; UPDATE calls SET data = '{}'"})
	assert.Contains(t, warnings, "where fragment contains a statement separator")
	assert.Contains(t, warnings, `where fragment contains keyword "update"`)
	assert.Len(t, warnings, 2)

	warnings = Lint(&Spec{Where: "text = 'it''s; DROP TABLE calls"})
	assert.Contains(t, warnings, "where fragment has an unterminated string literal")
	assert.Contains(t, warnings, `where fragment contains keyword "drop"`)
}

func TestClone_IsIndependent(t *testing.T) {
	orig := &Spec{Where: "id > 1", Limit: Int(3), Offset: Int(1)}
	c := orig.Clone()

	*c.Limit = 99
	c.Where = "changed"

	assert.Equal(t, 3, *orig.Limit)
	assert.Equal(t, "id > 1", orig.Where)
	assert.Nil(t, (*Spec)(nil).Clone())
}

func TestLimitAndOffsetValues(t *testing.T) {
	var nilSpec *Spec
	_, ok := nilSpec.LimitValue()
	assert.False(t, ok)
	assert.Equal(t, 0, nilSpec.OffsetValue())

	s := &Spec{Limit: Int(4), Offset: Int(2)}
	n, ok := s.LimitValue()
	assert.True(t, ok)
	assert.Equal(t, 4, n)
	assert.Equal(t, 2, s.OffsetValue())
}
