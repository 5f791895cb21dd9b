package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_RoundTrip(t *testing.T) {
	ts := time.Date(2024, 3, 1, 9, 30, 5, 123456789, time.UTC)

	text := formatTimestamp(ts)
	assert.Equal(t, "2024-03-01 09:30:05.123456789", text)

	parsed, err := parseTimestamp(text)
	require.NoError(t, err)
	assert.True(t, ts.Equal(parsed))
}

func TestTimestamp_FormatIsUTCAndFixedWidth(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2024, 3, 1, 11, 30, 0, 0, loc)

	assert.Equal(t, "2024-03-01 09:30:00.000000000", formatTimestamp(ts))

	// Text order equals time order for fixed-width timestamps.
	earlier := formatTimestamp(time.Date(2024, 3, 1, 9, 29, 59, 999999999, time.UTC))
	assert.Less(t, earlier, formatTimestamp(ts))
}

func TestTimestamp_ParsesColumnDefault(t *testing.T) {
	parsed, err := parseTimestamp("2024-03-01 09:30:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC), parsed)

	_, err = parseTimestamp("yesterday")
	assert.Error(t, err)
}

func TestRawRow_Timestamps(t *testing.T) {
	r := rawRow{created: "2024-03-01 09:30:00", modified: sql.NullString{}}
	created, modified, err := r.timestamps()
	require.NoError(t, err)
	assert.Equal(t, created, modified)

	r.modified = sql.NullString{String: "2024-03-02 10:00:00.000000000", Valid: true}
	created, modified, err = r.timestamps()
	require.NoError(t, err)
	assert.True(t, modified.After(created))

	r.modified = sql.NullString{String: "garbage", Valid: true}
	_, _, err = r.timestamps()
	assert.ErrorContains(t, err, "modified")
}

func TestEncodeDecodePayload(t *testing.T) {
	payload, err := encodePayload(Note{Text: "hello", Rank: 1})
	require.NoError(t, err)
	assert.Equal(t, `{"rank":1,"text":"hello"}`, payload)

	decoded, err := decodePayload[Note](payload)
	require.NoError(t, err)
	assert.Equal(t, Note{Text: "hello", Rank: 1}, *decoded)

	_, err = encodePayload(Note{})
	assert.ErrorContains(t, err, "text is required")

	_, err = decodePayload[Note](`{"text":""}`)
	assert.ErrorContains(t, err, "stored payload invalid")

	_, err = decodePayload[Note](`[1,2]`)
	assert.Error(t, err)
}

func TestDecodePayload_IgnoresUnknownFields(t *testing.T) {
	decoded, err := decodePayload[Note](`{"text":"old","legacy":true}`)
	require.NoError(t, err)
	assert.Equal(t, "old", decoded.Text)
}

func TestFromFields(t *testing.T) {
	note, err := FromFields[Note](map[string]any{"text": "hi", "rank": 2})
	require.NoError(t, err)
	assert.Equal(t, Note{Text: "hi", Rank: 2}, note)

	_, err = FromFields[Note](map[string]any{"text": ""})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = FromFields[Note](map[string]any{"text": "hi", "colour": "red"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = FromFields[Note](map[string]any{"text": 5})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestToFields_RoundTrip(t *testing.T) {
	orig := Note{Text: "round", Rank: 4}

	fields, err := ToFields(orig)
	require.NoError(t, err)
	assert.Equal(t, "round", fields["text"])

	back, err := FromFields[Note](fields)
	require.NoError(t, err)
	assert.Equal(t, orig, back)
}

func TestTableName(t *testing.T) {
	name, err := TableName[Note]()
	require.NoError(t, err)
	assert.Equal(t, "notes", name)

	_, err = TableName[*Note]()
	assert.ErrorContains(t, err, "has no name")

	_, err = TableName[Box[string]]()
	assert.ErrorContains(t, err, "valid table name")
}
