package store

import (
	"fmt"

	"github.com/roach88/spokewith/internal/codec"
)

// encodePayload validates v and converts it to canonical JSON TEXT.
func encodePayload[T Schema](v T) (string, error) {
	if err := v.Validate(); err != nil {
		return "", err
	}
	data, err := codec.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// decodePayload parses stored JSON TEXT and validates the result.
func decodePayload[T Schema](data string) (*T, error) {
	var v T
	if err := codec.Unmarshal([]byte(data), &v); err != nil {
		return nil, err
	}
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("stored payload invalid: %w", err)
	}
	return &v, nil
}

// decodeRow turns a scanned row into a Row[T].
func decodeRow[T Schema](r rawRow) (Row[T], error) {
	created, modified, err := r.timestamps()
	if err != nil {
		return Row[T]{}, err
	}
	data, err := decodePayload[T](r.data)
	if err != nil {
		return Row[T]{}, err
	}
	return Row[T]{ID: r.id, Created: created, Modified: modified, Data: data}, nil
}
