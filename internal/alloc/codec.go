package alloc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed indicates matrix input that is not a three-level object of
// cells.
var ErrMalformed = errors.New("alloc: malformed matrix")

// Nested is the persisted shape of the matrix:
// timePointId → projectId → teamId → Cell.
type Nested map[string]map[string]map[string]Cell

// MarshalJSON encodes the matrix in the nested shape. Map keys are emitted
// sorted, so equal matrices encode to identical bytes.
func (m *Matrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Nested())
}

// UnmarshalJSON replaces the matrix with the nested JSON document in data.
func (m *Matrix) UnmarshalJSON(data []byte) error {
	n, err := DecodeNested(data)
	if err != nil {
		return err
	}
	m.BulkReplace(n)
	return nil
}

// DecodeNested parses a nested JSON matrix. Anything other than an object at
// the top level, or a value of the wrong shape below it, yields ErrMalformed.
// A JSON null decodes to an empty matrix.
func DecodeNested(data []byte) (Nested, error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return Nested{}, nil
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: top level is not an object", ErrMalformed)
	}
	var n Nested
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if n == nil {
		n = Nested{}
	}
	return n, nil
}
