package dashboard

import (
	"bytes"
	"encoding/json"
)

// Maybe holds a value that the aggregation service may not provide (JSON null or missing).
// An absent value is never the zero value: renderers show a placeholder instead.
type Maybe[T any] struct {
	Value T
	Valid bool
}

// Some returns a present value.
func Some[T any](v T) Maybe[T] { return Maybe[T]{Value: v, Valid: true} }

// None returns an absent value.
func None[T any]() Maybe[T] { return Maybe[T]{} }

// Get returns the value and whether it is present.
func (m Maybe[T]) Get() (T, bool) { return m.Value, m.Valid }

func (m Maybe[T]) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

func (m *Maybe[T]) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*m = Maybe[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*m = Maybe[T]{Value: v, Valid: true}
	return nil
}
