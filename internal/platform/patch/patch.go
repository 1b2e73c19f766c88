// Package patch distingue "campo ausente" de "campo enviado como null" en bodies de update.
package patch

import (
	"bytes"
	"encoding/json"
)

// Field registra si la key JSON vino y, en ese caso, su valor (nil para null).
type Field[T any] struct {
	Set   bool
	Value *T
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		f.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

// Of construye un campo presente con v.
func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

// Null construye un campo presente con null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}

// Or devuelve el valor, o def si está ausente o es null.
func (f Field[T]) Or(def T) T {
	if f.Value == nil {
		return def
	}
	return *f.Value
}
