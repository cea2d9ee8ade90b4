package dto

import "encoding/json"

// Optional distinguishes the three states of a JSON field in a partial
// update: absent (leave unchanged), present-with-null (explicit clear)
// and present-with-value. UnmarshalJSON only runs for keys that appear in
// the payload, which is what makes absence observable.
type Optional[T any] struct {
	Present bool
	Valid   bool
	Value   T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Valid: true, Value: v}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Present: true}
}
