// Package service defines the task model and the backend-agnostic task operations.
package service

import (
	"bytes"
	"encoding/json"
)

// Conventional status values. Status is a free-text tag; any string is accepted.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Task represents a single task item.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// IsPending reports whether the task is waiting to be worked on.
func (t Task) IsPending() bool {
	return t.Status == StatusPending
}

// Optional holds a value that may or may not have been supplied.
// The zero value is "not supplied", which is distinct from a supplied zero value.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// None returns an Optional holding nothing.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it was supplied.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set
}

// UnmarshalJSON treats JSON null as "not supplied".
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// MarshalJSON encodes an unset value as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Update describes a partial change to a task.
// Fields left unset are not touched; a field set to "" clears it.
type Update struct {
	Title       Optional[string]
	Description Optional[string]
}

// IsEmpty reports whether the update changes nothing.
func (u Update) IsEmpty() bool {
	return !u.Title.Set && !u.Description.Set
}
