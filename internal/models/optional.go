// Spotwire - Real-Time Activation Spot Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spotwire

package models

import (
	"bytes"

	"github.com/goccy/go-json"
)

type optionalState uint8

const (
	optionalAbsent optionalState = iota
	optionalNull
	optionalValue
)

// Optional is a three-state field for partial updates: absent (the key was
// not sent), null (the key was sent as null) or a concrete value.
//
// The zero value is absent, so a struct of Optionals decoded from JSON
// reports exactly which keys the client supplied.
type Optional[T any] struct {
	state optionalState
	value T
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{state: optionalValue, value: v}
}

// Null returns an Optional explicitly set to null.
func Null[T any]() Optional[T] {
	return Optional[T]{state: optionalNull}
}

// IsAbsent reports whether the field was not supplied.
func (o Optional[T]) IsAbsent() bool { return o.state == optionalAbsent }

// IsNull reports whether the field was supplied as null.
func (o Optional[T]) IsNull() bool { return o.state == optionalNull }

// IsSet reports whether the field carries a value.
func (o Optional[T]) IsSet() bool { return o.state == optionalValue }

// Get returns the value and whether one is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.state == optionalValue
}

// UnmarshalJSON is only invoked when the key is present in the payload.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.state = optionalNull
		o.value = zero
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.state = optionalValue
	o.value = v
	return nil
}

// MarshalJSON encodes absent and null the same way; callers that need to
// omit absent fields should check IsAbsent.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.state != optionalValue {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
