// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package failure

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation reports missing, empty, or malformed mandatory input.
	ErrValidation = errors.New("validation error")

	// ErrUnsupportedLength reports a bit length outside the supported
	// tier set. Generators check this before doing any hashing work.
	ErrUnsupportedLength = errors.New("unsupported length")

	// ErrDecode reports malformed ISCC code text.
	ErrDecode = errors.New("decode error")

	// ErrEncoding reports a digest that is too short for the requested
	// length or header fields that are out of range.
	ErrEncoding = errors.New("encoding error")

	// ErrState reports an operation on a finalized or destroyed hasher.
	ErrState = errors.New("state error")
)

// kinds maps each sentinel to its reported kind name, in the order
// [Kind] checks them.
var kinds = []struct {
	sentinel error
	name     string
}{
	{ErrValidation, "ValidationError"},
	{ErrUnsupportedLength, "UnsupportedLength"},
	{ErrDecode, "DecodeError"},
	{ErrEncoding, "EncodingError"},
	{ErrState, "StateError"},
}

// Kind returns the kind name of err ("ValidationError",
// "UnsupportedLength", "DecodeError", "EncodingError", "StateError"),
// or "" when err is nil or does not wrap any of the sentinels.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, kind := range kinds {
		if errors.Is(err, kind.sentinel) {
			return kind.name
		}
	}
	return ""
}

// Validation returns an error wrapping [ErrValidation].
func Validation(format string, args ...any) error {
	return wrap(ErrValidation, format, args...)
}

// UnsupportedLength returns an error wrapping [ErrUnsupportedLength].
func UnsupportedLength(format string, args ...any) error {
	return wrap(ErrUnsupportedLength, format, args...)
}

// Decode returns an error wrapping [ErrDecode].
func Decode(format string, args ...any) error {
	return wrap(ErrDecode, format, args...)
}

// Encoding returns an error wrapping [ErrEncoding].
func Encoding(format string, args ...any) error {
	return wrap(ErrEncoding, format, args...)
}

// State returns an error wrapping [ErrState].
func State(format string, args ...any) error {
	return wrap(ErrState, format, args...)
}

// wrap formats the message and appends the sentinel so that the text
// reads "<detail>: <kind>" and errors.Is matches the sentinel.
func wrap(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sentinel)
}
