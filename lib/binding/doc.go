// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package binding adapts the code generators to a host program that
// works with status flags and a last-error slot instead of Go errors.
//
// A [Session] belongs to one caller (one goroutine, or one host
// thread). Every method reports success as a bool; on failure the
// error message is stored in the session and read back with
// [Session.LastError]. The next successful call clears it. Hashers are
// addressed through opaque [Handle] values owned by the session, and
// raw byte results come back as [Buffer] and [BufferArray] values with
// an explicit Release.
//
// Nothing in this package is safe for concurrent use; hosts that call
// from several threads create one Session per thread.
package binding
