// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binding

import (
	"github.com/bureau-foundation/iscc/lib/component"
	"github.com/bureau-foundation/iscc/lib/failure"
	"github.com/bureau-foundation/iscc/lib/iscc"
	"github.com/bureau-foundation/iscc/lib/textnorm"
)

// Session is one caller's view of the library: its last error and its
// live hasher handles. The zero value is not usable; call NewSession.
type Session struct {
	lastError string
	lastKind  string

	handles    map[Handle]*hasherEntry
	nextHandle Handle
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{handles: make(map[Handle]*hasherEntry)}
}

// LastError returns the message of the most recent failed call, or ""
// if the most recent call succeeded.
func (s *Session) LastError() string {
	return s.lastError
}

// LastErrorKind returns the kind name ("ValidationError", ...) of the
// most recent failure, or "" after a success.
func (s *Session) LastErrorKind() string {
	return s.lastKind
}

// record stores err in the last-error slot and reports whether the call
// succeeded.
func (s *Session) record(err error) bool {
	if err != nil {
		s.lastError = err.Error()
		s.lastKind = failure.Kind(err)
		return false
	}
	s.lastError = ""
	s.lastKind = ""
	return true
}

// code finishes a generator call that yields a code string.
func (s *Session) code(value string, err error) (string, bool) {
	if !s.record(err) {
		return "", false
	}
	return value, true
}

// GenMetaCode wraps [iscc.GenMetaCode].
func (s *Session) GenMetaCode(name, description string, meta []byte, bits int) (string, bool) {
	result, err := iscc.GenMetaCode(name, description, meta, bits)
	if err != nil {
		return s.code("", err)
	}
	return s.code(result.Code, nil)
}

// GenTextCode wraps [iscc.GenTextCode].
func (s *Session) GenTextCode(text string, bits int) (string, bool) {
	result, err := iscc.GenTextCode(text, bits)
	if err != nil {
		return s.code("", err)
	}
	return s.code(result.Code, nil)
}

// GenImageCode wraps [iscc.GenImageCode].
func (s *Session) GenImageCode(pixels []byte, bits int) (string, bool) {
	result, err := iscc.GenImageCode(pixels, bits)
	if err != nil {
		return s.code("", err)
	}
	return s.code(result.Code, nil)
}

// GenAudioCode wraps [iscc.GenAudioCode].
func (s *Session) GenAudioCode(features []int32, bits int) (string, bool) {
	result, err := iscc.GenAudioCode(features, bits)
	if err != nil {
		return s.code("", err)
	}
	return s.code(result.Code, nil)
}

// GenVideoCode wraps [iscc.GenVideoCode].
func (s *Session) GenVideoCode(frames [][]int32, bits int) (string, bool) {
	result, err := iscc.GenVideoCode(frames, bits)
	if err != nil {
		return s.code("", err)
	}
	return s.code(result.Code, nil)
}

// GenMixedCode wraps [iscc.GenMixedCode].
func (s *Session) GenMixedCode(codes []string, bits int) (string, bool) {
	result, err := iscc.GenMixedCode(codes, bits)
	if err != nil {
		return s.code("", err)
	}
	return s.code(result.Code, nil)
}

// GenDataCode wraps [iscc.GenDataCode].
func (s *Session) GenDataCode(data []byte, bits int) (string, bool) {
	result, err := iscc.GenDataCode(data, bits)
	if err != nil {
		return s.code("", err)
	}
	return s.code(result.Code, nil)
}

// GenInstanceCode wraps [iscc.GenInstanceCode].
func (s *Session) GenInstanceCode(data []byte, bits int) (string, bool) {
	result, err := iscc.GenInstanceCode(data, bits)
	if err != nil {
		return s.code("", err)
	}
	return s.code(result.Code, nil)
}

// GenIsccCode wraps [iscc.GenIsccCode].
func (s *Session) GenIsccCode(codes []string, wide bool) (string, bool) {
	result, err := iscc.GenIsccCode(codes, wide)
	if err != nil {
		return s.code("", err)
	}
	return s.code(result.Code, nil)
}

// Decompose wraps [iscc.Decompose].
func (s *Session) Decompose(code string) ([]string, bool) {
	units, err := iscc.Decompose(code)
	if !s.record(err) {
		return nil, false
	}
	return units, true
}

// Decode parses a code. A malformed code is a normal outcome reported
// through Decoded.OK; it does not touch the last-error slot.
func (s *Session) Decode(code string) component.Decoded {
	return component.Decode(code)
}

// ConformanceSelftest reports whether every built-in known code still
// reproduces. On failure the last-error slot lists the mismatches.
func (s *Session) ConformanceSelftest() bool {
	_, err := iscc.ConformanceSelftest()
	return s.record(err)
}

// JSONToDataURL wraps [iscc.JSONToDataURL].
func (s *Session) JSONToDataURL(document string) (string, bool) {
	return s.code(iscc.JSONToDataURL(document))
}

// TextClean wraps [textnorm.Clean].
func (s *Session) TextClean(text string) string {
	s.record(nil)
	return textnorm.Clean(text)
}

// TextRemoveNewlines wraps [textnorm.RemoveNewlines].
func (s *Session) TextRemoveNewlines(text string) string {
	s.record(nil)
	return textnorm.RemoveNewlines(text)
}

// TextTrim wraps [textnorm.Trim].
func (s *Session) TextTrim(text string, size int) string {
	s.record(nil)
	return textnorm.Trim(text, size)
}

// TextCollapse wraps [textnorm.Collapse].
func (s *Session) TextCollapse(text string) string {
	s.record(nil)
	return textnorm.Collapse(text)
}

// Constant accessors let hosts trim inputs the same way the generators
// do before calling them.

func MetaTrimName() int        { return iscc.MetaTrimName }
func MetaTrimDescription() int { return iscc.MetaTrimDescription }
func MetaTrimMeta() int        { return iscc.MetaTrimMeta }
func IoReadSize() int          { return iscc.IoReadSize }
func TextNgramSize() int       { return iscc.TextNgramSize }
