// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binding

import (
	"github.com/bureau-foundation/iscc/lib/failure"
	"github.com/bureau-foundation/iscc/lib/iscc"
)

// Handle identifies a hasher owned by a [Session]. The zero Handle
// never refers to a hasher.
type Handle uint64

// hasherEntry holds exactly one of the two hasher kinds.
type hasherEntry struct {
	data     *iscc.DataHasher
	instance *iscc.InstanceHasher
}

func (s *Session) register(entry *hasherEntry) Handle {
	s.nextHandle++
	s.handles[s.nextHandle] = entry
	s.record(nil)
	return s.nextHandle
}

// NewDataHasher creates a Data-Code hasher and returns its handle.
func (s *Session) NewDataHasher() Handle {
	return s.register(&hasherEntry{data: iscc.NewDataHasher()})
}

// NewInstanceHasher creates an Instance-Code hasher and returns its
// handle.
func (s *Session) NewInstanceHasher() Handle {
	return s.register(&hasherEntry{instance: iscc.NewInstanceHasher()})
}

func (s *Session) lookup(handle Handle) (*hasherEntry, error) {
	entry, ok := s.handles[handle]
	if !ok {
		return nil, failure.State("binding: handle %d is not a live hasher", uint64(handle))
	}
	return entry, nil
}

// Update feeds data into the hasher behind handle. Updating a finalized,
// destroyed or unknown handle fails with a StateError.
func (s *Session) Update(handle Handle, data []byte) bool {
	entry, err := s.lookup(handle)
	if err != nil {
		return s.record(err)
	}
	if entry.data != nil {
		return s.record(entry.data.Update(data))
	}
	return s.record(entry.instance.Update(data))
}

// Finalize returns the code of the hasher behind handle. The handle
// stays allocated until Destroy; further updates or finalizes fail.
func (s *Session) Finalize(handle Handle, bits int) (string, bool) {
	entry, err := s.lookup(handle)
	if err != nil {
		return s.code("", err)
	}
	if entry.data != nil {
		result, err := entry.data.Finalize(bits)
		if err != nil {
			return s.code("", err)
		}
		return s.code(result.Code, nil)
	}
	result, err := entry.instance.Finalize(bits)
	if err != nil {
		return s.code("", err)
	}
	return s.code(result.Code, nil)
}

// Destroy releases the hasher behind handle. Destroying the zero
// handle, an unknown handle or an already destroyed one does nothing.
func (s *Session) Destroy(handle Handle) {
	delete(s.handles, handle)
}

// LiveHandles returns the number of hashers not yet destroyed.
func (s *Session) LiveHandles() int {
	return len(s.handles)
}
