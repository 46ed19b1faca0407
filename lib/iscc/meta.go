// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package iscc

import (
	"bytes"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/bureau-foundation/iscc/lib/component"
	"github.com/bureau-foundation/iscc/lib/failure"
	"github.com/bureau-foundation/iscc/lib/similarity"
	"github.com/bureau-foundation/iscc/lib/textnorm"
)

// MetaCode is the result of [GenMetaCode].
type MetaCode struct {
	Code string `json:"iscc"`

	// Name is the normalized name that was hashed.
	Name string `json:"name"`

	// Description is the normalized description, empty if none.
	Description string `json:"description,omitempty"`

	// Meta is the metadata as a data URL, empty if none was given.
	Meta string `json:"meta,omitempty"`

	// Metahash is the hex BLAKE3 multihash of the metadata payload, or
	// of the normalized name and description when no payload was given.
	Metahash string `json:"metahash"`
}

// GenMetaCode computes a Meta-Code from a name, an optional description
// and optional structured metadata.
//
// The name is cleaned, folded onto one line and trimmed to
// [MetaTrimName] bytes; it must not be empty afterwards. The
// description is cleaned and trimmed to [MetaTrimDescription] bytes.
// meta, when non-empty, is either a base64 "data:" URL or a JSON
// document (canonicalized before hashing); its payload may not exceed
// [MetaTrimMeta] bytes.
//
// The digest interleaves 4-byte blocks of a name hash with blocks of a
// hash of the metadata payload, or of the description when no payload
// is given; with neither, the name hash is used alone. Adding a
// description therefore changes the code while the name blocks stay.
func GenMetaCode(name, description string, meta []byte, bits int) (*MetaCode, error) {
	if err := component.CheckBits(bits); err != nil {
		return nil, err
	}

	name = textnorm.Trim(textnorm.RemoveNewlines(textnorm.Clean(name)), MetaTrimName)
	if name == "" {
		return nil, failure.Validation("iscc: meta name is empty after normalization")
	}
	description = textnorm.Trim(textnorm.Clean(description), MetaTrimDescription)

	result := &MetaCode{Name: name, Description: description}
	var payload []byte
	var url string
	if len(meta) > 0 {
		var err error
		payload, url, err = resolveMeta(meta)
		if err != nil {
			return nil, err
		}
	}

	var digest []byte
	if len(payload) > 0 {
		result.Meta = url
		result.Metahash = hashMultihash(payload)
		digest = metaDigestWithPayload(name, payload)
	} else {
		// An empty data URL payload counts as no metadata.
		text := name
		if description != "" {
			text = name + " " + description
		}
		result.Metahash = hashMultihash([]byte(strings.TrimSpace(text)))
		digest = metaDigest(name, description)
	}

	code, err := component.Encode(component.Meta, component.None, component.V0, bits, digest)
	if err != nil {
		return nil, err
	}
	result.Code = code
	return result, nil
}

// resolveMeta returns the payload bytes and data URL of meta.
func resolveMeta(meta []byte) ([]byte, string, error) {
	var payload []byte
	var url string
	if bytes.HasPrefix(meta, []byte(dataURLScheme)) {
		decoded, err := decodeDataURL(string(meta))
		if err != nil {
			return nil, "", err
		}
		payload, url = decoded, string(meta)
	} else {
		canonical, linkedData, err := canonicalJSON(meta)
		if err != nil {
			return nil, "", err
		}
		payload, url = canonical, buildDataURL(canonical, linkedData)
	}
	if len(payload) > MetaTrimMeta {
		return nil, "", failure.Validation("iscc: metadata payload of %d bytes exceeds %d", len(payload), MetaTrimMeta)
	}
	return payload, url, nil
}

// textSimHash returns the SimHash of BLAKE3 digests of the width-3
// n-grams of the collapsed text.
func textSimHash(text string) []byte {
	windows, _ := similarity.SlidingWindow(textnorm.Collapse(text), metaNgramSize)
	digests := make([][]byte, len(windows))
	for index, window := range windows {
		sum := blake3.Sum256([]byte(window))
		digests[index] = sum[:]
	}
	// Windows are never empty and all digests share one length.
	digest, _ := similarity.SimHash(digests)
	return digest
}

func metaDigest(name, description string) []byte {
	nameDigest := textSimHash(name)
	if description == "" {
		return nameDigest
	}
	return interleave(nameDigest, textSimHash(description))
}

func metaDigestWithPayload(name string, payload []byte) []byte {
	nameDigest := textSimHash(name)
	windows := similarity.SlidingWindowBytes(payload, metaByteNgramSize)
	digests := make([][]byte, len(windows))
	for index, window := range windows {
		sum := blake3.Sum256(window)
		digests[index] = sum[:]
	}
	payloadDigest, _ := similarity.SimHash(digests)
	return interleave(nameDigest, payloadDigest)
}

// interleave alternates 4-byte blocks from the first 16 bytes of a and
// b: a[0:4] b[0:4] a[4:8] b[4:8] ... into 32 bytes.
func interleave(a, b []byte) []byte {
	result := make([]byte, 0, 32)
	for offset := 0; offset < 16; offset += 4 {
		result = append(result, a[offset:offset+4]...)
		result = append(result, b[offset:offset+4]...)
	}
	return result
}
