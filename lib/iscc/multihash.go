// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package iscc

import (
	"encoding/hex"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/zeebo/blake3"
)

// blake3Multihash returns the hex multihash (BLAKE3, 32-byte digest)
// of a precomputed digest: "1e20" followed by the digest in hex.
func blake3Multihash(digest []byte) string {
	encoded, err := multihash.Encode(digest, multihash.BLAKE3)
	if err != nil {
		// Encode fails only for unknown codes or oversized digests.
		panic(fmt.Sprintf("iscc: multihash encoding of %d-byte digest: %v", len(digest), err))
	}
	return hex.EncodeToString(encoded)
}

// hashMultihash hashes data with BLAKE3 and returns its hex multihash.
func hashMultihash(data []byte) string {
	digest := blake3.Sum256(data)
	return blake3Multihash(digest[:])
}

// DatahashCID converts a hex BLAKE3 multihash, as carried in
// [InstanceCode.Datahash], into a CIDv1 with the raw codec.
func DatahashCID(datahash string) (string, error) {
	raw, err := hex.DecodeString(datahash)
	if err != nil {
		return "", fmt.Errorf("iscc: datahash is not hex: %w", err)
	}
	decoded, err := multihash.Cast(raw)
	if err != nil {
		return "", fmt.Errorf("iscc: datahash is not a multihash: %w", err)
	}
	return cid.NewCidV1(cid.Raw, decoded).String(), nil
}
