// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package iscc

import (
	"errors"
	"fmt"
	"slices"
)

type conformanceVector struct {
	name string
	want string
	run  func() (string, error)
}

func metaVector(name, title, description, meta, want string) conformanceVector {
	return conformanceVector{name: name, want: want, run: func() (string, error) {
		result, err := GenMetaCode(title, description, []byte(meta), 64)
		if err != nil {
			return "", err
		}
		return result.Code, nil
	}}
}

func textVector(name, text, want string) conformanceVector {
	return conformanceVector{name: name, want: want, run: func() (string, error) {
		result, err := GenTextCode(text, 64)
		if err != nil {
			return "", err
		}
		return result.Code, nil
	}}
}

var conformanceVectors = []conformanceVector{
	metaVector("meta name", "Die Unendliche Geschichte", "", "", "ISCC:AAAZXZ6OU74YAZIM"),
	metaVector("meta description", "Die Unendliche Geschichte", "Von Michael Ende", "", "ISCC:AAAZXZ6OU4E45RB5"),
	metaVector("meta hello world", "Hello World", "", "", "ISCC:AAAWN77F727NXSUS"),
	metaVector("meta json", "Hello", "", `{"some":"object"}`, "ISCC:AAAWKLHFXN63LHL2"),
	metaVector("meta data url", "Hello", "", "data:application/json;charset=utf-8;base64,eyJzb21lIjogIm9iamVjdCJ9", "ISCC:AAAWKLHFXN43ICP2"),
	metaVector("meta empty data url", "Hello", "A description", "data:application/json;base64,", "ISCC:AAAWKLHFXP5A75D7"),
	textVector("text hello world", "Hello World", "ISCC:EAASKDNZNYGUUF5A"),
	textVector("text empty", "", "ISCC:EAASL4F2WZY7KBXB"),
	{name: "image zeros", want: "ISCC:EEAQAAAAAAAAAAAA", run: func() (string, error) {
		result, err := GenImageCode(make([]byte, 1024), 64)
		if err != nil {
			return "", err
		}
		return result.Code, nil
	}},
	{name: "data ff00", want: "ISCC:GAAXL2XYM5BQIAZ3", run: func() (string, error) {
		result, err := GenDataCode([]byte{0xff, 0x00}, 64)
		if err != nil {
			return "", err
		}
		return result.Code, nil
	}},
	{name: "data ff00 streamed", want: "ISCC:GAAXL2XYM5BQIAZ3", run: func() (string, error) {
		hasher := NewDataHasher()
		if err := hasher.Update([]byte{0xff}); err != nil {
			return "", err
		}
		if err := hasher.Update([]byte{0x00}); err != nil {
			return "", err
		}
		result, err := hasher.Finalize(64)
		if err != nil {
			return "", err
		}
		return result.Code, nil
	}},
	{name: "instance empty", want: "ISCC:IAA26E2JXH27TING", run: func() (string, error) {
		result, err := GenInstanceCode(nil, 64)
		if err != nil {
			return "", err
		}
		return result.Code, nil
	}},
	{name: "instance empty streamed", want: "ISCC:IAA26E2JXH27TING", run: func() (string, error) {
		result, err := NewInstanceHasher().Finalize(64)
		if err != nil {
			return "", err
		}
		return result.Code, nil
	}},
	{name: "composite round trip", want: "ISCC:GAAXL2XYM5BQIAZ3 ISCC:IAA26E2JXH27TING", run: func() (string, error) {
		units := []string{"ISCC:GAAXL2XYM5BQIAZ3", "ISCC:IAA26E2JXH27TING"}
		composite, err := GenIsccCode(units, false)
		if err != nil {
			return "", err
		}
		parts, err := Decompose(composite.Code)
		if err != nil {
			return "", err
		}
		if !slices.Equal(parts, units) {
			return fmt.Sprint(parts), nil
		}
		return units[0] + " " + units[1], nil
	}},
}

// ConformanceSelftest recomputes a fixed set of known codes and reports
// how many were checked. The error joins one entry per vector whose
// result differs or fails; it is nil when every vector matches.
func ConformanceSelftest() (int, error) {
	var failures []error
	for _, vector := range conformanceVectors {
		got, err := vector.run()
		if err != nil {
			failures = append(failures, fmt.Errorf("iscc: selftest %s: %w", vector.name, err))
			continue
		}
		if got != vector.want {
			failures = append(failures, fmt.Errorf("iscc: selftest %s: got %s, want %s", vector.name, got, vector.want))
		}
	}
	return len(conformanceVectors), errors.Join(failures...)
}
