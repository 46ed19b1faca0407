// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package component

import (
	"fmt"
	"strings"
)

// MainType identifies the kind of unit a component carries.
type MainType uint8

const (
	Meta     MainType = 0
	Semantic MainType = 1
	Content  MainType = 2
	Data     MainType = 3
	Instance MainType = 4
	// Iscc marks a composite ISCC-CODE assembled from several units.
	Iscc  MainType = 5
	ID    MainType = 6
	Flake MainType = 7
)

var mainTypeNames = [...]string{
	Meta:     "META",
	Semantic: "SEMANTIC",
	Content:  "CONTENT",
	Data:     "DATA",
	Instance: "INSTANCE",
	Iscc:     "ISCC",
	ID:       "ID",
	Flake:    "FLAKE",
}

// String returns the upper-case name of the main type ("META",
// "CONTENT", ...) or "MainType(n)" for undefined values.
func (m MainType) String() string {
	if int(m) < len(mainTypeNames) {
		return mainTypeNames[m]
	}
	return fmt.Sprintf("MainType(%d)", uint8(m))
}

// ParseMainType parses a main type name case-insensitively.
func ParseMainType(name string) (MainType, error) {
	upper := strings.ToUpper(name)
	for value, candidate := range mainTypeNames {
		if candidate == upper {
			return MainType(value), nil
		}
	}
	return 0, fmt.Errorf("component: unknown main type %q", name)
}

// SubType refines a main type. Its meaning depends on the main type:
// for Content units it names the media kind, for composite codes it
// names the content kind of the bundled units.
type SubType uint8

const (
	None SubType = 0
	// Text is the Content sub type for text; it shares the value of None.
	Text  SubType = 0
	Image SubType = 1
	Audio SubType = 2
	Video SubType = 3
	Mixed SubType = 4
	// Sum marks a composite of only a Data-Code and an Instance-Code.
	Sum SubType = 5
	// IsccNone marks a composite with optional units but no content kind.
	IsccNone SubType = 6
	// Wide marks a composite of 128-bit Data and Instance digests.
	Wide SubType = 7
)

var subTypeNames = [...]string{
	None:     "NONE",
	Image:    "IMAGE",
	Audio:    "AUDIO",
	Video:    "VIDEO",
	Mixed:    "MIXED",
	Sum:      "SUM",
	IsccNone: "ISCC_NONE",
	Wide:     "WIDE",
}

// String returns the upper-case name of the sub type. Value 0 renders
// as "NONE"; use [SubType.Describe] for the Content-specific "TEXT".
func (s SubType) String() string {
	if int(s) < len(subTypeNames) {
		return subTypeNames[s]
	}
	return fmt.Sprintf("SubType(%d)", uint8(s))
}

// Describe returns the sub type name as interpreted under the given
// main type: value 0 is "TEXT" for Content and Semantic units and
// "NONE" elsewhere.
func (s SubType) Describe(mainType MainType) string {
	if s == Text && (mainType == Content || mainType == Semantic) {
		return "TEXT"
	}
	return s.String()
}

// Version is the algorithm version of a component.
type Version uint8

// V0 is the only defined version.
const V0 Version = 0

// String returns "V0" style names.
func (v Version) String() string {
	return fmt.Sprintf("V%d", uint8(v))
}
