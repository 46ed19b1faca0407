// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package iscc

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bureau-foundation/iscc/lib/component"
	"github.com/bureau-foundation/iscc/lib/failure"
)

// minUnitText is the shortest unit body (64-bit digest) accepted by
// [GenIsccCode], in base32 characters.
const minUnitText = 16

// IsccCode is the result of [GenIsccCode].
type IsccCode struct {
	Code string `json:"iscc"`

	// Units are the input codes in main type order, "ISCC:"-prefixed.
	Units []string `json:"units"`
}

type decodedUnit struct {
	header component.Header
	digest []byte
	text   string
}

// GenIsccCode bundles unit codes into a composite ISCC-CODE. A Data-Code
// and an Instance-Code are mandatory; at most one Meta-, Semantic- and
// Content-Code may join them. Units may be given in any order.
//
// With wide set and exactly a Data-Code and an Instance-Code of at least
// 128 bits each, the composite carries 128 bits of each (subtype Wide).
// Otherwise it carries the leading 64 bits of every unit, and its
// subtype is that of the Semantic/Content units, Sum for a bare
// Data+Instance pair, or None.
func GenIsccCode(codes []string, wide bool) (*IsccCode, error) {
	if len(codes) < 2 {
		return nil, failure.Validation("iscc: composite needs at least 2 unit codes, got %d", len(codes))
	}

	units := make([]decodedUnit, len(codes))
	for index, code := range codes {
		body := strings.TrimSpace(code)
		if len(body) >= len(component.Prefix) && strings.EqualFold(body[:len(component.Prefix)], component.Prefix) {
			body = body[len(component.Prefix):]
		}
		if len(body) < minUnitText {
			return nil, failure.Validation("iscc: unit code %q shorter than %d characters", code, minUnitText)
		}
		header, digest, err := component.DecodeComponent(body)
		if err != nil {
			return nil, fmt.Errorf("iscc: composite input %d: %w", index, err)
		}
		units[index] = decodedUnit{header: header, digest: digest, text: component.Prefix + body}
	}

	slices.SortStableFunc(units, func(a, b decodedUnit) int {
		return int(a.header.MainType) - int(b.header.MainType)
	})
	for index := 1; index < len(units); index++ {
		if units[index].header.MainType == units[index-1].header.MainType {
			return nil, failure.Validation("iscc: duplicate %s unit", units[index].header.MainType)
		}
	}
	count := len(units)
	if units[count-2].header.MainType != component.Data || units[count-1].header.MainType != component.Instance {
		return nil, failure.Validation("iscc: Data-Code and Instance-Code are mandatory")
	}

	optional := make([]component.MainType, 0, count-2)
	for _, unit := range units[:count-2] {
		switch unit.header.MainType {
		case component.Meta, component.Semantic, component.Content:
			optional = append(optional, unit.header.MainType)
		default:
			return nil, failure.Validation("iscc: %s cannot be part of a composite", unit.header.MainType)
		}
	}

	isWide := wide && count == 2 && units[0].header.Bits() >= 128 && units[1].header.Bits() >= 128
	subType, err := compositeSubType(units, isWide)
	if err != nil {
		return nil, err
	}
	header, err := component.CompositeHeader(subType, component.V0, optional)
	if err != nil {
		return nil, err
	}

	unitSize := 8
	if isWide {
		unitSize = 16
	}
	digest := make([]byte, 0, count*unitSize)
	result := &IsccCode{Units: make([]string, count)}
	for index, unit := range units {
		digest = append(digest, unit.digest[:unitSize]...)
		result.Units[index] = unit.text
	}
	body, err := component.Pack(header, digest)
	if err != nil {
		return nil, err
	}
	result.Code = component.Prefix + body
	return result, nil
}

func compositeSubType(units []decodedUnit, wide bool) (component.SubType, error) {
	if wide {
		return component.Wide, nil
	}
	var found []component.SubType
	for _, unit := range units {
		if unit.header.MainType == component.Semantic || unit.header.MainType == component.Content {
			found = append(found, unit.header.SubType)
		}
	}
	switch {
	case len(found) > 0:
		for _, subType := range found[1:] {
			if subType != found[0] {
				return 0, failure.Validation("iscc: Semantic and Content units disagree on subtype (%s, %s)",
					found[0].Describe(component.Content), subType.Describe(component.Content))
			}
		}
		return found[0], nil
	case len(units) == 2:
		return component.Sum, nil
	default:
		return component.IsccNone, nil
	}
}

// Decompose splits a composite ISCC-CODE, or a concatenation of unit
// codes, into "ISCC:"-prefixed unit codes. A composite expands to its
// optional units followed by its Data-Code and Instance-Code: 128 bits
// each for a Wide composite, 64 bits each otherwise.
func Decompose(code string) ([]string, error) {
	raw, err := component.DecodeText(code)
	if err != nil {
		return nil, err
	}
	var units []string
	for len(raw) > 0 {
		header, tail, err := component.DecodeHeader(raw)
		if err != nil {
			return nil, err
		}
		if header.MainType != component.Iscc {
			size := header.Bits() / 8
			if len(tail) < size {
				return nil, failure.Decode("iscc: %s unit needs %d bytes, %d remain", header.MainType, size, len(tail))
			}
			body, err := component.Pack(header, tail[:size])
			if err != nil {
				return nil, err
			}
			units = append(units, component.Prefix+body)
			raw = tail[size:]
			continue
		}

		expanded, err := expandComposite(header, tail)
		if err != nil {
			return nil, err
		}
		units = append(units, expanded...)
		if size := header.Bits() / 8; len(tail) > size {
			return nil, failure.Decode("iscc: %d bytes follow the composite", len(tail)-size)
		}
		raw = nil
	}
	return units, nil
}

func expandComposite(header component.Header, body []byte) ([]string, error) {
	if size := header.Bits() / 8; len(body) < size {
		return nil, failure.Decode("iscc: composite needs %d body bytes, has %d", size, len(body))
	}
	type part struct {
		mainType component.MainType
		subType  component.SubType
		bits     int
	}
	var parts []part
	if header.SubType == component.Wide {
		parts = []part{{component.Data, component.None, 128}, {component.Instance, component.None, 128}}
	} else {
		optional, err := component.UnitsFromLength(header.Length)
		if err != nil {
			return nil, err
		}
		for _, mainType := range optional {
			subType := header.SubType
			if mainType == component.Meta {
				subType = component.None
			}
			parts = append(parts, part{mainType, subType, 64})
		}
		parts = append(parts, part{component.Data, component.None, 64}, part{component.Instance, component.None, 64})
	}

	units := make([]string, 0, len(parts))
	offset := 0
	for _, p := range parts {
		size := p.bits / 8
		unitHeader, err := component.UnitHeader(p.mainType, p.subType, component.V0, p.bits)
		if err != nil {
			return nil, fmt.Errorf("iscc: composite unit %s: %w", p.mainType, err)
		}
		text, err := component.Pack(unitHeader, body[offset:offset+size])
		if err != nil {
			return nil, err
		}
		units = append(units, component.Prefix+text)
		offset += size
	}
	return units, nil
}
