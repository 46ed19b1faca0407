// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package component

import "github.com/bureau-foundation/iscc/lib/failure"

// Bit assignments of the optional units in a composite length field.
const (
	contentUnitBit  = 1
	semanticUnitBit = 2
	metaUnitBit     = 4
)

// UnitsToLength encodes the optional units of a composite code as the
// header length field: Content sets bit 0, Semantic bit 1, Meta bit 2.
func UnitsToLength(optional []MainType) (uint32, error) {
	var length uint32
	for _, mainType := range optional {
		switch mainType {
		case Content:
			length |= contentUnitBit
		case Semantic:
			length |= semanticUnitBit
		case Meta:
			length |= metaUnitBit
		default:
			return 0, failure.Encoding("component: %s is not an optional unit", mainType)
		}
	}
	return length, nil
}

// UnitsFromLength decodes a composite length field into its optional
// units, in main type order (Meta, Semantic, Content).
func UnitsFromLength(length uint32) ([]MainType, error) {
	if length > 7 {
		return nil, failure.Decode("component: composite unit field %d out of range", length)
	}
	var units []MainType
	if length&metaUnitBit != 0 {
		units = append(units, Meta)
	}
	if length&semanticUnitBit != 0 {
		units = append(units, Semantic)
	}
	if length&contentUnitBit != 0 {
		units = append(units, Content)
	}
	return units, nil
}
