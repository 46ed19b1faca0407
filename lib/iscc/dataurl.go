// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package iscc

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/bureau-foundation/iscc/lib/failure"
)

const dataURLScheme = "data:"

// JSONToDataURL canonicalizes a JSON document (sorted keys, compact)
// and returns it as a base64 data URL. The media type is
// application/ld+json when the top-level object has an "@context" key
// and application/json otherwise.
func JSONToDataURL(document string) (string, error) {
	canonical, linkedData, err := canonicalJSON([]byte(document))
	if err != nil {
		return "", err
	}
	return buildDataURL(canonical, linkedData), nil
}

// canonicalJSON parses document and re-serializes it with sorted object
// keys, no insignificant whitespace, and no HTML escaping. It also
// reports whether the top-level value is an object with "@context".
func canonicalJSON(document []byte) ([]byte, bool, error) {
	decoder := json.NewDecoder(bytes.NewReader(document))
	decoder.UseNumber()
	var parsed any
	if err := decoder.Decode(&parsed); err != nil {
		return nil, false, failure.Validation("iscc: metadata is not valid JSON: %v", err)
	}
	if decoder.More() {
		return nil, false, failure.Validation("iscc: metadata holds more than one JSON value")
	}
	parsed = canonicalNumbers(parsed)

	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(parsed); err != nil {
		return nil, false, failure.Validation("iscc: re-encoding metadata JSON: %v", err)
	}

	linkedData := false
	if object, ok := parsed.(map[string]any); ok {
		_, linkedData = object["@context"]
	}
	return bytes.TrimSuffix(buffer.Bytes(), []byte("\n")), linkedData, nil
}

// canonicalNumbers rewrites every number in a decoded document to its
// canonical text: integers that fit 64 bits keep their digits, all other
// numbers are written as the shortest round-tripping float64.
func canonicalNumbers(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		for key, element := range typed {
			typed[key] = canonicalNumbers(element)
		}
	case []any:
		for index, element := range typed {
			typed[index] = canonicalNumbers(element)
		}
	case json.Number:
		return canonicalNumber(typed)
	}
	return value
}

func canonicalNumber(number json.Number) json.Number {
	text := string(number)
	if !strings.ContainsAny(text, ".eE") {
		if value, err := strconv.ParseInt(text, 10, 64); err == nil {
			return json.Number(strconv.FormatInt(value, 10))
		}
		if value, err := strconv.ParseUint(text, 10, 64); err == nil {
			return json.Number(strconv.FormatUint(value, 10))
		}
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return number
	}
	return json.Number(formatFloat(value))
}

// formatFloat writes value with its shortest digits, in plain notation
// when the decimal point falls within 16 digits and in exponent
// notation otherwise. Integral values keep a ".0" suffix.
func formatFloat(value float64) string {
	if value == 0 {
		if math.Signbit(value) {
			return "-0.0"
		}
		return "0.0"
	}
	text := strconv.FormatFloat(value, 'e', -1, 64)
	sign := ""
	if text[0] == '-' {
		sign, text = "-", text[1:]
	}
	mantissa, exponentText, _ := strings.Cut(text, "e")
	digits := strings.Replace(mantissa, ".", "", 1)
	exponent, _ := strconv.Atoi(exponentText)
	point := exponent + 1
	length := len(digits)

	switch {
	case point >= length && point <= 16:
		return sign + digits + strings.Repeat("0", point-length) + ".0"
	case point > 0 && point <= 16:
		return sign + digits[:point] + "." + digits[point:]
	case point > -5 && point <= 0:
		return sign + "0." + strings.Repeat("0", -point) + digits
	case length == 1:
		return sign + digits + "e" + strconv.Itoa(point-1)
	default:
		return sign + digits[:1] + "." + digits[1:] + "e" + strconv.Itoa(point-1)
	}
}

func buildDataURL(payload []byte, linkedData bool) string {
	mediaType := "application/json"
	if linkedData {
		mediaType = "application/ld+json"
	}
	return dataURLScheme + mediaType + ";base64," + base64.StdEncoding.EncodeToString(payload)
}

// decodeDataURL returns the payload of a base64 data URL: everything
// after the first comma, base64-decoded.
func decodeDataURL(url string) ([]byte, error) {
	_, encoded, found := strings.Cut(url, ",")
	if !found {
		return nil, failure.Validation("iscc: data URL has no comma separator")
	}
	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, failure.Validation("iscc: data URL payload is not base64: %v", err)
	}
	return payload, nil
}
