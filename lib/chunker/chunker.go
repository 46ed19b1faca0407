// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package chunker

import (
	"math"
	"unicode/utf8"

	"github.com/bureau-foundation/iscc/lib/failure"
)

// DefaultAverageSize is the average chunk size used for Data-Codes.
const DefaultAverageSize = 1024

// minimumAverageSize keeps the derived masks and minimum size sane.
const minimumAverageSize = 64

// Mode selects where cuts may fall.
type Mode int

const (
	// Bytes allows a cut between any two bytes.
	Bytes Mode = iota
	// Text allows cuts only before a UTF-8 code point start.
	Text
)

// String returns "bytes" or "text".
func (m Mode) String() string {
	switch m {
	case Bytes:
		return "bytes"
	case Text:
		return "text"
	}
	return "unknown"
}

// Options configures chunk sizes and cut alignment. The zero value
// chunks bytes with the Data-Code parameters.
type Options struct {
	// AverageSize is the target average chunk size in bytes. Zero
	// selects DefaultAverageSize.
	AverageSize int

	// MaxSize caps the chunk length. Zero selects 8 x AverageSize.
	MaxSize int

	// Mode selects byte or code point aligned cuts.
	Mode Mode
}

// parameters are the scan limits and masks derived from Options.
type parameters struct {
	minimum     int
	maximum     int
	center      int
	maskStrict  uint32
	maskRelaxed uint32
	text        bool
}

func (o Options) parameters() (parameters, error) {
	average := o.AverageSize
	if average == 0 {
		average = DefaultAverageSize
	}
	if average < minimumAverageSize {
		return parameters{}, failure.Validation("chunker: average size %d below %d", average, minimumAverageSize)
	}
	if o.Mode != Bytes && o.Mode != Text {
		return parameters{}, failure.Validation("chunker: unknown mode %d", int(o.Mode))
	}

	minimum := average / 4
	maximum := o.MaxSize
	if maximum == 0 {
		maximum = average * 8
	}
	if maximum <= minimum {
		return parameters{}, failure.Validation("chunker: max size %d not above minimum size %d", maximum, minimum)
	}

	bits := uint(math.Round(math.Log2(float64(average))))
	return parameters{
		minimum:     minimum,
		maximum:     maximum,
		center:      min(average-(minimum+(minimum+1)/2), maximum),
		maskStrict:  1<<(bits+1) - 1,
		maskRelaxed: 1<<(bits-1) - 1,
		text:        o.Mode == Text,
	}, nil
}

// cut returns the length of the chunk starting at buffer[0]. A length
// below len(buffer) depends only on bytes the buffer already holds, so
// appending data cannot move it; streaming relies on this to treat any
// chunk shorter than the remaining buffer as final.
func (p parameters) cut(buffer []byte) int {
	size := len(buffer)
	position := min(p.minimum, size)
	var pattern uint32

	end := p.scan(buffer, &pattern, &position, min(p.center, size), p.maskStrict)
	if end == 0 {
		end = p.scan(buffer, &pattern, &position, min(p.maximum, size), p.maskRelaxed)
	}
	if end == 0 {
		end = position
	}
	if p.text && end < size {
		end = alignToCodePoint(buffer, end)
	}
	return end
}

// scan advances the gear hash from *position up to barrier and returns
// the chunk length at the first byte whose hash clears mask, or 0 when
// none does.
func (p parameters) scan(buffer []byte, pattern *uint32, position *int, barrier int, mask uint32) int {
	for ; *position < barrier; *position++ {
		*pattern = (*pattern >> 1) + gearTable[buffer[*position]]
		if *pattern&mask == 0 {
			return *position + 1
		}
	}
	return 0
}

// alignToCodePoint moves a cut back to the start of the code point it
// splits. Invalid sequences that offer no code point start within
// utf8.UTFMax-1 bytes keep the byte cut.
func alignToCodePoint(buffer []byte, end int) int {
	for back := 0; back < utf8.UTFMax && end-back > 0; back++ {
		if utf8.RuneStart(buffer[end-back]) {
			return end - back
		}
	}
	return end
}

// Split returns the chunks of data in order. The chunks alias data and
// their concatenation equals data. Empty input yields a single empty
// chunk.
func Split(data []byte, options Options) ([][]byte, error) {
	p, err := options.parameters()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return [][]byte{data[:0:0]}, nil
	}
	var chunks [][]byte
	for position := 0; position < len(data); {
		length := p.cut(data[position:])
		chunks = append(chunks, data[position:position+length])
		position += length
	}
	return chunks, nil
}

// Chunker chunks a stream supplied in arbitrary pieces. Boundaries do
// not depend on how the stream is partitioned across [Chunker.Feed]
// calls. A Chunker is owned by one goroutine.
type Chunker struct {
	parameters parameters

	// tail holds the bytes after the last emitted boundary. Its own
	// boundary is not final until more data arrives or Flush is called.
	tail []byte

	emitted bool
}

// New returns a Chunker for options.
func New(options Options) (*Chunker, error) {
	p, err := options.parameters()
	if err != nil {
		return nil, err
	}
	return &Chunker{parameters: p}, nil
}

// Feed appends data to the stream and calls emit for every chunk whose
// boundary is now final, in order. The slice passed to emit is only
// valid for the duration of the call. Feed does not retain data.
func (c *Chunker) Feed(data []byte, emit func(chunk []byte)) {
	if len(data) == 0 {
		return
	}
	buffer := make([]byte, 0, len(c.tail)+len(data))
	buffer = append(buffer, c.tail...)
	buffer = append(buffer, data...)

	position := 0
	for {
		length := c.parameters.cut(buffer[position:])
		if position+length == len(buffer) {
			break
		}
		emit(buffer[position : position+length])
		c.emitted = true
		position += length
	}
	c.tail = buffer[position:]
}

// Flush emits the final chunk and resets the Chunker for a new stream.
// If the stream was empty a single empty chunk is emitted, matching
// [Split].
func (c *Chunker) Flush(emit func(chunk []byte)) {
	if len(c.tail) > 0 || !c.emitted {
		emit(c.tail)
	}
	c.tail = nil
	c.emitted = false
}
