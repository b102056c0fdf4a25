package fixedwidth

import "unicode/utf8"

// DefaultFill is the byte written to the parts of a record that no field
// covers.
const DefaultFill = ' '

// lineBuilder is a buffer holding a single record while its fields are
// written at their absolute ranges.
type lineBuilder struct {
	data []byte
}

// newLineBuilder makes a new lineBuilder. The line is filled with the provided fillChar.
func newLineBuilder(len int, fillChar byte) *lineBuilder {
	data := make([]byte, len)
	fill(data, fillChar)
	return &lineBuilder{data: data}
}

// fill sets every byte of data to c.
func fill(data []byte, c byte) {
	if len(data) == 0 {
		return
	}
	data[0] = c
	filled := 1
	for filled < len(data) {
		copy(data[filled:], data[:filled])
		filled *= 2
	}
}

// span returns the part of the line covered by r. The line is always
// as long as the widest range of the tree being written.
func (b *lineBuilder) span(r Range) []byte {
	return b.data[r.Start:r.End:r.End]
}

func (b *lineBuilder) Bytes() []byte {
	return b.data
}

func (b *lineBuilder) String() string {
	return string(b.data)
}

// ValueWriter is responsible for writing an encoded value
// the destination. ValueWriter should handle padding and
// truncation.
//
// The destination param will always have the length and capacity
// of the interval being written and is filled with the field's
// pad character.
type ValueWriter func(value, destination []byte) error

// PadRight is a ValueWriter that pads values on the right. It is used
// for left justified fields. If the value is longer than the destination,
// the value will be truncated on the right.
func PadRight(value, destination []byte) error {
	n := len(value)
	if n > len(destination) {
		n = len(destination)
		// never leave half a character at the cut
		for n > 0 && !utf8.RuneStart(value[n]) {
			n--
		}
	}
	copy(destination, value[:n])
	return nil
}

// PadLeft is a ValueWriter that pads values on the left. It is used
// for right justified fields. If the value is longer than the destination,
// the value will be truncated on the left.
func PadLeft(value, destination []byte) error {
	start := 0
	if len(value) > len(destination) {
		start = len(value) - len(destination)
		for start < len(value) && !utf8.RuneStart(value[start]) {
			start++
		}
	}
	v := value[start:]
	copy(destination[len(destination)-len(v):], v)
	return nil
}

// RawPadRight is PadRight for binary values. Truncation keeps exactly the
// first len(destination) bytes.
func RawPadRight(value, destination []byte) error {
	copy(destination, value)
	return nil
}

// RawPadLeft is PadLeft for binary values. Truncation keeps exactly the
// last len(destination) bytes.
func RawPadLeft(value, destination []byte) error {
	if len(value) > len(destination) {
		value = value[len(value)-len(destination):]
	}
	copy(destination[len(destination)-len(value):], value)
	return nil
}

func writerFor(j Justify, raw bool) ValueWriter {
	switch {
	case j == Right && raw:
		return RawPadLeft
	case j == Right:
		return PadLeft
	case raw:
		return RawPadRight
	}
	return PadRight
}
