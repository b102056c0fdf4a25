package fixedwidth

import (
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// readCursor walks the children of a single Group over a record.
// Nested groups get their own cursor so an inner value can never
// consume the fields of its siblings.
type readCursor struct {
	nodes Group
	pos   int
	data  []byte
}

func newReadCursor(data []byte, nodes Group) *readCursor {
	return &readCursor{nodes: nodes, data: data}
}

// sub returns a cursor scoped to g over the same record.
func (c *readCursor) sub(g Group) *readCursor {
	return newReadCursor(c.data, g)
}

func (c *readCursor) done() bool {
	return c.pos >= len(c.nodes)
}

func (c *readCursor) peek() (FieldNode, bool) {
	if c.done() {
		return nil, false
	}
	return c.nodes[c.pos], true
}

func (c *readCursor) skip() {
	if !c.done() {
		c.pos++
	}
}

// peekLeaf returns the next node if it is a FieldSpec.
func (c *readCursor) peekLeaf() (FieldSpec, error) {
	n, ok := c.peek()
	if !ok {
		return FieldSpec{}, ErrUnexpectedEndOfRecord
	}
	f, ok := n.(FieldSpec)
	if !ok {
		return FieldSpec{}, errors.Wrap(ErrUnexpectedEndOfRecord, "expected a field, found a group")
	}
	return f, nil
}

func (c *readCursor) nextLeaf() (FieldSpec, error) {
	f, err := c.peekLeaf()
	if err != nil {
		return f, err
	}
	c.pos++
	return f, nil
}

// slice returns the bytes of f. Ranges are checked for every field so a
// truncated record fails on the first field it cannot satisfy.
func (c *readCursor) slice(f FieldSpec) ([]byte, error) {
	if !f.Range.valid() {
		return nil, errors.Wrapf(ErrInvalidRange, "field %s", f.Key())
	}
	if f.Range.End > len(c.data) {
		return nil, errors.Wrapf(ErrUnexpectedEndOfRecord, "field %s needs %d bytes, record has %d", f.Key(), f.Range.End, len(c.data))
	}
	return c.data[f.Range.Start:f.Range.End], nil
}

func (c *readCursor) peekBytes() ([]byte, error) {
	f, err := c.peekLeaf()
	if err != nil {
		return nil, err
	}
	return c.slice(f)
}

func (c *readCursor) nextBytes() ([]byte, error) {
	f, err := c.nextLeaf()
	if err != nil {
		return nil, err
	}
	return c.slice(f)
}

func (c *readCursor) peekText() (string, error) {
	b, err := c.peekBytes()
	if err != nil {
		return "", err
	}
	return text(b)
}

func (c *readCursor) nextText() (string, error) {
	b, err := c.nextBytes()
	if err != nil {
		return "", err
	}
	return text(b)
}

func text(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return strings.TrimSpace(string(b)), nil
}

// writeCursor walks the children of a single Group while a value is
// written into a shared line. Nested groups write at their own absolute
// ranges into the same line.
type writeCursor struct {
	nodes Group
	pos   int
	line  *lineBuilder
}

func newWriteCursor(line *lineBuilder, nodes Group) *writeCursor {
	return &writeCursor{nodes: nodes, line: line}
}

func (c *writeCursor) sub(g Group) *writeCursor {
	return newWriteCursor(c.line, g)
}

func (c *writeCursor) done() bool {
	return c.pos >= len(c.nodes)
}

func (c *writeCursor) peek() (FieldNode, bool) {
	if c.done() {
		return nil, false
	}
	return c.nodes[c.pos], true
}

func (c *writeCursor) skip() {
	if !c.done() {
		c.pos++
	}
}

func (c *writeCursor) peekLeaf() (FieldSpec, error) {
	n, ok := c.peek()
	if !ok {
		return FieldSpec{}, ErrUnexpectedEndOfRecord
	}
	f, ok := n.(FieldSpec)
	if !ok {
		return FieldSpec{}, errors.Wrap(ErrUnexpectedEndOfRecord, "expected a field, found a group")
	}
	return f, nil
}

func (c *writeCursor) nextLeaf() (FieldSpec, error) {
	f, err := c.peekLeaf()
	if err != nil {
		return f, err
	}
	c.pos++
	return f, nil
}

// write consumes the next field and writes the text value into it, padded
// and justified as the field declares. A value that does not fit is cut at
// a character boundary.
func (c *writeCursor) write(value []byte) error {
	f, err := c.nextLeaf()
	if err != nil {
		return err
	}
	return c.writeField(f, value, false)
}

// writeRaw is write for binary values, which are cut at exactly the field
// width.
func (c *writeCursor) writeRaw(value []byte) error {
	f, err := c.nextLeaf()
	if err != nil {
		return err
	}
	return c.writeField(f, value, true)
}

func (c *writeCursor) writeField(f FieldSpec, value []byte, raw bool) error {
	if !f.Range.valid() {
		return errors.Wrapf(ErrInvalidRange, "field %s", f.Key())
	}
	dst := c.line.span(f.Range)
	fill(dst, f.pad())
	return writerFor(f.Justify, raw)(value, dst)
}

// blank consumes the next node and fills it with its pad character. A group
// is filled leaf by leaf.
func (c *writeCursor) blank() error {
	n, ok := c.peek()
	if !ok {
		return ErrUnexpectedEndOfRecord
	}
	c.pos++
	for _, f := range asGroup(n).Leaves() {
		if err := c.writeField(f, nil, false); err != nil {
			return err
		}
	}
	return nil
}
