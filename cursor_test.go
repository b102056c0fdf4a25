package fixedwidth

import (
	"testing"

	"github.com/maxatome/go-testdeep/td"
)

func TestReadCursor(t *testing.T) {
	fields := Fields(
		NewField(0, 3),
		Fields(NewField(3, 5), NewField(5, 6)),
		NewField(6, 9),
	)
	c := newReadCursor([]byte("foo12xé"), fields)

	s, err := c.nextText()
	td.CmpNoError(t, err)
	td.Cmp(t, s, "foo")

	// a group is not a field
	_, err = c.nextBytes()
	td.CmpErrorIs(t, err, ErrUnexpectedEndOfRecord)

	n, ok := c.peek()
	td.CmpTrue(t, ok)
	sub := c.sub(n.(Group))
	c.skip()
	b, err := sub.nextBytes()
	td.CmpNoError(t, err)
	td.Cmp(t, string(b), "12")
	s, err = sub.peekText()
	td.CmpNoError(t, err)
	td.Cmp(t, s, "x")
	sub.skip()
	td.CmpTrue(t, sub.done())
	_, err = sub.nextLeaf()
	td.CmpErrorIs(t, err, ErrUnexpectedEndOfRecord)

	// "é" is two bytes, so the last field runs off the end
	_, err = c.peekBytes()
	td.CmpErrorIs(t, err, ErrUnexpectedEndOfRecord)
	td.CmpFalse(t, c.done())
}

func TestReadCursor_InvalidText(t *testing.T) {
	c := newReadCursor([]byte{'a', 0xff}, Fields(NewField(0, 2)))
	_, err := c.nextText()
	td.CmpErrorIs(t, err, ErrInvalidUTF8)

	c = newReadCursor([]byte("ab"), Fields(NewField(1, 1)))
	_, err = c.nextBytes()
	td.CmpErrorIs(t, err, ErrInvalidRange)
}

func TestWriteCursor(t *testing.T) {
	fields := Fields(
		NewField(0, 3).PadWith('_'),
		Fields(NewField(3, 5).PadWith('0').WithJustify(Right), NewField(6, 8).PadWith('*')),
	)
	line := newLineBuilder(fields.Width(), DefaultFill)
	c := newWriteCursor(line, fields)

	td.CmpNoError(t, c.write([]byte("a")))
	td.CmpNoError(t, c.blank())
	td.Cmp(t, line.String(), "a__00 **")
	td.CmpTrue(t, c.done())
	td.CmpErrorIs(t, c.write([]byte("x")), ErrUnexpectedEndOfRecord)
	td.CmpErrorIs(t, c.blank(), ErrUnexpectedEndOfRecord)

	c = newWriteCursor(line, fields)
	c.skip()
	n, _ := c.peek()
	sub := c.sub(n.(Group))
	td.CmpNoError(t, sub.write([]byte("7")))
	td.CmpNoError(t, sub.write([]byte("abc")))
	td.Cmp(t, line.String(), "a__07 ab")
}
