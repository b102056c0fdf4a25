package fixedwidth

import (
	"bytes"
	"testing"
)

func TestMakeLineBuffer(t *testing.T) {
	for _, tt := range []struct {
		name     string
		len      int
		fillChar byte

		expectData []byte
	}{
		{"base case", 5, ' ', []byte(`     `)},
		{"zero fill", 7, '0', []byte(`0000000`)},
		{"empty", 0, ' ', []byte{}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			buff := newLineBuilder(tt.len, tt.fillChar)

			if len(buff.data) != tt.len {
				t.Errorf("newLineBuilder() expected len %v, have %v", tt.len, len(buff.data))
			}
			if !bytes.Equal(buff.data, tt.expectData) {
				t.Errorf("newLineBuilder() expected data %q, have %q", string(tt.expectData), string(buff.data))
			}
		})
	}
}

func TestLineBuffer_span(t *testing.T) {
	buff := newLineBuilder(5, ' ')
	dst := buff.span(Range{1, 4})
	if len(dst) != 3 || cap(dst) != 3 {
		t.Fatalf("span() expected len and cap 3, have %v and %v", len(dst), cap(dst))
	}
	copy(dst, "foo")
	if buff.String() != " foo " {
		t.Errorf("span() expected line %q, have %q", " foo ", buff.String())
	}
}

func TestValueWriter(t *testing.T) {
	for _, tt := range []struct {
		name  string
		w     ValueWriter
		width int
		value string

		expectData string
	}{
		{"PadRight (fill)", PadRight, 3, "foo", "foo"},
		{"PadRight (short)", PadRight, 5, "foo", "foo__"},
		{"PadRight (truncate)", PadRight, 2, "foo", "fo"},
		{"PadRight (empty)", PadRight, 3, "", "___"},
		{"PadRight multibyte (fill)", PadRight, 5, "føø", "føø"},
		{"PadRight multibyte (truncate on boundary)", PadRight, 3, "føø", "fø"},
		{"PadRight multibyte (truncate mid rune)", PadRight, 4, "føø", "fø_"},

		{"PadLeft (fill)", PadLeft, 3, "foo", "foo"},
		{"PadLeft (short)", PadLeft, 5, "foo", "__foo"},
		{"PadLeft (truncate)", PadLeft, 2, "foo", "oo"},
		{"PadLeft (empty)", PadLeft, 3, "", "___"},
		{"PadLeft multibyte (truncate on boundary)", PadLeft, 4, "føø", "øø"},
		{"PadLeft multibyte (truncate mid rune)", PadLeft, 3, "føø", "_ø"},
		{"RawPadRight (short)", RawPadRight, 5, "foo", "foo__"},
		{"RawPadRight (truncate mid rune)", RawPadRight, 2, "føø", "f\xc3"},
		{"RawPadRight (continuation bytes)", RawPadRight, 3, "A\x80\x80\x80B", "A\x80\x80"},
		{"RawPadLeft (short)", RawPadLeft, 5, "foo", "__foo"},
		{"RawPadLeft (truncate mid rune)", RawPadLeft, 3, "føø", "\xb8ø"},
		{"RawPadLeft (continuation bytes)", RawPadLeft, 2, "A\x80\x80", "\x80\x80"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			dst := bytes.Repeat([]byte("_"), tt.width)
			if err := tt.w([]byte(tt.value), dst); err != nil {
				t.Fatalf("ValueWriter() unexpected err %v", err)
			}
			if string(dst) != tt.expectData {
				t.Errorf("ValueWriter() expected data %q, have %q", tt.expectData, string(dst))
			}
		})
	}
}

func TestWriterFor(t *testing.T) {
	for _, tt := range []struct {
		name  string
		j     Justify
		raw   bool
		value string

		expectData string
	}{
		{"right", Right, false, "1", "  1"},
		{"left", Left, false, "1", "1  "},
		{"right raw", Right, true, "\x80\x80\x80\x80", "\x80\x80\x80"},
		{"left raw", Left, true, "1\x80\x80\x80", "1\x80\x80"},
		{"left text", Left, false, "1\x80\x80\x80", "   "},
	} {
		t.Run(tt.name, func(t *testing.T) {
			dst := []byte("   ")
			writerFor(tt.j, tt.raw)([]byte(tt.value), dst)
			if string(dst) != tt.expectData {
				t.Errorf("writerFor() expected %q, have %q", tt.expectData, dst)
			}
		})
	}
}
