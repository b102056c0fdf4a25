package fixedwidth

import (
	"testing"

	"github.com/maxatome/go-testdeep/td"
)

func TestParseRange(t *testing.T) {
	for _, tt := range []struct {
		s  string
		r  Range
		ok bool
	}{
		{"0..6", Range{0, 6}, true},
		{"9..11", Range{9, 11}, true},
		{"6..6", Range{}, false},
		{"6..2", Range{}, false},
		{"-1..2", Range{}, false},
		{"1...2", Range{}, false},
		{"1-2", Range{}, false},
		{"", Range{}, false},
	} {
		t.Run(tt.s, func(t *testing.T) {
			r, err := ParseRange(tt.s)
			if tt.ok != (err == nil) {
				t.Fatalf("ParseRange() ok want %v, have %v (%v)", tt.ok, err == nil, err)
			}
			if r != tt.r {
				t.Errorf("ParseRange() want %v, have %v", tt.r, r)
			}
			if tt.ok && r.String() != tt.s {
				t.Errorf("String() want %q, have %q", tt.s, r.String())
			}
		})
	}
}

func TestParseJustify(t *testing.T) {
	for _, tt := range []struct {
		s  string
		j  Justify
		ok bool
	}{
		{"left", Left, true},
		{"", Left, true},
		{" Right ", Right, true},
		{"RIGHT", Right, true},
		{"center", Left, false},
	} {
		j, err := ParseJustify(tt.s)
		if tt.ok != (err == nil) {
			t.Errorf("ParseJustify(%q) ok want %v, have %v", tt.s, tt.ok, err == nil)
		}
		if j != tt.j {
			t.Errorf("ParseJustify(%q) want %v, have %v", tt.s, tt.j, j)
		}
	}
}

func TestFieldSpec(t *testing.T) {
	f := NewField(2, 5)
	td.Cmp(t, f, FieldSpec{Range: Range{2, 5}, Pad: ' ', Justify: Left})
	td.Cmp(t, f.Range.Width(), 3)
	td.Cmp(t, f.Key(), "2..5")

	g := f.WithName("x").PadWith('0').WithJustify(Right)
	td.Cmp(t, g.Key(), "x")
	td.Cmp(t, g.Pad, byte('0'))
	td.Cmp(t, g.Justify, Right)
	// builders return copies
	td.Cmp(t, f.Name, "")

	td.Cmp(t, FieldSpec{}.pad(), byte(DefaultPad))
}

func TestGroup(t *testing.T) {
	g := Fields(
		NewField(0, 4).WithName("a"),
		Fields(
			NewField(10, 12).WithName("b"),
			Fields(NewField(4, 6).WithName("c")),
		),
	)
	td.Cmp(t, g.Width(), 12)
	td.Cmp(t, g.Leaves(), []FieldSpec{
		NewField(0, 4).WithName("a"),
		NewField(10, 12).WithName("b"),
		NewField(4, 6).WithName("c"),
	})
	td.Cmp(t, Fields().Width(), 0)
	td.Cmp(t, asGroup(NewField(0, 1)), Group{NewField(0, 1)})
	td.Cmp(t, asGroup(g), g)
}
