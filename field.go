package fixedwidth

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Range is a half-open byte interval [Start, End) within a record.
type Range struct {
	Start, End int
}

// Width returns the number of bytes covered by r.
func (r Range) Width() int {
	return r.End - r.Start
}

// String returns r in its "start..end" form. The same form is used as the
// map key of an unnamed field.
func (r Range) String() string {
	return strconv.Itoa(r.Start) + ".." + strconv.Itoa(r.End)
}

func (r Range) valid() bool {
	return r.Start >= 0 && r.Start < r.End
}

// ParseRange parses a range in its "start..end" form.
func ParseRange(s string) (Range, error) {
	parts := strings.Split(s, "..")
	if len(parts) != 2 {
		return Range{}, errors.Errorf("fixedwidth: invalid range %q", s)
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return Range{}, errors.Wrapf(err, "fixedwidth: invalid range start %q", s)
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil {
		return Range{}, errors.Wrapf(err, "fixedwidth: invalid range end %q", s)
	}
	r := Range{Start: start, End: end}
	if !r.valid() {
		return Range{}, errors.Errorf("fixedwidth: invalid range %q", s)
	}
	return r, nil
}

// Justify controls which side of a field receives the padding on write.
type Justify int

const (
	// Left places the value at the start of the field and pads on the right.
	Left Justify = iota
	// Right places the value at the end of the field and pads on the left.
	Right
)

func (j Justify) String() string {
	if j == Right {
		return "right"
	}
	return "left"
}

// ParseJustify parses "left" or "right", ignoring case and surrounding space.
func ParseJustify(s string) (Justify, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "":
		return Left, nil
	case "right":
		return Right, nil
	}
	return Left, errors.Errorf("fixedwidth: justify must be 'left' or 'right', got %q", s)
}

// DefaultPad is the pad character used when none is set.
const DefaultPad = ' '

// FieldNode is a node of a field tree: either a FieldSpec leaf or a Group.
type FieldNode interface {
	isFieldNode()
}

// FieldSpec describes a single field of a record.
type FieldSpec struct {
	Range Range
	// Name is an optional label. Unnamed fields are keyed by their range.
	Name    string
	Pad     byte
	Justify Justify
}

// NewField returns a left justified, space padded field covering
// the bytes [start, end).
func NewField(start, end int) FieldSpec {
	return Field(Range{Start: start, End: end})
}

// Field returns a left justified, space padded field covering r.
func Field(r Range) FieldSpec {
	return FieldSpec{Range: r, Pad: DefaultPad, Justify: Left}
}

// WithName returns a copy of f with the given name.
func (f FieldSpec) WithName(name string) FieldSpec {
	f.Name = name
	return f
}

// PadWith returns a copy of f padded with c.
func (f FieldSpec) PadWith(c byte) FieldSpec {
	f.Pad = c
	return f
}

// WithJustify returns a copy of f with the given justification.
func (f FieldSpec) WithJustify(j Justify) FieldSpec {
	f.Justify = j
	return f
}

// Key returns the name of the field, or the string form of its range when
// the field is unnamed.
func (f FieldSpec) Key() string {
	if f.Name != "" {
		return f.Name
	}
	return f.Range.String()
}

func (f FieldSpec) pad() byte {
	if f.Pad == 0 {
		return DefaultPad
	}
	return f.Pad
}

func (FieldSpec) isFieldNode() {}

// Group is an ordered collection of field nodes. Groups model nested
// records, tuples and fixed size sequences of sub-records.
type Group []FieldNode

// Fields builds a Group from the given nodes.
//
//	fields := fixedwidth.Fields(
//		fixedwidth.NewField(0, 4).WithName("foo"),
//		fixedwidth.Fields(
//			fixedwidth.NewField(4, 6),
//			fixedwidth.NewField(6, 8),
//		),
//	)
func Fields(nodes ...FieldNode) Group {
	return Group(nodes)
}

func (Group) isFieldNode() {}

// Width returns the largest range end found anywhere in the tree.
func (g Group) Width() int {
	var w int
	for _, n := range g {
		switch n := n.(type) {
		case FieldSpec:
			if n.Range.End > w {
				w = n.Range.End
			}
		case Group:
			if nw := n.Width(); nw > w {
				w = nw
			}
		}
	}
	return w
}

// Leaves returns every FieldSpec of the tree in document order.
func (g Group) Leaves() []FieldSpec {
	var out []FieldSpec
	for _, n := range g {
		switch n := n.(type) {
		case FieldSpec:
			out = append(out, n)
		case Group:
			out = append(out, n.Leaves()...)
		}
	}
	return out
}

// asGroup wraps a single leaf so every traversal starts from a Group.
func asGroup(n FieldNode) Group {
	switch n := n.(type) {
	case Group:
		return n
	case FieldSpec:
		return Group{n}
	}
	return nil
}
