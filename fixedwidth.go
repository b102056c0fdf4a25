// Package fixedwidth provides encoding and decoding for fixed-width formatted data.
//
// A record is addressed by byte ranges. The layout of a record is described by
// a tree of field definitions: a FieldSpec describes a single field and a Group
// holds an ordered list of fields and nested groups. The decoder walks the tree
// and the destination value side by side, one field per scalar value and one
// group per nested value, so the same tree can populate structs, slices,
// arrays, maps and enums.
//
// Field trees are usually derived from struct tags:
//
//	type Person struct {
//		Name   string `fixed:"0..6"`
//		Age    int    `fixed:"6..9,pad=0"`
//		Height int    `fixed:"9..11,justify=right,name=height_cm"`
//		Notes  string `fixed:"-"`
//	}
//
// or built by hand and passed to UnmarshalFields and MarshalFields.
package fixedwidth

// Marshaler is the interface implemented by an object that can
// marshal itself into a fixed-width form.
//
// MarshalFixedWidth is provided a max width and should return
// the encoded value of the receiver. If the encoded value is
// longer than the max width, it will be truncated by the encoder.
// If the encoded value is shorter than the max width, it will be
// padded by the encoder.
type Marshaler interface {
	MarshalFixedWidth(width int) (data []byte, err error)
}

// Unmarshaler is the interface implemented by an object that can
// unmarshal a fixed-width representation of itself.
//
// The data passed to UnmarshalFixedWidth by the decoder will be
// the length of the field. No leading or trailing space will be
// removed.
//
// UnmarshalFixedWidth should be able to decode the form generated
// by MarshalFixedWidth.
type Unmarshaler interface {
	UnmarshalFixedWidth(data []byte) error
}

// Fielder is implemented by types that provide their own field tree.
// It takes precedence over struct tags and is what fixedwidth-gen generates.
type Fielder interface {
	FixedWidthFields() Group
}

// Enum is implemented by types whose values are chosen from a fixed set of
// tags. The decoder matches the trimmed field text against the tags
// case-sensitively. For integer kinds the index of the matching tag is
// stored, for string kinds the tag itself.
//
// Only tags without associated data are supported.
type Enum interface {
	FixedWidthVariants() []string
}
