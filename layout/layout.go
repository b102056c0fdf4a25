// Package layout reads and writes record layouts kept in TOML files.
//
// A layout names the fields of a record and how the records of a file are
// split and encoded:
//
//	name = "person"
//	encoding = "ISO-8859-1"
//
//	[[field]]
//	name = "name"
//	range = "0..10"
//
//	[[field]]
//	name = "age"
//	range = "10..13"
//	pad = "0"
//	justify = "right"
//
//	[[field]]
//	name = "address"
//
//	  [[field.field]]
//	  name = "street"
//	  range = "13..33"
//
// A field without a range is a group of the fields nested in it.
package layout

import (
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	fixedwidth "github.com/sthagen/twking7-fixed-width"
)

// Layout describes the records of a file.
type Layout struct {
	Name string
	// Width splits records by byte count instead of lines when set.
	Width int
	// Encoding is an IANA charset name. Empty means UTF-8.
	Encoding  string
	Separator string
	Fields    fixedwidth.Group
}

type fileLayout struct {
	Name      string      `toml:"name,omitempty"`
	Width     int         `toml:"width,omitempty"`
	Encoding  string      `toml:"encoding,omitempty"`
	Separator string      `toml:"separator"`
	Fields    []fileField `toml:"field"`
}

type fileField struct {
	Name    string      `toml:"name,omitempty"`
	Range   string      `toml:"range,omitempty"`
	Pad     string      `toml:"pad,omitempty"`
	Justify string      `toml:"justify,omitempty"`
	Fields  []fileField `toml:"field,omitempty"`
}

// Load reads the layout stored at path.
func Load(path string) (*Layout, error) {
	var raw fileLayout
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, errors.Wrapf(err, "layout: load %s", path)
	}
	return fromFile(raw, meta)
}

// Parse parses a layout document.
func Parse(data []byte) (*Layout, error) {
	var raw fileLayout
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, errors.Wrap(err, "layout: parse")
	}
	return fromFile(raw, meta)
}

func fromFile(raw fileLayout, meta toml.MetaData) (*Layout, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("layout: unknown key %s", undecoded[0])
	}
	l := &Layout{
		Name:      strings.TrimSpace(raw.Name),
		Width:     raw.Width,
		Encoding:  strings.TrimSpace(raw.Encoding),
		Separator: "\n",
	}
	if meta.IsDefined("separator") {
		l.Separator = raw.Separator
	}
	if l.Width < 0 {
		return nil, errors.Errorf("layout: negative width %d", l.Width)
	}
	if len(raw.Fields) == 0 {
		return nil, errors.New("layout: no fields")
	}
	g, err := toGroup(raw.Fields)
	if err != nil {
		return nil, err
	}
	l.Fields = g
	if _, err := l.Charset(); err != nil {
		return nil, err
	}
	return l, nil
}

func toGroup(fields []fileField) (fixedwidth.Group, error) {
	g := make(fixedwidth.Group, 0, len(fields))
	for i, f := range fields {
		if f.Range == "" {
			if len(f.Fields) == 0 {
				return nil, errors.Errorf("layout: field %d (%s) has neither a range nor fields", i, f.Name)
			}
			sub, err := toGroup(f.Fields)
			if err != nil {
				return nil, errors.Wrapf(err, "group %s", f.Name)
			}
			g = append(g, sub)
			continue
		}
		if len(f.Fields) > 0 {
			return nil, errors.Errorf("layout: field %s has both a range and fields", f.Name)
		}
		spec, err := toField(f)
		if err != nil {
			return nil, err
		}
		g = append(g, spec)
	}
	return g, nil
}

func toField(f fileField) (fixedwidth.FieldSpec, error) {
	r, err := fixedwidth.ParseRange(f.Range)
	if err != nil {
		return fixedwidth.FieldSpec{}, errors.Wrapf(err, "layout: field %s", f.Name)
	}
	spec := fixedwidth.Field(r).WithName(f.Name)
	if f.Pad != "" {
		if len(f.Pad) != 1 {
			return fixedwidth.FieldSpec{}, errors.Errorf("layout: field %s: pad must be a single byte, got %q", f.Name, f.Pad)
		}
		spec = spec.PadWith(f.Pad[0])
	}
	j, err := fixedwidth.ParseJustify(f.Justify)
	if err != nil {
		return fixedwidth.FieldSpec{}, errors.Wrapf(err, "layout: field %s", f.Name)
	}
	return spec.WithJustify(j), nil
}

// Charset returns the encoding named by the layout, or nil for UTF-8.
func (l *Layout) Charset() (encoding.Encoding, error) {
	switch strings.ToUpper(l.Encoding) {
	case "", "UTF-8", "UTF8":
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(l.Encoding)
	if err != nil {
		return nil, errors.Wrapf(err, "layout: encoding %q", l.Encoding)
	}
	if enc == nil {
		return nil, errors.Errorf("layout: encoding %q is not supported", l.Encoding)
	}
	return enc, nil
}

// Options returns the reader and writer options described by the layout.
func (l *Layout) Options() ([]fixedwidth.Option, error) {
	opts := []fixedwidth.Option{fixedwidth.WithSeparator(l.Separator)}
	if l.Width > 0 {
		opts = append(opts, fixedwidth.WithWidth(l.Width))
	} else if n := len(l.Separator); n > 0 {
		opts = append(opts, fixedwidth.WithDelimiter(l.Separator[n-1]))
	}
	enc, err := l.Charset()
	if err != nil {
		return nil, err
	}
	if enc != nil {
		opts = append(opts, fixedwidth.WithEncoding(enc))
	}
	return opts, nil
}

// Encode writes l as a layout document.
func (l *Layout) Encode(w io.Writer) error {
	raw := fileLayout{
		Name:      l.Name,
		Width:     l.Width,
		Encoding:  l.Encoding,
		Separator: l.Separator,
		Fields:    fromGroup(l.Fields),
	}
	return errors.Wrap(toml.NewEncoder(w).Encode(raw), "layout: encode")
}

func fromGroup(g fixedwidth.Group) []fileField {
	out := make([]fileField, 0, len(g))
	for _, n := range g {
		switch n := n.(type) {
		case fixedwidth.FieldSpec:
			f := fileField{Name: n.Name, Range: n.Range.String()}
			if n.Pad != 0 && n.Pad != fixedwidth.DefaultPad {
				f.Pad = string([]byte{n.Pad})
			}
			if n.Justify == fixedwidth.Right {
				f.Justify = n.Justify.String()
			}
			out = append(out, f)
		case fixedwidth.Group:
			out = append(out, fileField{Fields: fromGroup(n)})
		}
	}
	return out
}
