package fixedwidth

import (
	"encoding"
	"reflect"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// TagName is the struct tag read by FieldsOf.
const TagName = "fixed"

// ParseTag parses the value of a `fixed` struct tag:
//
//	fixed:"<start>..<end>[,pad=<c>][,justify=left|right][,name=<name>]"
//
// The tags "-" and "skip" mark a field that is not part of the record;
// skip is reported as true for them.
func ParseTag(tag string) (f FieldSpec, skip bool, err error) {
	if tag == "-" || tag == "skip" {
		return FieldSpec{}, true, nil
	}

	parts := strings.Split(tag, ",")
	r, err := ParseRange(parts[0])
	if err != nil {
		return FieldSpec{}, false, err
	}
	f = Field(r)

	for _, opt := range parts[1:] {
		k, v, ok := strings.Cut(opt, "=")
		if !ok {
			return FieldSpec{}, false, errors.Errorf("fixedwidth: invalid tag option %q", opt)
		}
		switch k {
		case "pad":
			if len(v) != 1 {
				return FieldSpec{}, false, errors.Errorf("fixedwidth: pad must be a single byte, got %q", v)
			}
			f.Pad = v[0]
		case "justify":
			if f.Justify, err = ParseJustify(v); err != nil {
				return FieldSpec{}, false, err
			}
		case "name":
			if v == "" {
				return FieldSpec{}, false, errors.New("fixedwidth: empty name")
			}
			f.Name = v
		default:
			return FieldSpec{}, false, errors.Errorf("fixedwidth: unknown tag option %q", k)
		}
	}
	return f, false, nil
}

// structField is a struct field that takes part in a record.
type structField struct {
	index  int
	name   string
	typ    reflect.Type
	tag    string
	hasTag bool
}

type typeInfo struct {
	fields []structField
	tree   Group
	err    error
}

var fieldCache sync.Map // map[reflect.Type]*typeInfo

// cachedTypeInfo is like buildTypeInfo but cached to prevent duplicate work.
func cachedTypeInfo(t reflect.Type) *typeInfo {
	if f, ok := fieldCache.Load(t); ok {
		return f.(*typeInfo)
	}
	f, _ := fieldCache.LoadOrStore(t, buildTypeInfo(t))
	return f.(*typeInfo)
}

func buildTypeInfo(t reflect.Type) *typeInfo {
	info := &typeInfo{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, hasTag := f.Tag.Lookup(TagName)
		if tag == "-" || tag == "skip" {
			continue
		}
		info.fields = append(info.fields, structField{
			index:  i,
			name:   f.Name,
			typ:    f.Type,
			tag:    tag,
			hasTag: hasTag,
		})
	}
	info.tree, info.err = buildTree(t, info.fields)
	return info
}

func buildTree(t reflect.Type, fields []structField) (Group, error) {
	g := make(Group, 0, len(fields))
	for _, sf := range fields {
		if sf.hasTag {
			spec, _, err := ParseTag(sf.tag)
			if err != nil {
				return nil, errors.Wrapf(err, "field %s.%s", t.Name(), sf.name)
			}
			if spec.Name == "" {
				spec.Name = sf.name
			}
			g = append(g, spec)
			continue
		}

		// An untagged struct is a nested record described by its own tree.
		if sf.typ.Kind() == reflect.Struct && !isLeafType(sf.typ) {
			sub, err := fieldsFor(sf.typ)
			if err != nil {
				return nil, errors.Wrapf(err, "field %s.%s", t.Name(), sf.name)
			}
			if len(sub) > 0 {
				g = append(g, sub)
				continue
			}
		}
		return nil, errors.Errorf("fixedwidth: missing range for field %s.%s", t.Name(), sf.name)
	}
	return g, nil
}

// FieldsOf returns the field tree of v's type. Types implementing Fielder
// provide their own tree; structs are described by their `fixed` tags.
func FieldsOf(v interface{}) (Group, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, &UnsupportedError{Reason: "nil value"}
	}
	return fieldsFor(recordType(t))
}

// recordType strips the pointers from t unless a pointer provides the tree.
func recordType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr && !t.Implements(fielderType) {
		t = t.Elem()
	}
	return t
}

var (
	fielderType         = reflect.TypeOf((*Fielder)(nil)).Elem()
	enumType            = reflect.TypeOf((*Enum)(nil)).Elem()
	marshalerType       = reflect.TypeOf((*Marshaler)(nil)).Elem()
	unmarshalerType     = reflect.TypeOf((*Unmarshaler)(nil)).Elem()
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	charType            = reflect.TypeOf(Char(0))
)

func fieldsFor(t reflect.Type) (Group, error) {
	switch {
	case t.Implements(fielderType):
		return reflect.Zero(t).Interface().(Fielder).FixedWidthFields(), nil
	case reflect.PointerTo(t).Implements(fielderType):
		return reflect.New(t).Interface().(Fielder).FixedWidthFields(), nil
	case t.Kind() == reflect.Struct:
		info := cachedTypeInfo(t)
		return info.tree, info.err
	}
	return nil, &UnsupportedError{Type: t, Reason: "type without field definitions"}
}

// hasOwnFields reports whether t describes a record by itself.
func hasOwnFields(t reflect.Type) bool {
	if t.Kind() != reflect.Struct || isLeafType(t) {
		return false
	}
	g, err := fieldsFor(t)
	return err == nil && len(g) > 0
}

// isLeafType reports whether values of t occupy exactly one field.
func isLeafType(t reflect.Type) bool {
	if t == charType || t.Implements(enumType) {
		return true
	}
	pt := reflect.PointerTo(t)
	if pt.Implements(unmarshalerType) || pt.Implements(textUnmarshalerType) ||
		t.Implements(marshalerType) || t.Implements(textMarshalerType) {
		return true
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Slice:
		return t.Elem().Kind() == reflect.Uint8
	}
	return false
}
