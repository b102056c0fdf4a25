package fixedwidth

import (
	"bytes"
	"encoding"
	"io"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Unmarshal parses fixed width encoded data and stores the
// result in the value pointed to by v. If v is nil or not a
// pointer, Unmarshal returns an InvalidUnmarshalError.
//
// The field tree is taken from v's type, see FieldsOf. If v points to
// a slice of records, data is split into newline separated records
// and each one is decoded into a new element. Otherwise data is
// treated as a single record.
func Unmarshal(data []byte, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return &InvalidUnmarshalError{reflect.TypeOf(v)}
	}
	if isRecordSlice(rv.Elem().Type()) {
		return NewDecoder(bytes.NewReader(data)).Decode(v)
	}
	fields, err := fieldsFor(recordType(rv.Elem().Type()))
	if err != nil {
		return err
	}
	return unmarshalRecord(data, fields, rv.Elem())
}

// UnmarshalFields decodes a single record using the given field tree
// and stores the result in the value pointed to by v.
//
//	fields := fixedwidth.Fields(
//		fixedwidth.NewField(0, 4).WithName("numbers"),
//		fixedwidth.NewField(4, 8).WithName("letters"),
//	)
//	var m map[string]string
//	err := fixedwidth.UnmarshalFields([]byte("1234abcd"), fields, &m)
func UnmarshalFields(data []byte, fields FieldNode, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return &InvalidUnmarshalError{reflect.TypeOf(v)}
	}
	return unmarshalRecord(data, asGroup(fields), rv.Elem())
}

func unmarshalRecord(data []byte, fields Group, v reflect.Value) error {
	for v.Kind() == reflect.Ptr && !isLeafType(v.Type().Elem()) {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		v = v.Elem()
	}
	return newValueSetter(v.Type())(newReadCursor(data, fields), v)
}

// isRecordSlice reports whether t is a slice whose elements are records
// with their own field tree.
func isRecordSlice(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && hasOwnFields(recordType(t.Elem()))
}

// A Decoder reads and decodes fixed width records from an input stream.
type Decoder struct {
	r      *Reader
	fields Group
}

// NewDecoder returns a new decoder that reads from r. By default records
// are separated by newlines, see WithWidth for width based records.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{
		r: NewReader(r, opts...),
	}
}

// SetFields sets the field tree used for every record, overriding the
// tree of the destination type.
func (d *Decoder) SetFields(fields FieldNode) {
	d.fields = asGroup(fields)
}

// Decode reads from its input and stores the decoded data to the value
// pointed to by v.
//
// In the case that v points to a slice of records and no field tree was
// set, Decode reads until the end of its input. Otherwise Decode reads a
// single record and returns io.EOF if there is no data remaining. Empty
// records are skipped.
func (d *Decoder) Decode(v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return &InvalidUnmarshalError{reflect.TypeOf(v)}
	}

	if d.fields == nil && isRecordSlice(rv.Elem().Type()) {
		return d.readRecords(rv.Elem())
	}

	fields := d.fields
	if fields == nil {
		var err error
		if fields, err = fieldsFor(recordType(rv.Elem().Type())); err != nil {
			return err
		}
	}
	return d.readRecord(fields, rv.Elem())
}

func (d *Decoder) readRecords(v reflect.Value) error {
	et := v.Type().Elem()
	fields, err := fieldsFor(recordType(et))
	if err != nil {
		return err
	}
	for {
		nv := reflect.New(et).Elem()
		err := d.readRecord(fields, nv)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		v.Set(reflect.Append(v, nv))
	}
}

func (d *Decoder) readRecord(fields Group, v reflect.Value) error {
	for {
		record, err := d.r.Next()
		if err == io.EOF {
			return io.EOF
		}
		if err != nil {
			var re *RecordError
			if errors.As(err, &re) {
				return err
			}
			return &RecordError{Index: d.r.Count(), Err: err}
		}
		if len(record) == 0 {
			continue
		}
		if err := unmarshalRecord(record, fields, v); err != nil {
			return &RecordError{Index: d.r.Count(), Err: err}
		}
		return nil
	}
}

type valueSetter func(c *readCursor, v reflect.Value) error

func newValueSetter(t reflect.Type) valueSetter {
	switch t.Kind() {
	case reflect.Ptr:
		return ptrSetter(t)
	case reflect.Interface:
		return interfaceSetter
	}

	pt := reflect.PointerTo(t)
	if pt.Implements(unmarshalerType) {
		return unmarshalerSetter
	}
	if pt.Implements(textUnmarshalerType) {
		return textUnmarshalerSetter
	}
	if t.Implements(enumType) {
		return enumSetter(t)
	}
	if t == charType {
		return charSetter
	}

	switch t.Kind() {
	case reflect.Bool:
		return boolSetter
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intSetter
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return uintSetter
	case reflect.Float32, reflect.Float64:
		return floatSetter
	case reflect.String:
		return stringSetter
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return bytesSetter
		}
		return sliceSetter
	case reflect.Array:
		return arraySetter
	case reflect.Struct:
		if t.NumField() == 0 {
			return unitSetter
		}
		return structSetter
	case reflect.Map:
		return mapSetter
	}
	return unsupportedSetter(t, "kind "+t.Kind().String())
}

// decodeElement decodes one element of a composite value. A group opens a
// cursor of its own. A single field holding a record type is decoded as a
// sub-record with the record's own tree, relative to the field's bytes.
func decodeElement(c *readCursor, v reflect.Value) error {
	n, ok := c.peek()
	if !ok {
		return ErrUnexpectedEndOfRecord
	}
	switch n := n.(type) {
	case Group:
		if v.Kind() == reflect.Ptr {
			return &UnsupportedError{Type: v.Type(), Reason: "optional group"}
		}
		c.skip()
		return newValueSetter(v.Type())(c.sub(n), v)
	case FieldSpec:
		if hasOwnFields(v.Type()) {
			data, err := c.nextBytes()
			if err != nil {
				return err
			}
			fields, _ := fieldsFor(v.Type())
			return unmarshalRecord(data, fields, v)
		}
	}
	return newValueSetter(v.Type())(c, v)
}

func structSetter(c *readCursor, v reflect.Value) error {
	t := v.Type()
	for _, sf := range cachedTypeInfo(t).fields {
		var raw string
		if b, err := c.peekBytes(); err == nil {
			raw = string(b)
		}
		if err := decodeElement(c, v.Field(sf.index)); err != nil {
			var ute *UnmarshalTypeError
			if errors.As(err, &ute) {
				return err
			}
			return &UnmarshalTypeError{Value: raw, Type: sf.typ, Struct: t.Name(), Field: sf.name, Cause: err}
		}
	}
	return nil
}

func sliceSetter(c *readCursor, v reflect.Value) error {
	et := v.Type().Elem()
	v.Set(reflect.MakeSlice(v.Type(), 0, len(c.nodes)-c.pos))
	for !c.done() {
		nv := reflect.New(et).Elem()
		if err := decodeElement(c, nv); err != nil {
			return errors.Wrapf(err, "element %d", v.Len())
		}
		v.Set(reflect.Append(v, nv))
	}
	return nil
}

func arraySetter(c *readCursor, v reflect.Value) error {
	for i := 0; i < v.Len(); i++ {
		if c.done() {
			return errors.Wrapf(ErrUnexpectedEndOfRecord, "array of %d elements has %d fields", v.Len(), i)
		}
		if err := decodeElement(c, v.Index(i)); err != nil {
			return errors.Wrapf(err, "element %d", i)
		}
	}
	return nil
}

func mapSetter(c *readCursor, v reflect.Value) error {
	t := v.Type()
	if t.Key().Kind() != reflect.String {
		return &UnsupportedError{Type: t, Reason: "map key"}
	}
	if v.IsNil() {
		v.Set(reflect.MakeMap(t))
	}
	for !c.done() {
		f, err := c.peekLeaf()
		if err != nil {
			return err
		}
		nv := reflect.New(t.Elem()).Elem()
		if err := decodeElement(c, nv); err != nil {
			return errors.Wrapf(err, "key %s", f.Key())
		}
		v.SetMapIndex(reflect.ValueOf(f.Key()).Convert(t.Key()), nv)
	}
	return nil
}

// ptrSetter decodes optional values. A blank field leaves the pointer nil
// and consumes the field.
func ptrSetter(t reflect.Type) valueSetter {
	if !isLeafType(t.Elem()) {
		return unsupportedSetter(t, "optional composite")
	}
	return func(c *readCursor, v reflect.Value) error {
		n, ok := c.peek()
		if !ok {
			return ErrUnexpectedEndOfRecord
		}
		if _, ok := n.(Group); ok {
			return &UnsupportedError{Type: t, Reason: "optional group"}
		}
		s, err := c.peekText()
		if err != nil {
			return err
		}
		if s == "" {
			c.skip()
			v.Set(reflect.Zero(t))
			return nil
		}
		if v.IsNil() {
			v.Set(reflect.New(t.Elem()))
		}
		return newValueSetter(t.Elem())(c, v.Elem())
	}
}

func interfaceSetter(c *readCursor, v reflect.Value) error {
	if v.IsNil() {
		return ErrWontImplement
	}
	e := v.Elem()
	if e.Kind() == reflect.Ptr && !e.IsNil() {
		return newValueSetter(e.Elem().Type())(c, e.Elem())
	}
	nv := reflect.New(e.Type()).Elem()
	nv.Set(e)
	if err := newValueSetter(nv.Type())(c, nv); err != nil {
		return err
	}
	v.Set(nv)
	return nil
}

// unitSetter consumes a placeholder field without looking at it.
func unitSetter(c *readCursor, v reflect.Value) error {
	if c.done() {
		return ErrUnexpectedEndOfRecord
	}
	c.skip()
	return nil
}

func unmarshalerSetter(c *readCursor, v reflect.Value) error {
	b, err := c.nextBytes()
	if err != nil {
		return err
	}
	return v.Addr().Interface().(Unmarshaler).UnmarshalFixedWidth(b)
}

func textUnmarshalerSetter(c *readCursor, v reflect.Value) error {
	s, err := c.nextText()
	if err != nil {
		return err
	}
	return v.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s))
}

func enumSetter(t reflect.Type) valueSetter {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.String:
	default:
		return unsupportedSetter(t, "variant shape")
	}
	variants := reflect.Zero(t).Interface().(Enum).FixedWidthVariants()
	return func(c *readCursor, v reflect.Value) error {
		s, err := c.nextText()
		if err != nil {
			return err
		}
		i := slices.Index(variants, s)
		if i < 0 {
			return errors.Errorf("fixedwidth: unknown variant %q, expected one of %q", s, variants)
		}
		switch t.Kind() {
		case reflect.String:
			v.SetString(s)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			v.SetUint(uint64(i))
		default:
			v.SetInt(int64(i))
		}
		return nil
	}
}

func charSetter(c *readCursor, v reflect.Value) error {
	s, err := c.nextText()
	if err != nil {
		return err
	}
	if s == "" {
		v.SetInt(' ')
		return nil
	}
	if n := utf8.RuneCountInString(s); n > 1 {
		return errors.Errorf("fixedwidth: expected char field to be 1 character, got %d", n)
	}
	r, _ := utf8.DecodeRuneInString(s)
	v.SetInt(int64(r))
	return nil
}

func boolSetter(c *readCursor, v reflect.Value) error {
	s, err := c.nextText()
	if err != nil {
		return err
	}
	if len(s) > 1 {
		return &ParseError{Kind: KindBoolParse, Value: s, Err: errors.Errorf("expected bool field to be 1 byte, got %d", len(s))}
	}
	v.SetBool(s != "" && s != "0")
	return nil
}

func intSetter(c *readCursor, v reflect.Value) error {
	s, err := c.nextText()
	if err != nil {
		return err
	}
	i, err := strconv.ParseInt(s, 10, v.Type().Bits())
	if err != nil {
		return &ParseError{Kind: KindIntParse, Value: s, Err: err}
	}
	v.SetInt(i)
	return nil
}

func uintSetter(c *readCursor, v reflect.Value) error {
	s, err := c.nextText()
	if err != nil {
		return err
	}
	u, err := strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, v.Type().Bits())
	if err != nil {
		return &ParseError{Kind: KindIntParse, Value: s, Err: err}
	}
	v.SetUint(u)
	return nil
}

func floatSetter(c *readCursor, v reflect.Value) error {
	s, err := c.nextText()
	if err != nil {
		return err
	}
	f, err := strconv.ParseFloat(s, v.Type().Bits())
	if err != nil {
		return &ParseError{Kind: KindFloatParse, Value: s, Err: err}
	}
	v.SetFloat(f)
	return nil
}

func stringSetter(c *readCursor, v reflect.Value) error {
	s, err := c.nextText()
	if err != nil {
		return err
	}
	v.SetString(s)
	return nil
}

// bytesSetter stores the field verbatim, surrounding space included.
func bytesSetter(c *readCursor, v reflect.Value) error {
	b, err := c.nextBytes()
	if err != nil {
		return err
	}
	v.SetBytes(append([]byte(nil), b...))
	return nil
}

func unsupportedSetter(t reflect.Type, reason string) valueSetter {
	return func(*readCursor, reflect.Value) error {
		return &UnsupportedError{Type: t, Reason: reason}
	}
}
