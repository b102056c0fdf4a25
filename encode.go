package fixedwidth

import (
	"bytes"
	"encoding"
	"io"
	"reflect"
	"slices"
	"strconv"

	"github.com/pkg/errors"
)

// Marshal returns the fixed-width encoding of v.
//
// The field tree is taken from v's type, see FieldsOf. If v is a slice
// of records, each element is encoded to a line and lines are joined by
// newlines. Otherwise a single record is encoded.
//
// Each value is written at the range of its field. Values shorter than
// the field are padded with the field's pad byte on the side opposite its
// justification. Longer values are truncated on the same side. Bytes no
// field covers are filled with DefaultFill.
//
// nil pointers and interfaces are written as a field of padding. Zero
// values are encoded normally.
func Marshal(v interface{}) ([]byte, error) {
	buff := bytes.NewBuffer(nil)
	err := NewEncoder(buff).Encode(v)
	if err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

// MarshalFields returns the encoding of v as a single record laid out by
// fields.
func MarshalFields(v interface{}, fields FieldNode) ([]byte, error) {
	return marshalRecord(reflect.ValueOf(v), asGroup(fields), DefaultFill)
}

func marshalRecord(v reflect.Value, fields Group, fillChar byte) ([]byte, error) {
	for v.Kind() == reflect.Ptr && !isLeafType(v.Type().Elem()) {
		if v.IsNil() {
			return nil, &UnsupportedError{Type: v.Type(), Reason: "nil record"}
		}
		v = v.Elem()
	}
	line := newLineBuilder(fields.Width(), fillChar)
	if err := encodeValue(newWriteCursor(line, fields), v); err != nil {
		return nil, err
	}
	return line.Bytes(), nil
}

// An Encoder writes fixed-width formatted data to an output
// stream.
type Encoder struct {
	w        *Writer
	fields   Group
	fillChar byte
}

// NewEncoder returns a new encoder that writes to w. Records are
// separated by newlines unless WithSeparator says otherwise.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	return &Encoder{
		w:        NewWriter(w, opts...),
		fillChar: DefaultFill,
	}
}

// SetFields sets the field tree used for every record, overriding the
// tree of the encoded type.
func (e *Encoder) SetFields(fields FieldNode) {
	e.fields = asGroup(fields)
}

// SetFill sets the byte written to the parts of a record no field covers.
func (e *Encoder) SetFill(c byte) {
	e.fillChar = c
}

// Encode writes the fixed-width encoding of v to the
// stream.
// See the documentation for Marshal for details about
// encoding behavior.
func (e *Encoder) Encode(i interface{}) (err error) {
	if i == nil {
		return nil
	}

	v := reflect.ValueOf(i)
	if v.Kind() == reflect.Ptr && !v.IsNil() && v.Elem().Kind() == reflect.Slice {
		v = v.Elem()
	}
	if e.fields == nil && isRecordSlice(v.Type()) {
		// encode each slice element to a line
		err = e.writeLines(v)
	} else {
		err = e.writeLine(v)
	}
	if err != nil {
		return err
	}
	return e.w.Flush()
}

func (e *Encoder) writeLines(v reflect.Value) error {
	for i := 0; i < v.Len(); i++ {
		if err := e.writeLine(v.Index(i)); err != nil {
			return &RecordError{Index: i + 1, Err: err}
		}
	}
	return nil
}

func (e *Encoder) writeLine(v reflect.Value) error {
	fields := e.fields
	if fields == nil {
		var err error
		if fields, err = fieldsFor(recordType(v.Type())); err != nil {
			return err
		}
	}
	b, err := marshalRecord(v, fields, e.fillChar)
	if err != nil {
		return err
	}
	return e.w.Write(b)
}

type valueEncoder func(c *writeCursor, v reflect.Value) error

func encodeValue(c *writeCursor, v reflect.Value) error {
	if !v.IsValid() {
		return c.blank()
	}
	return newValueEncoder(v.Type())(c, v)
}

func newValueEncoder(t reflect.Type) valueEncoder {
	switch t.Kind() {
	case reflect.Ptr:
		return ptrEncoder(t)
	case reflect.Interface:
		return interfaceEncoder
	}

	if t.Implements(marshalerType) {
		return marshalerEncoder
	}
	if t.Implements(textMarshalerType) {
		return textMarshalerEncoder
	}
	if t.Implements(enumType) {
		return enumEncoder(t)
	}
	if t == charType {
		return charEncoder
	}

	switch t.Kind() {
	case reflect.Bool:
		return boolEncoder
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intEncoder
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return uintEncoder
	case reflect.Float32, reflect.Float64:
		return floatEncoder
	case reflect.String:
		return stringEncoder
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return bytesEncoder
		}
		return sequenceEncoder
	case reflect.Array:
		return sequenceEncoder
	case reflect.Struct:
		if t.NumField() == 0 {
			return unitEncoder
		}
		return structEncoder
	case reflect.Map:
		return mapEncoder
	}
	return unsupportedEncoder(t, "kind "+t.Kind().String())
}

// encodeElement writes one element of a composite value, mirroring
// decodeElement.
func encodeElement(c *writeCursor, v reflect.Value) error {
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
		return encodeValue(c.sub(n), v)
	case FieldSpec:
		if hasOwnFields(v.Type()) {
			fields, _ := fieldsFor(v.Type())
			b, err := marshalRecord(v, fields, n.pad())
			if err != nil {
				return err
			}
			return c.write(b)
		}
	}
	return encodeValue(c, v)
}

func structEncoder(c *writeCursor, v reflect.Value) error {
	t := v.Type()
	for _, sf := range cachedTypeInfo(t).fields {
		if err := encodeElement(c, v.Field(sf.index)); err != nil {
			var mte *MarshalTypeError
			if errors.As(err, &mte) {
				return err
			}
			return &MarshalTypeError{Type: sf.typ, Struct: t.Name(), Field: sf.name, Cause: err}
		}
	}
	return nil
}

// sequenceEncoder writes slices and arrays. Fields left over after the
// last element are written as padding.
func sequenceEncoder(c *writeCursor, v reflect.Value) error {
	for i := 0; i < v.Len(); i++ {
		if err := encodeElement(c, v.Index(i)); err != nil {
			return errors.Wrapf(err, "element %d", i)
		}
	}
	for !c.done() {
		if err := c.blank(); err != nil {
			return err
		}
	}
	return nil
}

func mapEncoder(c *writeCursor, v reflect.Value) error {
	t := v.Type()
	if t.Key().Kind() != reflect.String {
		return &UnsupportedError{Type: t, Reason: "map key"}
	}
	for !c.done() {
		f, err := c.peekLeaf()
		if err != nil {
			return err
		}
		mv := v.MapIndex(reflect.ValueOf(f.Key()).Convert(t.Key()))
		if !mv.IsValid() {
			if err := c.blank(); err != nil {
				return err
			}
			continue
		}
		if err := encodeElement(c, mv); err != nil {
			return errors.Wrapf(err, "key %s", f.Key())
		}
	}
	return nil
}

func ptrEncoder(t reflect.Type) valueEncoder {
	if !isLeafType(t.Elem()) {
		return unsupportedEncoder(t, "optional composite")
	}
	return func(c *writeCursor, v reflect.Value) error {
		if _, err := c.peekLeaf(); err != nil {
			if n, ok := c.peek(); ok {
				if _, ok := n.(Group); ok {
					return &UnsupportedError{Type: t, Reason: "optional group"}
				}
			}
			return err
		}
		if v.IsNil() {
			return c.blank()
		}
		return newValueEncoder(t.Elem())(c, v.Elem())
	}
}

func interfaceEncoder(c *writeCursor, v reflect.Value) error {
	if v.IsNil() {
		return c.blank()
	}
	return encodeValue(c, v.Elem())
}

func unitEncoder(c *writeCursor, _ reflect.Value) error {
	return c.blank()
}

func marshalerEncoder(c *writeCursor, v reflect.Value) error {
	f, err := c.peekLeaf()
	if err != nil {
		return err
	}
	b, err := v.Interface().(Marshaler).MarshalFixedWidth(f.Range.Width())
	if err != nil {
		return err
	}
	return c.writeRaw(b)
}

func textMarshalerEncoder(c *writeCursor, v reflect.Value) error {
	b, err := v.Interface().(encoding.TextMarshaler).MarshalText()
	if err != nil {
		return err
	}
	return c.write(b)
}

func enumEncoder(t reflect.Type) valueEncoder {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.String:
	default:
		return unsupportedEncoder(t, "variant shape")
	}
	variants := reflect.Zero(t).Interface().(Enum).FixedWidthVariants()
	return func(c *writeCursor, v reflect.Value) error {
		var i int
		switch t.Kind() {
		case reflect.String:
			i = slices.Index(variants, v.String())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			i = int(v.Uint())
			if v.Uint() >= uint64(len(variants)) {
				i = -1
			}
		default:
			i = int(v.Int())
			if v.Int() < 0 || v.Int() >= int64(len(variants)) {
				i = -1
			}
		}
		if i < 0 {
			return errors.Errorf("fixedwidth: %v is not a variant of %s", v.Interface(), t)
		}
		return c.write([]byte(variants[i]))
	}
}

func charEncoder(c *writeCursor, v reflect.Value) error {
	return c.write([]byte(string(rune(v.Int()))))
}

func boolEncoder(c *writeCursor, v reflect.Value) error {
	if v.Bool() {
		return c.write([]byte("1"))
	}
	return c.write([]byte("0"))
}

func intEncoder(c *writeCursor, v reflect.Value) error {
	return c.write(strconv.AppendInt(nil, v.Int(), 10))
}

func uintEncoder(c *writeCursor, v reflect.Value) error {
	return c.write(strconv.AppendUint(nil, v.Uint(), 10))
}

func floatEncoder(c *writeCursor, v reflect.Value) error {
	return c.write(strconv.AppendFloat(nil, v.Float(), 'f', -1, v.Type().Bits()))
}

func stringEncoder(c *writeCursor, v reflect.Value) error {
	return c.write([]byte(v.String()))
}

func bytesEncoder(c *writeCursor, v reflect.Value) error {
	return c.writeRaw(v.Bytes())
}

func unsupportedEncoder(t reflect.Type, reason string) valueEncoder {
	return func(*writeCursor, reflect.Value) error {
		return &UnsupportedError{Type: t, Reason: reason}
	}
}
