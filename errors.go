package fixedwidth

import (
	"reflect"
	"strconv"

	"github.com/pkg/errors"
)

var (
	// ErrUnexpectedEndOfRecord is returned when a field range lies outside
	// the record, when the field tree runs out before the value is complete,
	// or when a group is found where a single field was expected.
	ErrUnexpectedEndOfRecord = errors.New("fixedwidth: byte length of record was less than defined length")

	// ErrInvalidUTF8 is returned when a field's bytes are not valid UTF-8 text.
	ErrInvalidUTF8 = errors.New("fixedwidth: field is not valid utf-8")

	// ErrWontImplement is returned for destinations whose shape is only known
	// from the data, such as a nil interface{}. Fixed-width data carries no
	// type information.
	ErrWontImplement = errors.New("fixedwidth: self-describing destinations are not supported")

	// ErrInvalidRange is returned when a field has a negative, empty or
	// reversed range.
	ErrInvalidRange = errors.New("fixedwidth: invalid field range")
)

// Kind classifies the errors returned by the codec.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnexpectedEndOfRecord
	KindInvalidUTF8
	KindBoolParse
	KindIntParse
	KindFloatParse
	KindUnsupported
	KindMessage
)

var kindNames = map[Kind]string{
	KindUnknown:               "unknown",
	KindUnexpectedEndOfRecord: "unexpected end of record",
	KindInvalidUTF8:           "invalid utf-8",
	KindBoolParse:             "bool parse",
	KindIntParse:              "int parse",
	KindFloatParse:            "float parse",
	KindUnsupported:           "unsupported",
	KindMessage:               "message",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// KindOf reports the kind of err. Errors raised by hooks and destination
// types, and any other error not produced by the codec itself, are
// KindMessage. A nil error is KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var pe *ParseError
	var ue *UnsupportedError
	switch {
	case errors.Is(err, ErrUnexpectedEndOfRecord):
		return KindUnexpectedEndOfRecord
	case errors.Is(err, ErrInvalidUTF8):
		return KindInvalidUTF8
	case errors.Is(err, ErrWontImplement), errors.As(err, &ue):
		return KindUnsupported
	case errors.As(err, &pe):
		return pe.Kind
	}
	return KindMessage
}

// A ParseError describes a field whose text could not be parsed as a
// bool, integer or float.
type ParseError struct {
	Kind  Kind   // KindBoolParse, KindIntParse or KindFloatParse
	Value string // the trimmed field text
	Err   error
}

func (e *ParseError) Error() string {
	return "fixedwidth: " + e.Kind.String() + " error for " + strconv.Quote(e.Value) + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }

// Cause implements the causer interface used by github.com/pkg/errors.
func (e *ParseError) Cause() error { return e.Err }

// An UnsupportedError describes a destination shape the codec deliberately
// does not handle.
type UnsupportedError struct {
	Type   reflect.Type
	Reason string
}

func (e *UnsupportedError) Error() string {
	s := "fixedwidth: unsupported"
	if e.Reason != "" {
		s += " " + e.Reason
	}
	if e.Type != nil {
		s += " for type " + e.Type.String()
	}
	return s
}

// An InvalidUnmarshalError describes an invalid argument passed to Unmarshal.
// (The argument to Unmarshal must be a non-nil pointer.)
type InvalidUnmarshalError struct {
	Type reflect.Type
}

func (e *InvalidUnmarshalError) Error() string {
	if e.Type == nil {
		return "fixedwidth: Unmarshal(nil)"
	}

	if e.Type.Kind() != reflect.Ptr {
		return "fixedwidth: Unmarshal(non-pointer " + e.Type.String() + ")"
	}
	return "fixedwidth: Unmarshal(nil " + e.Type.String() + ")"
}

// An UnmarshalTypeError describes a field that could not be decoded
// into a struct field.
type UnmarshalTypeError struct {
	Value  string       // the raw value, when the field was a leaf
	Type   reflect.Type // type of Go value it could not be assigned to
	Struct string       // name of the struct type containing the field
	Field  string       // name of the field holding the Go value
	Cause  error        // original error
}

func (e *UnmarshalTypeError) Error() string {
	s := "fixedwidth: cannot unmarshal " + strconv.Quote(e.Value) + " into Go struct field " + e.Struct + "." + e.Field + " of type " + e.Type.String()
	if e.Cause != nil {
		return s + ": " + e.Cause.Error()
	}
	return s
}

func (e *UnmarshalTypeError) Unwrap() error { return e.Cause }

// A MarshalTypeError describes a struct field that could not be encoded.
type MarshalTypeError struct {
	Type   reflect.Type
	Struct string
	Field  string
	Cause  error
}

func (e *MarshalTypeError) Error() string {
	s := "fixedwidth: cannot marshal Go struct field " + e.Struct + "." + e.Field + " of type " + e.Type.String()
	if e.Cause != nil {
		return s + ": " + e.Cause.Error()
	}
	return s
}

func (e *MarshalTypeError) Unwrap() error { return e.Cause }

// A RecordError reports the record of a stream a failure occurred in.
// Index is 1-based.
type RecordError struct {
	Index int
	Err   error
}

func (e *RecordError) Error() string {
	return "fixedwidth: record " + strconv.Itoa(e.Index) + ": " + e.Err.Error()
}

func (e *RecordError) Unwrap() error { return e.Err }

// Cause implements the causer interface used by github.com/pkg/errors.
func (e *RecordError) Cause() error { return e.Err }

// A ShortRecordError is returned by a width based Reader when the final
// record of the source is shorter than the record width.
type ShortRecordError struct {
	Index int
	Width int
	Got   int
}

func (e *ShortRecordError) Error() string {
	return "fixedwidth: record " + strconv.Itoa(e.Index) + " is " + strconv.Itoa(e.Got) + " bytes, want " + strconv.Itoa(e.Width)
}

// Is reports ShortRecordError as an unexpected end of record.
func (e *ShortRecordError) Is(target error) bool {
	return target == ErrUnexpectedEndOfRecord
}
