package fixedwidth

var (
	nilFloat64 *float64
	nilInt     *int
	nilString  *string
)

func float64p(v float64) *float64 { return &v }
func intp(v int) *int             { return &v }
func stringp(v string) *string    { return &v }
func uintp(v uint) *uint          { return &v }
func boolp(v bool) *bool          { return &v }

// EncodableString is a string that implements the encoding TextUnmarshaler and TextMarshaler interface.
// This is useful for testing.
type EncodableString struct {
	S   string
	Err error
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *EncodableString) UnmarshalText(text []byte) error {
	s.S = string(text)
	return s.Err
}

// MarshalText implements encoding.TextMarshaler.
func (s EncodableString) MarshalText() ([]byte, error) {
	return []byte(s.S), s.Err
}

// rawField keeps the untrimmed bytes handed to UnmarshalFixedWidth.
type rawField []byte

func (r *rawField) UnmarshalFixedWidth(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

func (r rawField) MarshalFixedWidth(width int) ([]byte, error) {
	return r, nil
}

type fooBar int

const (
	Foo fooBar = iota
	Bar
	Baz
)

func (fooBar) FixedWidthVariants() []string { return []string{"foo", "bar", "baz"} }

type shade string

func (shade) FixedWidthVariants() []string { return []string{"light", "dark"} }

type ratio float64

func (ratio) FixedWidthVariants() []string { return []string{"half"} }

// pair is a record of its own, used as a sub-record inside other records.
type pair struct {
	A string `fixed:"0..2"`
	B string `fixed:"2..4"`
}

// point provides its field tree through a method.
type point struct {
	X, Y int
}

func (point) FixedWidthFields() Group {
	return Fields(
		NewField(0, 3).WithName("x").PadWith('0').WithJustify(Right),
		NewField(3, 6).WithName("y").PadWith('0').WithJustify(Right),
	)
}
