package fixedwidth

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Float is a float64 that uses as much of its field's width as possible
// for decimal places.
type Float float64

// MarshalFixedWidth formats f with as many decimal places as fit in width.
// It fails when even the whole part does not fit.
func (f Float) MarshalFixedWidth(width int) ([]byte, error) {
	whole := strconv.AppendFloat(nil, float64(f), 'f', 0, 64)
	if len(whole) > width {
		return nil, errors.Errorf("fixedwidth: float %s does not fit in %d bytes", whole, width)
	}
	// one byte goes to the decimal point
	prec := max(width-len(whole)-1, 0)
	return strconv.AppendFloat(nil, float64(f), 'f', prec, 64), nil
}

// UnmarshalFixedWidth parses the trimmed field text as a float.
func (f *Float) UnmarshalFixedWidth(data []byte) error {
	s := strings.TrimSpace(string(data))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return &ParseError{Kind: KindFloatParse, Value: s, Err: err}
	}
	*f = Float(v)
	return nil
}

// Char is a single character field. A blank field decodes to a space.
type Char rune
