package fixedwidth

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/maxatome/go-testdeep/td"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

func readAll(t *testing.T, r *Reader) ([]string, error) {
	t.Helper()
	var out []string
	for {
		record, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, string(record))
	}
}

func TestReader_Lines(t *testing.T) {
	for _, tt := range []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single without newline", "foo", []string{"foo"}},
		{"trailing newline", "foo\nbar\n", []string{"foo", "bar"}},
		{"crlf", "foo\r\nbar\r\n", []string{"foo", "bar"}},
		{"empty lines kept", "foo\n\nbar", []string{"foo", "", "bar"}},
		{"lone carriage return", "foo\rbar\n", []string{"foo\rbar"}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader(tt.input))
			got, err := readAll(t, r)
			td.CmpNoError(t, err)
			td.Cmp(t, got, tt.want)
			td.Cmp(t, r.Count(), len(tt.want))
		})
	}
}

func TestReader_Delimiter(t *testing.T) {
	r := NewReader(strings.NewReader("a\r|b|"), WithDelimiter('|'))
	got, err := readAll(t, r)
	td.CmpNoError(t, err)
	// carriage returns only belong to "\n" delimited input
	td.Cmp(t, got, []string{"a\r", "b"})
}

func TestReader_Width(t *testing.T) {
	r := NewReader(strings.NewReader("foo1bar2ba"), WithWidth(4))
	got, err := readAll(t, r)
	td.Cmp(t, got, []string{"foo1", "bar2"})

	var short *ShortRecordError
	td.CmpTrue(t, errors.As(err, &short))
	td.Cmp(t, short, &ShortRecordError{Index: 3, Width: 4, Got: 2})
	td.CmpErrorIs(t, err, ErrUnexpectedEndOfRecord)
	td.Cmp(t, KindOf(err), KindUnexpectedEndOfRecord)

	_, err = r.Next()
	td.Cmp(t, err, io.EOF)
}

func TestReader_WidthExact(t *testing.T) {
	r := NewReader(strings.NewReader("ab\ncd\n"), WithWidth(3))
	got, err := readAll(t, r)
	td.CmpNoError(t, err)
	// separators are record content in width mode
	td.Cmp(t, got, []string{"ab\n", "cd\n"})
}

func TestReader_All(t *testing.T) {
	r := NewReader(strings.NewReader("a\nb\nc\n"))
	var got []string
	for record, err := range r.All() {
		td.CmpNoError(t, err)
		got = append(got, string(record))
		if len(got) == 2 {
			break
		}
	}
	td.Cmp(t, got, []string{"a", "b"})
	td.Cmp(t, r.Count(), 2)

	record, err := r.Next()
	td.CmpNoError(t, err)
	td.Cmp(t, string(record), "c")
}

func TestReader_AllStopsOnError(t *testing.T) {
	r := NewReader(strings.NewReader("abcd"), WithWidth(3))
	var errs []error
	var n int
	for _, err := range r.All() {
		n++
		if err != nil {
			errs = append(errs, err)
		}
	}
	td.Cmp(t, n, 2)
	td.CmpLen(t, errs, 1)
}

func TestReader_Encoding(t *testing.T) {
	// "café" in Latin-1
	input := []byte{'c', 'a', 'f', 0xe9, '\n'}
	r := NewReader(bytes.NewReader(input), WithEncoding(charmap.ISO8859_1))
	record, err := r.Next()
	td.CmpNoError(t, err)
	td.Cmp(t, string(record), "café")

	// EBCDIC "AB" in fixed width records
	r = NewReader(bytes.NewReader([]byte{0xc1, 0xc2}), WithWidth(2), WithEncoding(charmap.CodePage037))
	record, err = r.Next()
	td.CmpNoError(t, err)
	td.Cmp(t, string(record), "AB")
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestReader_ReadError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewReader(failingReader{boom}).Next()
	td.Cmp(t, err, boom)
	_, err = NewReader(failingReader{boom}, WithWidth(2)).Next()
	td.Cmp(t, err, boom)
}
