package fixedwidth

import (
	"bufio"
	"bytes"
	"io"
	"iter"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
)

type config struct {
	width     int
	delim     byte
	separator []byte
	enc       encoding.Encoding
}

func newConfig(opts []Option) config {
	c := config{
		delim:     '\n',
		separator: []byte{'\n'},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// An Option configures a Reader, Writer, Decoder or Encoder.
type Option func(*config)

// WithWidth splits the input into records of exactly n bytes instead of
// lines. It is ignored by writers.
func WithWidth(n int) Option {
	return func(c *config) {
		c.width = n
	}
}

// WithDelimiter sets the byte ending a record when records are not split
// by width. The default is '\n'.
func WithDelimiter(d byte) Option {
	return func(c *config) {
		c.delim = d
	}
}

// WithSeparator sets the bytes a writer puts between records. The default
// is "\n".
func WithSeparator(sep string) Option {
	return func(c *config) {
		c.separator = []byte(sep)
	}
}

// WithEncoding transcodes records from enc to UTF-8 when reading and from
// UTF-8 to enc when writing. Field ranges always address the UTF-8 form.
func WithEncoding(enc encoding.Encoding) Option {
	return func(c *config) {
		c.enc = enc
	}
}

// A Reader splits an input stream into records.
type Reader struct {
	r     *bufio.Reader
	cfg   config
	count int
	done  bool
}

// NewReader returns a reader splitting r into lines. A trailing "\r" is
// removed from every line and a final empty line is dropped.
func NewReader(r io.Reader, opts ...Option) *Reader {
	return &Reader{
		r:   bufio.NewReader(r),
		cfg: newConfig(opts),
	}
}

// Count returns the number of records read so far, which is also the
// 1-based index of the last record returned by Next.
func (r *Reader) Count() int {
	return r.count
}

// Next returns the next record. It returns io.EOF when the input is
// exhausted. The returned slice is only valid until the next call.
//
// With WithWidth, a final record shorter than the width is returned along
// with a *ShortRecordError. A record that cannot be transcoded gives a
// *RecordError and reading may continue with the next record. Any other
// error comes from the underlying reader.
func (r *Reader) Next() ([]byte, error) {
	if r.done {
		return nil, io.EOF
	}
	var (
		record []byte
		err    error
	)
	if r.cfg.width > 0 {
		record, err = r.nextWidth()
	} else {
		record, err = r.nextLine()
	}
	if err != nil {
		return record, err
	}
	if r.cfg.enc != nil {
		record, err = r.cfg.enc.NewDecoder().Bytes(record)
		if err != nil {
			return nil, &RecordError{Index: r.count, Err: errors.Wrap(err, "transcode")}
		}
	}
	return record, nil
}

func (r *Reader) nextWidth() ([]byte, error) {
	record := make([]byte, r.cfg.width)
	n, err := io.ReadFull(r.r, record)
	switch {
	case err == io.EOF:
		r.done = true
		return nil, io.EOF
	case err == io.ErrUnexpectedEOF:
		r.done = true
		r.count++
		return record[:n], &ShortRecordError{Index: r.count, Width: r.cfg.width, Got: n}
	case err != nil:
		return nil, err
	}
	r.count++
	return record, nil
}

func (r *Reader) nextLine() ([]byte, error) {
	line, err := r.r.ReadBytes(r.cfg.delim)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if err == io.EOF {
		r.done = true
		if len(line) == 0 {
			// skip last empty line
			return nil, io.EOF
		}
	}
	line = bytes.TrimSuffix(line, []byte{r.cfg.delim})
	if r.cfg.delim == '\n' {
		line = bytes.TrimSuffix(line, []byte{'\r'})
	}
	r.count++
	return line, nil
}

// All returns an iterator over the remaining records. Iteration stops
// after the first error.
func (r *Reader) All() iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		for {
			record, err := r.Next()
			if err == io.EOF {
				return
			}
			if !yield(record, err) || err != nil {
				return
			}
		}
	}
}
