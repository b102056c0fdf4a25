package fixedwidth

import (
	"bufio"
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// A Writer writes records to an output stream, putting a separator
// between consecutive records.
type Writer struct {
	w     *bufio.Writer
	buf   *bytes.Buffer
	cfg   config
	count int
}

// NewWriter returns a writer that writes records to w. Output is buffered
// until Flush is called.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	return &Writer{
		w:   bufio.NewWriter(w),
		cfg: newConfig(opts),
	}
}

// NewMemoryWriter returns a writer that keeps its output in memory. The
// output is available from Bytes and String.
func NewMemoryWriter(opts ...Option) *Writer {
	buf := bytes.NewBuffer(nil)
	w := NewWriter(buf, opts...)
	w.buf = buf
	return w
}

// Write writes a single record.
func (w *Writer) Write(record []byte) error {
	if w.cfg.enc != nil {
		var err error
		if record, err = w.cfg.enc.NewEncoder().Bytes(record); err != nil {
			return errors.Wrapf(err, "fixedwidth: record %d", w.count+1)
		}
	}
	if w.count > 0 {
		if _, err := w.w.Write(w.cfg.separator); err != nil {
			return err
		}
	}
	w.count++
	_, err := w.w.Write(record)
	return err
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Bytes returns the output of a writer made by NewMemoryWriter. It is nil
// for other writers.
func (w *Writer) Bytes() []byte {
	if w.buf == nil {
		return nil
	}
	if err := w.w.Flush(); err != nil {
		return nil
	}
	return w.buf.Bytes()
}

// String returns the output of a memory writer as a string.
func (w *Writer) String() string {
	return string(w.Bytes())
}
