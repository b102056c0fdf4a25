// Package fwfile opens and creates record files, compressing them according
// to their file extension.
package fwfile

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Compression is the compression applied to a file.
type Compression int

const (
	None Compression = iota
	Gzip
	Zstd
	// Snappy uses the snappy framing format.
	Snappy
)

var extensions = map[string]Compression{
	".gz":     Gzip,
	".gzip":   Gzip,
	".zst":    Zstd,
	".zstd":   Zstd,
	".sz":     Snappy,
	".snappy": Snappy,
}

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case Snappy:
		return "snappy"
	}
	return "unknown"
}

// ParseCompression parses the name of a compression as returned by String.
func ParseCompression(s string) (Compression, error) {
	for c := None; c <= Snappy; c++ {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return None, errors.Errorf("fwfile: unknown compression %q", s)
}

// FromPath returns the compression implied by the extension of path.
func FromPath(path string) Compression {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

// Open opens the named file for reading, decompressing it as its extension
// says. The path "-" reads stdin.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(f, FromPath(path))
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "fwfile: open %s", path)
	}
	return &readCloser{Reader: r, closers: []io.Closer{r, f}}, nil
}

// Create creates the named file for writing, compressing it as its
// extension says. The path "-" writes stdout. Close must be called to
// flush the compressed stream.
func Create(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w, err := NewWriter(f, FromPath(path))
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "fwfile: create %s", path)
	}
	return &writeCloser{Writer: w, closers: []io.Closer{w, f}}, nil
}

// NewReader returns a reader decompressing r with c.
func NewReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case None:
		return io.NopCloser(r), nil
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr, nil
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	case Snappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	}
	return nil, errors.Errorf("fwfile: unknown compression %d", c)
}

// NewWriter returns a writer compressing into w with c. Closing the
// returned writer does not close w.
func NewWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case None:
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriter(w), nil
	case Zstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		return enc, nil
	case Snappy:
		return snappy.NewBufferedWriter(w), nil
	}
	return nil, errors.Errorf("fwfile: unknown compression %d", c)
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	return closeAll(r.closers)
}

type writeCloser struct {
	io.Writer
	closers []io.Closer
}

func (w *writeCloser) Close() error {
	return closeAll(w.closers)
}

// closeAll closes every closer in order and returns the first error.
func closeAll(closers []io.Closer) error {
	var first error
	for _, c := range closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
