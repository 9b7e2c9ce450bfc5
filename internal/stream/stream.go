// Package stream opens GFF inputs and outputs by path. It handles "-" for
// stdin and stdout, "~" expansion, and transparent gzip or xz compression.
package stream

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/ulikunitz/xz"
)

// StdioPath names stdin for Open and stdout for Create.
const StdioPath = "-"

// Compression identifies a stream's compression format.
type Compression int

const (
	// None is an uncompressed stream.
	None Compression = iota
	// Gzip is a gzip stream.
	Gzip
	// XZ is an xz stream.
	XZ
)

func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case XZ:
		return "xz"
	default:
		return "none"
	}
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// Detect identifies compression from the leading bytes of a stream, falling
// back to the path suffix when the header is too short to tell. An empty
// stream is uncompressed.
func Detect(header []byte, path string) Compression {
	switch {
	case bytes.HasPrefix(header, xzMagic):
		return XZ
	case bytes.HasPrefix(header, gzipMagic):
		return Gzip
	case len(header) == 0, len(header) >= len(xzMagic):
		return None
	}
	return FromSuffix(path)
}

// FromSuffix maps a ".gz" or ".xz" file name suffix to its compression.
func FromSuffix(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return Gzip
	case ".xz":
		return XZ
	default:
		return None
	}
}

// countingReader counts the bytes read from the raw source.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Reader is a decompressed input stream.
type Reader struct {
	io.Reader
	Path        string
	Compression Compression

	raw     *countingReader
	closers []io.Closer
}

// Open opens path for reading, or stdin when path is "-". Compression is
// detected from the magic number.
func Open(path string, stdin io.Reader) (*Reader, error) {
	if err := ValidatePath(path); err != nil {
		return nil, fmt.Errorf("invalid input path: %w", err)
	}
	var src io.Reader
	var closers []io.Closer

	if path == StdioPath {
		src = stdin
	} else {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, fmt.Errorf("expand path %q: %w", path, err)
		}
		f, err := os.Open(expanded)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		src = f
		closers = append(closers, f)
	}

	raw := &countingReader{r: src}
	br := bufio.NewReader(raw)
	// A short peek just means a short stream.
	header, _ := br.Peek(len(xzMagic))

	r := &Reader{
		Path:        path,
		Compression: Detect(header, path),
		raw:         raw,
	}

	switch r.Compression {
	case Gzip:
		gzr, err := gzip.NewReader(br)
		if err != nil {
			closeAll(closers)
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		r.Reader = gzr
		closers = append([]io.Closer{gzr}, closers...)
	case XZ:
		xzr, err := xz.NewReader(br)
		if err != nil {
			closeAll(closers)
			return nil, fmt.Errorf("xz reader: %w", err)
		}
		r.Reader = xzr // xz reader doesn't need closing
	default:
		r.Reader = br
	}
	r.closers = closers
	return r, nil
}

// BytesRead returns how many raw, possibly compressed, bytes have been
// consumed from the source.
func (r *Reader) BytesRead() int64 {
	return r.raw.n
}

// Close closes the decompressor and the underlying file. Stdin is left open.
func (r *Reader) Close() error {
	return closeAll(r.closers)
}

// Writer is a buffered, optionally compressed output stream.
type Writer struct {
	*bufio.Writer
	Path        string
	Compression Compression

	closers []io.Closer
}

// Create opens path for writing, or stdout when path is "-". A ".gz" or
// ".xz" suffix compresses the output. Parent directories are created.
func Create(path string, stdout io.Writer) (*Writer, error) {
	if err := ValidatePath(path); err != nil {
		return nil, fmt.Errorf("invalid output path: %w", err)
	}
	var dst io.Writer
	var closers []io.Closer
	w := &Writer{Path: path}

	if path == StdioPath {
		dst = stdout
	} else {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, fmt.Errorf("expand path %q: %w", path, err)
		}
		if err := os.MkdirAll(filepath.Dir(expanded), 0755); err != nil {
			return nil, fmt.Errorf("failed to create parent directory: %w", err)
		}
		f, err := os.Create(expanded)
		if err != nil {
			return nil, fmt.Errorf("create output: %w", err)
		}
		dst = f
		closers = append(closers, f)
		w.Compression = FromSuffix(path)
	}

	switch w.Compression {
	case Gzip:
		gzw := gzip.NewWriter(dst)
		dst = gzw
		closers = append([]io.Closer{gzw}, closers...)
	case XZ:
		xzw, err := xz.NewWriter(dst)
		if err != nil {
			closeAll(closers)
			return nil, fmt.Errorf("xz writer: %w", err)
		}
		dst = xzw
		closers = append([]io.Closer{xzw}, closers...)
	}

	w.Writer = bufio.NewWriter(dst)
	w.closers = closers
	return w, nil
}

// Close flushes buffered output, finishes the compressed stream and closes
// the file. Stdout is flushed but left open.
func (w *Writer) Close() error {
	err := w.Flush()
	if cerr := closeAll(w.closers); err == nil {
		err = cerr
	}
	return err
}

// closeAll closes every closer in order and returns the first error.
func closeAll(closers []io.Closer) error {
	var err error
	for _, c := range closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
