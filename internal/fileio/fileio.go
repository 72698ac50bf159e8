// Package fileio opens inputs and creates outputs with transparent
// compression. "-" means stdin or stdout.
package fileio

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"go.uber.org/multierr"

	"github.com/KHajji/distle/internal/errs"
)

// Stdio is the path that selects stdin or stdout.
const Stdio = "-"

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// multiReadCloser closes every closer, innermost first, on Close.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}

type multiWriteCloser struct {
	io.Writer
	closers []io.Closer
}

func (m *multiWriteCloser) Close() error {
	var err error
	for _, c := range m.closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// Open returns a reader for path, or for stdin when path is "-". gzip,
// zstd and lz4 are detected by magic number or by .gz, .zst and .lz4
// suffix.
func Open(path string, stdin io.Reader) (io.ReadCloser, error) {
	var (
		src     io.Reader
		closers []io.Closer
	)
	if path == Stdio {
		src = stdin
	} else {
		fh, err := os.Open(path)
		if err != nil {
			return nil, errs.Wrap(err, errs.TypeIO, "open input")
		}
		src = fh
		closers = append(closers, fh)
	}
	fail := func(err error, what string) (io.ReadCloser, error) {
		for _, c := range closers {
			_ = c.Close()
		}
		return nil, errs.Wrap(err, errs.TypeIO, what)
	}

	br := bufio.NewReaderSize(src, 64<<10)
	sig, _ := br.Peek(4)
	switch {
	case bytes.HasPrefix(sig, gzipMagic) || strings.HasSuffix(path, ".gz"):
		gr, err := gzip.NewReader(br)
		if err != nil {
			return fail(err, "open gzip input")
		}
		return &multiReadCloser{Reader: gr, closers: append([]io.Closer{gr}, closers...)}, nil
	case bytes.HasPrefix(sig, zstdMagic) || strings.HasSuffix(path, ".zst"):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return fail(err, "open zstd input")
		}
		return &multiReadCloser{Reader: zr, closers: append([]io.Closer{zr.IOReadCloser()}, closers...)}, nil
	case bytes.HasPrefix(sig, lz4Magic) || strings.HasSuffix(path, ".lz4"):
		return &multiReadCloser{Reader: lz4.NewReader(br), closers: closers}, nil
	}
	return &multiReadCloser{Reader: br, closers: closers}, nil
}

// Create returns a writer for path, or for stdout when path is "-".
// Output is compressed when path ends in .gz, .zst or .lz4. Close flushes
// the compressor before closing the file; stdout is never closed.
func Create(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == Stdio {
		return &multiWriteCloser{Writer: stdout}, nil
	}
	fh, err := os.Create(path)
	if err != nil {
		return nil, errs.Wrap(err, errs.TypeIO, "create output")
	}
	switch {
	case strings.HasSuffix(path, ".gz"):
		gw := gzip.NewWriter(fh)
		return &multiWriteCloser{Writer: gw, closers: []io.Closer{gw, fh}}, nil
	case strings.HasSuffix(path, ".zst"):
		zw, err := zstd.NewWriter(fh)
		if err != nil {
			_ = fh.Close()
			return nil, errs.Wrap(err, errs.TypeIO, "create zstd output")
		}
		return &multiWriteCloser{Writer: zw, closers: []io.Closer{zw, fh}}, nil
	case strings.HasSuffix(path, ".lz4"):
		lw := lz4.NewWriter(fh)
		return &multiWriteCloser{Writer: lw, closers: []io.Closer{lw, fh}}, nil
	}
	return &multiWriteCloser{Writer: fh, closers: []io.Closer{closerFunc(func() error { return syncRegular(fh) }), fh}}, nil
}

// syncRegular flushes fh to disk when it is a regular file. Devices,
// pipes and sockets (/dev/stdout, /dev/fd/N, >(gzip)) reject fsync.
func syncRegular(fh *os.File) error {
	fi, err := fh.Stat()
	if err != nil || !fi.Mode().IsRegular() {
		return nil
	}
	return fh.Sync()
}
