// Package manifest reads the CSV parameter file that lists the tables to
// create. Rows are produced lazily, one per call to Next.
package manifest

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pingcap/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	berrors "bulkloader/pkg/errors"
)

// Reader is a single pass over a manifest.
type Reader struct {
	name   string
	csv    *csv.Reader
	header []string
}

// NewReader reads the header row from r. name identifies the manifest in errors.
func NewReader(name string, r io.Reader, blockSize int) (*Reader, error) {
	if blockSize <= 0 {
		blockSize = 4096
	}
	// a leading UTF-8 BOM is dropped, anything else passes through untouched
	decoded := transform.NewReader(r, unicode.BOMOverride(transform.Nop))
	cr := csv.NewReader(bufio.NewReaderSize(decoded, blockSize))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, berrors.ErrManifest.GenWithStackByArgs(name, "no header row")
	}
	if err != nil {
		return nil, berrors.ErrManifest.GenWithStackByArgs(name, err.Error())
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	return &Reader{name: name, csv: cr, header: header}, nil
}

// Header returns the manifest column names.
func (r *Reader) Header() []string {
	return r.header
}

// Next returns the next row, or io.EOF once the manifest is exhausted.
// Missing required columns are not checked here; see Row.Record.
func (r *Reader) Next() (*Row, error) {
	values, err := r.csv.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, berrors.ErrManifest.GenWithStackByArgs(r.name, err.Error())
	}
	line, _ := r.csv.FieldPos(0)
	return NewRow(line, r.header, values), nil
}

// File is a Reader over a local manifest file.
type File struct {
	*Reader
	f *os.File
}

// Open opens a local manifest file and reads its header.
func Open(path string, blockSize int) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, berrors.ErrManifest.GenWithStackByArgs(path, err.Error())
	}
	r, err := NewReader(path, f, blockSize)
	if err != nil {
		f.Close()
		return nil, errors.Trace(err)
	}
	return &File{Reader: r, f: f}, nil
}

func (f *File) Close() error {
	return f.f.Close()
}
