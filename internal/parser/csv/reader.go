// Package csv adapts the delimited-text tokenizer and writer used by the
// scrub pipeline. The reader splits a byte stream into records of fields
// given a delimiter and an optional quote convention, tolerating variable
// field counts per record; the writer always emits one fixed, normalized
// convention (comma delimiter, double-quote quoting) regardless of how the
// input was configured.
//
// Both sides use large buffers to amortize system-call overhead on
// multi-gigabyte inputs; buffer size is a tuning parameter, not a
// correctness concern.
package csv

import (
	"bufio"
	"bytes"
	stdcsv "encoding/csv"
	"io"
	"strings"
)

// DefaultBufferSize is used for input and output buffering when the caller
// does not specify a size.
const DefaultBufferSize = 256 * 1024

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReaderOptions configures a Reader. All records are returned regardless of
// field count ("flexible" mode); width enforcement belongs to the pipeline.
type ReaderOptions struct {
	// Comma is the field delimiter byte.
	Comma byte

	// Quoted selects quote processing. When true, fields follow the usual
	// double-quote convention (lenient about stray quotes). When false, quote
	// bytes have no special meaning at all and records are split on raw
	// delimiter bytes.
	Quoted bool

	// BufferSize is the read buffer size; DefaultBufferSize when <= 0.
	BufferSize int
}

// Reader tokenizes a byte stream into records. It also counts the raw input
// bytes consumed, which the caller uses for throughput reporting.
type Reader struct {
	count *countingReader
	br    *bufio.Reader
	cr    *stdcsv.Reader // quoted mode
	comma byte           // raw mode
	raw   bool
}

// NewReader wraps r with a tokenizer configured by opt. A leading UTF-8 BOM
// is discarded so it can never pollute the first header cell.
func NewReader(r io.Reader, opt ReaderOptions) *Reader {
	size := opt.BufferSize
	if size <= 0 {
		size = DefaultBufferSize
	}
	count := &countingReader{r: r}
	br := bufio.NewReaderSize(count, size)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	rdr := &Reader{count: count, br: br, comma: opt.Comma, raw: !opt.Quoted}
	if opt.Quoted {
		cr := stdcsv.NewReader(br)
		cr.Comma = rune(opt.Comma)
		// The pipeline classifies short/long records itself; a mismatched
		// width must not be a parse error here.
		cr.FieldsPerRecord = -1
		cr.LazyQuotes = true
		rdr.cr = cr
	}
	return rdr
}

// Read returns the next record. It returns io.EOF when the input is
// exhausted; any other error means the tokenizer lost framing and the run
// cannot safely continue.
func (r *Reader) Read() ([]string, error) {
	if r.raw {
		return r.readRaw()
	}
	return r.cr.Read()
}

// BytesRead reports the raw input bytes consumed so far, including any BOM.
func (r *Reader) BytesRead() uint64 { return r.count.n }

// readRaw splits physical lines on the delimiter byte with no quote
// processing. Line terminators are LF or CRLF; blank lines are skipped, the
// same as the quoted tokenizer does.
func (r *Reader) readRaw() ([]string, error) {
	for {
		line, err := r.br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		atEOF := err == io.EOF

		if strings.HasSuffix(line, "\n") {
			line = line[:len(line)-1]
			if strings.HasSuffix(line, "\r") {
				line = line[:len(line)-1]
			}
		}
		if line == "" {
			if atEOF {
				return nil, io.EOF
			}
			continue
		}
		return strings.Split(line, string(r.comma)), nil
	}
}

// countingReader tracks bytes consumed from the underlying source. It sits
// below the read buffer, so at end of stream the count equals the total
// input size.
type countingReader struct {
	r io.Reader
	n uint64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += uint64(n)
	return n, err
}
