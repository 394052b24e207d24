package csv

import (
	"bufio"
	stdcsv "encoding/csv"
	"io"
)

// Writer serializes records using the fixed output convention: comma
// delimiter, double-quote quoting applied exactly when a field needs it, LF
// record terminator. Output always round-trips as valid input to a Reader
// with the same convention.
type Writer struct {
	bw *bufio.Writer
	cw *stdcsv.Writer
}

// NewWriter returns a Writer buffering into w. bufferSize defaults to
// DefaultBufferSize when <= 0.
func NewWriter(w io.Writer, bufferSize int) *Writer {
	size := bufferSize
	if size <= 0 {
		size = DefaultBufferSize
	}
	bw := bufio.NewWriterSize(w, size)
	return &Writer{bw: bw, cw: stdcsv.NewWriter(bw)}
}

// Write serializes one record.
func (w *Writer) Write(record []string) error {
	return w.cw.Write(record)
}

// Flush drains both the CSV encoder and the byte buffer. It must be called
// before the run outcome is decided; a failed flush is an I/O error for the
// whole run.
func (w *Writer) Flush() error {
	w.cw.Flush()
	if err := w.cw.Error(); err != nil {
		return err
	}
	return w.bw.Flush()
}
