package csvio

import (
	"encoding/csv"
	"io"
)

// Writer implements usecase.RowSink over a CSV stream.
type Writer struct {
	csv *csv.Writer
}

// NewWriter wraps w in a CSV row sink.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// Write appends one record.
func (w *Writer) Write(record []string) error {
	return w.csv.Write(record)
}

// Flush writes buffered records to the underlying writer and reports any
// write error.
func (w *Writer) Flush() error {
	w.csv.Flush()

	return w.csv.Error()
}
