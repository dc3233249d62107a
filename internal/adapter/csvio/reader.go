// Package csvio adapts encoding/csv files to the tabular row ports used by
// the import and export use cases.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
	"github.com/hassanafridi/med-rep-sub001/internal/usecase"
)

// Reader implements usecase.RowSource over a CSV stream.
type Reader struct {
	csv *csv.Reader
}

// NewReader wraps r in a CSV row source. Rows may have varying field
// counts; the import layer validates per field.
func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	return &Reader{csv: cr}
}

// Read returns the next record, or io.EOF at end of input.
func (r *Reader) Read() ([]string, error) {
	return r.csv.Read()
}

// ReadHeader consumes the first record and builds a field mapping from it.
// Header names are lower-cased and spaces become underscores, so
// "Unit Price" maps the unit_price field.
func (r *Reader) ReadHeader() (usecase.FieldMapping, error) {
	header, err := r.csv.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty file, no header row", domain.ErrValidation)
		}

		return nil, err
	}

	mapping := make(usecase.FieldMapping, len(header))
	for i, name := range header {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
		if key == "" {
			continue
		}

		mapping[key] = i
	}

	return mapping, nil
}
