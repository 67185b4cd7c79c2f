package sources

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// CSVSource reads delimited text, typically a spreadsheet exported as CSV.
// The first line holds the column headers; blank lines are skipped and every
// field is trimmed.
type CSVSource struct {
	baseSource
	Delimiter string
	Regions   bool
}

func (s *CSVSource) Load(ctx context.Context) (Dataset, error) {
	body, err := s.read(ctx)
	if err != nil {
		return Dataset{}, err
	}
	return s.parse(body)
}

func (s *CSVSource) parse(body []byte) (Dataset, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	if s.Delimiter != "" {
		d, size := utf8.DecodeRuneInString(s.Delimiter)
		if size != len(s.Delimiter) {
			return Dataset{}, fmt.Errorf("%s: delimiter must be a single character, got %q", s.name, s.Delimiter)
		}
		r.Comma = d
	}

	cols, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Dataset{}, fmt.Errorf("%s: empty document", s.name)
		}
		return Dataset{}, fmt.Errorf("%s: read header: %w", s.name, err)
	}
	h := newHeader(cols)
	if err := h.validate(s.Regions); err != nil {
		return Dataset{}, fmt.Errorf("%s: %w", s.name, err)
	}

	var ds Dataset
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Dataset{}, fmt.Errorf("%s: %w", s.name, err)
		}
		line, _ := r.FieldPos(0)
		part := h.rows(s.name, [][]string{row}, line, s.Regions)
		ds.Places = append(ds.Places, part.Places...)
		ds.Regions = append(ds.Regions, part.Regions...)
	}
	return ds, nil
}
