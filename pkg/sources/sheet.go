package sources

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// SheetSource reads the first HTML table of a published spreadsheet page.
type SheetSource struct {
	baseSource
	Regions bool
}

func (s *SheetSource) Load(ctx context.Context) (Dataset, error) {
	body, err := s.read(ctx)
	if err != nil {
		return Dataset{}, err
	}
	return s.parse(body)
}

func (s *SheetSource) parse(body []byte) (Dataset, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Dataset{}, fmt.Errorf("%s: parse html: %w", s.name, err)
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return Dataset{}, fmt.Errorf("%s: no table found", s.name)
	}

	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var row []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			row = append(row, cell.Text())
		})
		// Published sheets prefix each row with a row-number header cell.
		if len(row) > 0 && tr.Find("th").Length() == 1 && tr.Find("td").Length() > 0 {
			row = row[1:]
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	})
	if len(rows) == 0 {
		return Dataset{}, fmt.Errorf("%s: table is empty", s.name)
	}

	// The header is the first row naming the required columns; published
	// sheets put a row of column letters above it.
	var lastErr error
	for i, row := range rows {
		h := newHeader(row)
		if lastErr = h.validate(s.Regions); lastErr == nil {
			return h.rows(s.name, rows[i+1:], i+2, s.Regions), nil
		}
	}
	return Dataset{}, fmt.Errorf("%s: %w", s.name, lastErr)
}
