package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var utf8BOM = []byte("\xef\xbb\xbf")

type csvParser struct {
	comma    rune
	suffixes []string
}

func (p csvParser) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	for _, s := range p.suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

// Parse reads every record. Field counts may differ between rows; shape is
// checked later, when the table is turned into columns.
func (p csvParser) Parse(content []byte) ([][]string, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	r := csv.NewReader(bytes.NewReader(content))
	r.Comma = p.comma
	r.FieldsPerRecord = -1
	if p.comma == '\t' {
		r.LazyQuotes = true
	}
	var rows [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}
