package imports

import (
	"bytes"
	"encoding/csv"

	"github.com/meridianhq/meridian-erp/modules/importer/domain/importer"
)

// CSVSource reads comma-separated input; the first row is the header. Rows
// may have fewer fields than the header (trailing blanks omitted).
type CSVSource struct {
	data []byte
}

func NewCSVSource(data []byte) *CSVSource {
	return &CSVSource{data: data}
}

func (s *CSVSource) Rows() ([]importer.Record, error) {
	r := csv.NewReader(bytes.NewReader(s.data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}
	return recordsFromRows(rows), nil
}
