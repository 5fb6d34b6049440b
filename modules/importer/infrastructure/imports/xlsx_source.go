package imports

import (
	"bytes"

	"github.com/xuri/excelize/v2"

	"github.com/meridianhq/meridian-erp/modules/importer/domain/importer"
)

// XLSXSource reads the first sheet of a workbook; the first row is the
// header.
type XLSXSource struct {
	data []byte
}

func NewXLSXSource(data []byte) *XLSXSource {
	return &XLSXSource{data: data}
}

func (s *XLSXSource) Rows() ([]importer.Record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(s.data))
	if err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Reason: "workbook has no sheets"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &ParseError{Reason: err.Error()}
	}
	return recordsFromRows(rows), nil
}
