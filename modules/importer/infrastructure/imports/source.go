// Package imports decodes uploaded files into header-keyed records.
package imports

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/meridianhq/meridian-erp/modules/importer/domain/importer"
)

// ParseError reports a structurally unreadable upload. The job runner treats
// it as fatal for the whole job, as opposed to row-level failures.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse input: %s", e.Reason)
}

// RowSource decodes the whole upload in one pass. The row count is known as
// soon as Rows returns, which is what lets a job report its total up front.
type RowSource interface {
	Rows() ([]importer.Record, error)
}

// SourceForUpload picks a decoder by file extension. Content sniffing has
// already happened at submission time; the extension decides the decoder.
func SourceForUpload(filename string, data []byte) (RowSource, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return NewXLSXSource(data), nil
	case ".csv":
		return NewCSVSource(data), nil
	default:
		return nil, fmt.Errorf("unsupported file extension %q", filepath.Ext(filename))
	}
}

// recordsFromRows applies the header-row convention shared by both decoders:
// the first row names the columns and every following row becomes one
// Record. Only trailing blank rows are dropped; an interior blank row keeps
// its slot so row numbers in job errors match the source file.
func recordsFromRows(rows [][]string) []importer.Record {
	if len(rows) == 0 {
		return []importer.Record{}
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	records := make([]importer.Record, 0, len(rows)-1)
	lastNonBlank := 0
	for _, row := range rows[1:] {
		blank := true
		rec := make(importer.Record, len(headers))
		for i, header := range headers {
			if header == "" || i >= len(row) {
				continue
			}
			rec[header] = row[i]
			if strings.TrimSpace(row[i]) != "" {
				blank = false
			}
		}
		records = append(records, rec)
		if !blank {
			lastNonBlank = len(records)
		}
	}
	return records[:lastNonBlank]
}
