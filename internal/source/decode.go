package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"flixviz/internal/models"

	"github.com/xuri/excelize/v2"
)

var zipMagic = []byte("PK\x03\x04")

// Decode parses dataset bytes. Workbooks are recognised by their zip
// signature or an .xlsx extension; everything else is read as CSV.
func Decode(data []byte, location string) ([]models.Record, error) {
	if bytes.HasPrefix(data, zipMagic) || strings.EqualFold(filepath.Ext(location), ".xlsx") {
		return DecodeXLSX(data)
	}
	return DecodeCSV(data)
}

// DecodeCSV reads a CSV document whose first row names the fields.
// Short rows leave the missing fields unset.
func DecodeCSV(data []byte) ([]models.Record, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrMalformedSource)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrMalformedSource, err)
	}
	header = normalizeHeader(header)

	records := []models.Record{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedSource, err)
		}
		records = append(records, toRecord(header, row))
	}
	return records, nil
}

// DecodeXLSX reads the first sheet of a workbook whose first row names the fields
func DecodeXLSX(data []byte) ([]models.Record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: opening workbook: %v", ErrMalformedSource, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformedSource)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %q: %v", ErrMalformedSource, sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q has no header row", ErrMalformedSource, sheets[0])
	}

	header := normalizeHeader(rows[0])
	records := make([]models.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, toRecord(header, row))
	}
	return records, nil
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func toRecord(header, row []string) models.Record {
	r := make(models.Record, len(header))
	for i, name := range header {
		if name == "" {
			continue
		}
		if i < len(row) {
			r[name] = row[i]
		} else {
			r[name] = ""
		}
	}
	return r
}
