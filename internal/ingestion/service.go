package ingestion

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jmswain/listquery/internal/domain"
	"github.com/jmswain/listquery/internal/query"
	"github.com/jmswain/listquery/internal/store"
)

// ErrUnsupportedFormat is returned when an uploaded file is neither
// xlsx nor csv.
var ErrUnsupportedFormat = errors.New("unsupported file format")

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// Request describes one bulk load: a tabular file whose header row
// names the record fields.
type Request struct {
	Collection string
	FileName   string
	Data       io.Reader
	DateFields []string
}

// Summary reports what a bulk load did.
type Summary struct {
	Fields      []string `json:"fields"`
	RowsTotal   int      `json:"rows_total"`
	RowsCreated int      `json:"rows_created"`
}

// Service ingests tabular data into a record collection.
type Service struct {
	store store.RecordStore
}

// NewService creates an ingestion service over the store.
func NewService(recordStore store.RecordStore) *Service {
	return &Service{store: recordStore}
}

// Ingest parses the upload and bulk-creates one record per data row.
// Rows are projected through the field allowlist derived from the
// header, so blank cells are dropped and date columns are normalized.
func (s *Service) Ingest(ctx context.Context, req Request) (Summary, error) {
	if strings.TrimSpace(req.Collection) == "" {
		return Summary{}, errors.New("collection is required")
	}

	payload, err := io.ReadAll(req.Data)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to read upload: %w", err)
	}

	var rows [][]string
	switch strings.ToLower(filepath.Ext(req.FileName)) {
	case ".xlsx":
		rows, err = readWorkbook(payload)
	case ".csv":
		rows, err = readCSV(payload)
	default:
		return Summary{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, req.FileName)
	}
	if err != nil {
		return Summary{}, err
	}

	headers, dataRows, err := splitHeader(rows)
	if err != nil {
		return Summary{}, err
	}

	records := make([]domain.Record, 0, len(dataRows))
	for _, row := range dataRows {
		raw := make(map[string]any, len(headers))
		for i, header := range headers {
			if i >= len(row) {
				break
			}
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			raw[header] = cell
		}

		fields := query.Project(raw, headers, req.DateFields)
		if len(fields) == 0 {
			continue
		}
		records = append(records, domain.NewRecord(req.Collection, fields))
	}

	if err := s.store.CreateMany(ctx, records); err != nil {
		return Summary{}, fmt.Errorf("failed to store ingested records: %w", err)
	}

	return Summary{
		Fields:      headers,
		RowsTotal:   len(dataRows),
		RowsCreated: len(records),
	}, nil
}

func readWorkbook(payload []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from xlsx: %w", err)
	}
	return rows, nil
}

func readCSV(payload []byte) ([][]string, error) {
	payload = bytes.TrimPrefix(payload, byteOrderMark)

	reader := csv.NewReader(bytes.NewReader(payload))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return rows, nil
}

// splitHeader finds the first non-empty row, treats it as the header,
// and returns the remaining non-empty rows as data.
func splitHeader(rows [][]string) ([]string, [][]string, error) {
	var headers []string
	var dataRows [][]string

	for _, row := range rows {
		if rowEmpty(row) {
			continue
		}
		if headers == nil {
			headers = make([]string, len(row))
			for i, cell := range row {
				headers[i] = strings.TrimSpace(cell)
			}
			continue
		}
		dataRows = append(dataRows, row)
	}

	if headers == nil {
		return nil, nil, errors.New("header row could not be detected")
	}
	return headers, dataRows, nil
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
