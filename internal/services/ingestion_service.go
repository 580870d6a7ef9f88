package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/arezooghiami/pahbar/internal/models"
	"github.com/arezooghiami/pahbar/internal/repository"
	"github.com/arezooghiami/pahbar/pkg/logging"
	"github.com/arezooghiami/pahbar/pkg/metrics"
)

// IngestionService handles bulk ingestion of hourly load workbooks
type IngestionService struct {
	repo    repository.LoadRepository
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(repo repository.LoadRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *IngestionService {
	return &IngestionService{
		repo:    repo,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// IngestionResult summarizes a completed ingestion run.
type IngestionResult struct {
	Rows     int           `json:"rows"`
	Records  int           `json:"records"`
	Duration time.Duration `json:"-"`
}

// WorkbookError reports an unreadable or malformed workbook.
type WorkbookError struct {
	Message string
}

func (e *WorkbookError) Error() string {
	return fmt.Sprintf("workbook error: %s", e.Message)
}

func (e *WorkbookError) IsTransient() bool {
	return false
}

// IngestWorkbook parses an xlsx workbook and writes every record it yields
// in a single transaction. A single bad cell rejects the whole upload.
func (s *IngestionService) IngestWorkbook(ctx context.Context, discoID int, r io.Reader) (*IngestionResult, error) {
	start := time.Now()

	table, err := s.ParseWorkbook(r)
	if err != nil {
		s.metrics.RecordUploadRejected("workbook")
		return nil, err
	}

	result, err := s.IngestTable(ctx, discoID, table)
	if err != nil {
		return nil, err
	}
	result.Duration = time.Since(start)

	s.logger.Info(ctx, "[INGEST_WORKBOOK] Workbook ingested", logging.Fields{
		"disco_id":    discoID,
		"rows":        result.Rows,
		"records":     result.Records,
		"duration_ms": result.Duration.Milliseconds(),
	})

	return result, nil
}

// IngestFile ingests a workbook from disk. Used by the CLI ingester.
func (s *IngestionService) IngestFile(ctx context.Context, discoID int, path string) (*IngestionResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return s.IngestWorkbook(ctx, discoID, f)
}

// IngestTable validates a parsed table and writes its records.
func (s *IngestionService) IngestTable(ctx context.Context, discoID int, table models.LoadTable) (*IngestionResult, error) {
	start := time.Now()

	records, err := table.Records(discoID)
	if err != nil {
		s.metrics.RecordUploadRejected("validation")
		s.logger.Warn(ctx, "[INGEST_TABLE] Batch rejected", logging.Fields{
			"disco_id": discoID,
			"rows":     len(table),
			"error":    err.Error(),
		})
		return nil, err
	}

	if err := s.repo.UpsertLoadsBatch(ctx, records); err != nil {
		s.metrics.RecordUploadRejected("database")
		s.metrics.RecordDBError("upsert_loads")
		return nil, fmt.Errorf("failed to write batch: %w", err)
	}

	s.metrics.IngestionDuration.Observe(time.Since(start).Seconds())

	return &IngestionResult{
		Rows:     len(table),
		Records:  len(records),
		Duration: time.Since(start),
	}, nil
}

// ParseWorkbook reads the first sheet of an xlsx workbook into a load table.
// The header row must carry a date column and any subset of H0..H23.
func (s *IngestionService) ParseWorkbook(r io.Reader) (models.LoadTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &WorkbookError{Message: fmt.Sprintf("failed to open workbook: %v", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &WorkbookError{Message: "workbook has no sheets"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &WorkbookError{Message: fmt.Sprintf("failed to read sheet %q: %v", sheets[0], err)}
	}
	if len(rows) == 0 {
		return nil, &WorkbookError{Message: "sheet is empty"}
	}

	dateIdx, hourIdx, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	table := make(models.LoadTable, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}

		var lr models.LoadRow
		if dateIdx < len(row) {
			lr.Date = strings.TrimSpace(row[dateIdx])
		}
		for hour, col := range hourIdx {
			if col >= 0 && col < len(row) {
				lr.Cells[hour] = strings.TrimSpace(row[col])
			}
		}
		table = append(table, lr)
	}

	return table, nil
}

// mapHeader locates the date column and the H0..H23 columns.
func mapHeader(header []string) (int, [models.HoursPerDay]int, error) {
	dateIdx := -1
	var hourIdx [models.HoursPerDay]int
	for h := range hourIdx {
		hourIdx[h] = -1
	}

	for col, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		switch {
		case name == "date" || name == "تاریخ":
			dateIdx = col
		case strings.HasPrefix(name, "h"):
			var hour int
			if _, err := fmt.Sscanf(name, "h%d", &hour); err == nil && hour >= 0 && hour < models.HoursPerDay {
				hourIdx[hour] = col
			}
		}
	}

	if dateIdx < 0 {
		return 0, hourIdx, &WorkbookError{Message: "header row has no date column"}
	}
	return dateIdx, hourIdx, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
