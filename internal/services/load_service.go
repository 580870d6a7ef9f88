package services

import (
	"context"
	"fmt"
	"time"

	"github.com/arezooghiami/pahbar/internal/jalali"
	"github.com/arezooghiami/pahbar/internal/models"
	"github.com/arezooghiami/pahbar/internal/repository"
	"github.com/arezooghiami/pahbar/pkg/logging"
	"github.com/arezooghiami/pahbar/pkg/metrics"
)

// LoadService serves hourly load retrieval queries
type LoadService struct {
	repo    repository.LoadRepository
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewLoadService creates a new load service
func NewLoadService(repo repository.LoadRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *LoadService {
	return &LoadService{
		repo:    repo,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// FetchDays returns the hourly loads of the local days containing the given
// unix timestamps, one row per day with slots H0..H23. Days with no records
// are omitted.
func (s *LoadService) FetchDays(ctx context.Context, discoID int, timestamps []int64) ([]*models.DayLoads, error) {
	// Widen each instant to its local day and drop duplicates.
	seen := make(map[jalali.Date]bool, len(timestamps))
	days := make([]jalali.Date, 0, len(timestamps))
	for _, ts := range timestamps {
		d := jalali.DateOf(time.Unix(ts, 0))
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}

	var records []*models.HourlyLoad
	for _, d := range days {
		from := d.Time()
		to := d.AddDays(1).Time()

		loads, err := s.repo.GetLoads(ctx, discoID, from, to)
		if err != nil {
			s.metrics.RecordDBError("get_loads")
			return nil, fmt.Errorf("failed to fetch loads for %s: %w", d, err)
		}
		records = append(records, loads...)
	}

	s.logger.Debug(ctx, "[FETCH_DAYS] Loads fetched", logging.Fields{
		"disco_id": discoID,
		"days":     len(days),
		"records":  len(records),
	})

	return models.FormatDayLoads(records), nil
}

// LastAvailableDate returns the local date of the disco's most recent record,
// or the empty string when the disco has none.
func (s *LoadService) LastAvailableDate(ctx context.Context, discoID int) (string, error) {
	summary, err := s.repo.GetDateSummary(ctx, discoID)
	if err != nil {
		s.metrics.RecordDBError("get_date_summary")
		return "", fmt.Errorf("failed to get date summary: %w", err)
	}
	if summary == nil {
		return "", nil
	}
	return jalali.DateOf(summary.LastDate).String(), nil
}
