package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/arezooghiami/pahbar/internal/jalali"
	"github.com/arezooghiami/pahbar/internal/models"
	"github.com/arezooghiami/pahbar/internal/repository"
	"github.com/arezooghiami/pahbar/pkg/logging"
	"github.com/arezooghiami/pahbar/pkg/metrics"
)

// WindowService computes next-upload date windows
type WindowService struct {
	repo    repository.LoadRepository
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewWindowService creates a new window service
func NewWindowService(repo repository.LoadRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *WindowService {
	return &WindowService{
		repo:    repo,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// NextDates suggests the date window for the disco's next upload. It returns
// nil when the disco has no records yet.
func (s *WindowService) NextDates(ctx context.Context, discoID int) (*models.DateWindow, error) {
	summary, err := s.repo.GetDateSummary(ctx, discoID)
	if err != nil {
		s.metrics.RecordDBError("get_date_summary")
		s.metrics.RecordWindowQuery("error")
		return nil, fmt.Errorf("failed to get date summary: %w", err)
	}

	window, err := models.ComputeNextWindow(summary, jalali.Today())
	if err != nil {
		// An inconsistent window means corrupt stored dates. Log the detail,
		// surface a generic failure.
		var werr *models.WindowError
		if errors.As(err, &werr) {
			s.logger.Error(ctx, "[NEXT_DATES] Window invariant violated", logging.Fields{
				"disco_id": discoID,
			}, err)
		}
		s.metrics.RecordWindowQuery("error")
		return nil, fmt.Errorf("failed to compute next window: %w", err)
	}

	if window == nil {
		s.metrics.RecordWindowQuery("empty")
		return nil, nil
	}

	s.metrics.RecordWindowQuery("window")
	return window, nil
}
