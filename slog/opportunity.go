package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/linkopp"
)

var (
	_ linkopp.OpportunityService = (*LoggingOpportunityService)(nil)
	_ linkopp.RowSource          = (*LoggingRowSource)(nil)
)

// LoggingOpportunityService wraps an OpportunityService with request logging.
type LoggingOpportunityService struct {
	next   linkopp.OpportunityService
	logger *slog.Logger
}

// NewLoggingOpportunityService creates a new LoggingOpportunityService.
func NewLoggingOpportunityService(next linkopp.OpportunityService, logger *slog.Logger) *LoggingOpportunityService {
	return &LoggingOpportunityService{next: next, logger: logger}
}

// FindOpportunities delegates to the wrapped service and logs the query.
func (s *LoggingOpportunityService) FindOpportunities(ctx context.Context, filter linkopp.OpportunityFilter) (opps []*linkopp.Opportunity, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"page", filter.PageURL,
			"count", len(opps),
			"duration", time.Since(begin),
		}
		if filter.WebsiteID != nil {
			attrs = append(attrs, "websiteId", *filter.WebsiteID)
		}
		if err != nil {
			attrs = append(attrs, "err", err)
		}
		s.logger.Log(ctx, levelFor(err), "find opportunities", attrs...)
	}(time.Now())
	return s.next.FindOpportunities(ctx, filter)
}

// LoggingRowSource wraps a RowSource and logs every dataset load.
type LoggingRowSource struct {
	next   linkopp.RowSource
	name   string
	logger *slog.Logger
}

// NewLoggingRowSource creates a new LoggingRowSource. name identifies the
// source in log lines, typically its path or URL.
func NewLoggingRowSource(next linkopp.RowSource, name string, logger *slog.Logger) *LoggingRowSource {
	return &LoggingRowSource{next: next, name: name, logger: logger}
}

// LoadRows delegates to the wrapped source and logs the load.
func (s *LoggingRowSource) LoadRows(ctx context.Context) (rows []*linkopp.Row, err error) {
	defer func(begin time.Time) {
		s.logger.Log(ctx, levelFor(err), "load dataset",
			"source", s.name,
			"rows", len(rows),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.LoadRows(ctx)
}
