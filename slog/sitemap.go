package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/linkopp"
)

// Ensure LoggingSitemapService implements linkopp.SitemapService.
var _ linkopp.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with logging.
type LoggingSitemapService struct {
	next   linkopp.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next linkopp.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs logs the site, the number of pages kept by the filter and
// the filter's pattern counts.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *linkopp.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"site", baseURL,
			"pages", len(urls),
			"duration", time.Since(begin),
		}
		if filter != nil {
			attrs = append(attrs, "include", len(filter.Include), "exclude", len(filter.Exclude))
		}
		if err != nil {
			attrs = append(attrs, "err", err)
		}
		s.logger.Log(ctx, levelFor(err), "discover sitemap pages", attrs...)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}
