package mock

import (
	"context"

	"github.com/fwojciec/linkopp"
)

var _ linkopp.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of linkopp.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *linkopp.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *linkopp.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
