package dataset

import (
	"context"
	"fmt"

	"github.com/fwojciec/linkopp"
)

var _ linkopp.OpportunityService = (*Service)(nil)

// Service implements linkopp.OpportunityService over a Cache.
type Service struct {
	cache *Cache

	// RefreshOnMiss reloads the dataset (subject to the cache's rate limit)
	// when a page is absent from the current snapshot.
	RefreshOnMiss bool
}

// NewService creates a new Service.
func NewService(cache *Cache) *Service {
	return &Service{cache: cache}
}

// FindOpportunities returns the accepted opportunities of a page.
func (s *Service) FindOpportunities(ctx context.Context, filter linkopp.OpportunityFilter) ([]*linkopp.Opportunity, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	snap, err := s.cache.Snapshot(ctx)
	if err != nil {
		return nil, loadError(err)
	}

	if !snap.Pages.MayContain(filter.PageURL) {
		if !s.RefreshOnMiss {
			return []*linkopp.Opportunity{}, nil
		}
		if refreshed, err := s.cache.TryRefresh(ctx); err != nil || !refreshed {
			// The current snapshot stays authoritative.
			return []*linkopp.Opportunity{}, nil
		}
		if snap, err = s.cache.Snapshot(ctx); err != nil {
			return nil, loadError(err)
		}
	}

	return linkopp.FindOpportunities(snap.Rows, filter), nil
}

// loadError reports a dataset load failure as EINTERNAL, keeping the cause
// in the error text only.
func loadError(err error) error {
	return fmt.Errorf("loading dataset: %v", err)
}
