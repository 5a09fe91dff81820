package mock

import (
	"context"

	"github.com/fwojciec/linkopp"
)

var (
	_ linkopp.OpportunityService = (*OpportunityService)(nil)
	_ linkopp.RowSource          = (*RowSource)(nil)
)

// OpportunityService is a mock implementation of linkopp.OpportunityService.
type OpportunityService struct {
	FindOpportunitiesFn func(ctx context.Context, filter linkopp.OpportunityFilter) ([]*linkopp.Opportunity, error)
}

func (s *OpportunityService) FindOpportunities(ctx context.Context, filter linkopp.OpportunityFilter) ([]*linkopp.Opportunity, error) {
	return s.FindOpportunitiesFn(ctx, filter)
}

// RowSource is a mock implementation of linkopp.RowSource.
type RowSource struct {
	LoadRowsFn func(ctx context.Context) ([]*linkopp.Row, error)
}

func (s *RowSource) LoadRows(ctx context.Context) ([]*linkopp.Row, error) {
	return s.LoadRowsFn(ctx)
}
