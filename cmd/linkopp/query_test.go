package main_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/linkopp"
	main "github.com/fwojciec/linkopp/cmd/linkopp"
	"github.com/fwojciec/linkopp/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints opportunities as JSON", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		var got linkopp.OpportunityFilter
		deps.Opportunities = &mock.OpportunityService{
			FindOpportunitiesFn: func(_ context.Context, filter linkopp.OpportunityFilter) ([]*linkopp.Opportunity, error) {
				got = filter
				return []*linkopp.Opportunity{{Target: "https://b.com/y", Anchor: "a & b", Type: "dynamic", ID: "1"}}, nil
			},
		}

		cmd := &main.QueryCmd{PageURL: "https://a.com/x", WebsiteID: "3"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "https://a.com/x", got.PageURL)
		require.NotNil(t, got.WebsiteID)
		assert.Equal(t, 3, *got.WebsiteID)
		assert.JSONEq(t, `[{"target":"https://b.com/y","accepted":"","anchor":"a & b","matchedSentence":"","status":"","type":"dynamic","id":"1"}]`, stdout.String())
		assert.Contains(t, stdout.String(), "a & b")
	})

	t.Run("prints empty array for unknown page", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		deps.Opportunities = &mock.OpportunityService{
			FindOpportunitiesFn: func(_ context.Context, _ linkopp.OpportunityFilter) ([]*linkopp.Opportunity, error) {
				return []*linkopp.Opportunity{}, nil
			},
		}

		err := (&main.QueryCmd{PageURL: "https://unknown.com"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "[]\n", stdout.String())
	})

	t.Run("rejects invalid website ID", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()

		err := (&main.QueryCmd{PageURL: "https://a.com", WebsiteID: "abc"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, linkopp.EINVALID, linkopp.ErrorCode(err))
		assert.Contains(t, stderr.String(), "Invalid websiteId")
	})

	t.Run("reports service errors", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()
		deps.Opportunities = &mock.OpportunityService{
			FindOpportunitiesFn: func(_ context.Context, _ linkopp.OpportunityFilter) ([]*linkopp.Opportunity, error) {
				return nil, errors.New("boom")
			},
		}

		err := (&main.QueryCmd{PageURL: "https://a.com"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, "error: boom\n", stderr.String())
	})
}
