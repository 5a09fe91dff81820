package linkopp

import (
	"context"
	"strconv"
	"strings"
)

// StatusAccepted is the only row status that makes an opportunity visible.
const StatusAccepted = "accepted"

// DefaultType is the opportunity type reported when a row has none.
const DefaultType = "dynamic"

// Row is a single record of the opportunity dataset.
// JSON keys match the dataset column headers. An empty string means the
// field is absent.
type Row struct {
	SourcePageURL   string `json:"Source Page URL,omitempty"`
	TargetPageURL   string `json:"Target Page URL,omitempty"`
	Status          string `json:"Status,omitempty"`
	MatchingText    string `json:"Matching Text,omitempty"`
	Anchor          string `json:"Anchor,omitempty"`
	Type            string `json:"type,omitempty"`
	ID              string `json:"id,omitempty"`
	InjectionStatus string `json:"injectionStatus,omitempty"`

	// RootSiteID keys rows to a website in older datasets.
	RootSiteID string `json:"rootSiteId,omitempty"`
}

// Opportunity is a link-building suggestion as presented to the UI.
type Opportunity struct {
	Target          string `json:"target"`
	Accepted        string `json:"accepted"`
	Anchor          string `json:"anchor"`
	MatchedSentence string `json:"matchedSentence"`
	Status          string `json:"status"`
	Type            string `json:"type"`
	ID              string `json:"id"`
}

// OpportunityFilter selects the opportunities of a single page.
type OpportunityFilter struct {
	PageURL string `json:"pageUrl"`

	// WebsiteID additionally restricts rows by their legacy root site ID.
	WebsiteID *int `json:"websiteId,omitempty"`
}

// Validate returns an error if the filter cannot be queried.
func (f *OpportunityFilter) Validate() error {
	if f.PageURL == "" {
		return Errorf(EINVALID, "Invalid pageUrl")
	}
	return nil
}

// ParseWebsiteID parses the legacy websiteId query value.
// An empty value yields a nil ID.
func ParseWebsiteID(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil, Errorf(EINVALID, "Invalid websiteId")
	}
	return &id, nil
}

// OpportunityService answers opportunity queries.
type OpportunityService interface {
	// FindOpportunities returns the accepted opportunities of a page.
	// Returns EINVALID if the filter is invalid. An unknown page yields an
	// empty slice, not an error.
	FindOpportunities(ctx context.Context, filter OpportunityFilter) ([]*Opportunity, error)
}

// RowSource loads the opportunity dataset.
type RowSource interface {
	// LoadRows returns every row of the dataset in dataset order.
	LoadRows(ctx context.Context) ([]*Row, error)
}
