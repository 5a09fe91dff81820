package linkopp

import (
	"strconv"
	"strings"
)

// Select returns the accepted rows recorded for pageURL, in dataset order.
// The caller must reject an empty pageURL beforehand.
func Select(rows []*Row, pageURL string) []*Row {
	return SelectFilter(rows, OpportunityFilter{PageURL: pageURL})
}

// SelectFilter is like Select but also honours the legacy website ID.
func SelectFilter(rows []*Row, filter OpportunityFilter) []*Row {
	selected := []*Row{}
	for _, row := range rows {
		if row.SourcePageURL != filter.PageURL || row.Status != StatusAccepted {
			continue
		}
		if filter.WebsiteID != nil && !matchesWebsite(row, *filter.WebsiteID) {
			continue
		}
		selected = append(selected, row)
	}
	return selected
}

func matchesWebsite(row *Row, websiteID int) bool {
	id, err := strconv.Atoi(strings.TrimSpace(row.RootSiteID))
	return err == nil && id == websiteID
}

// GetOpportunities selects the accepted rows of pageURL and extracts an
// Opportunity from each of them.
func GetOpportunities(pageURL string, rows []*Row) []*Opportunity {
	return FindOpportunities(rows, OpportunityFilter{PageURL: pageURL})
}

// FindOpportunities is like GetOpportunities but takes a full filter.
func FindOpportunities(rows []*Row, filter OpportunityFilter) []*Opportunity {
	selected := SelectFilter(rows, filter)
	opps := make([]*Opportunity, 0, len(selected))
	for _, row := range selected {
		opps = append(opps, Extract(row))
	}
	return opps
}
