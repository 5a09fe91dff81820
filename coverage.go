package linkopp

import (
	"context"
	"regexp"
)

// SitemapService lists the pages a website publishes in its sitemaps.
type SitemapService interface {
	// DiscoverURLs returns the page URLs of the site at baseURL.
	// A nil filter keeps every URL.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// URLFilter keeps URLs matching any Include pattern (or all URLs when there
// are none) and not matching any Exclude pattern.
type URLFilter struct {
	Include []*regexp.Regexp
	Exclude []*regexp.Regexp
}

// Match reports whether url passes the filter. A nil filter passes everything.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}
	if len(f.Include) > 0 && !matchAny(f.Include, url) {
		return false
	}
	return !matchAny(f.Exclude, url)
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// PageCoverage is the number of accepted opportunities recorded for a page.
type PageCoverage struct {
	URL           string `json:"url"`
	Opportunities int    `json:"opportunities"`
}

// Coverage counts the accepted opportunities of each page, in page order.
// Pages without opportunities are reported with a zero count.
func Coverage(pages []string, rows []*Row) []PageCoverage {
	counts := make(map[string]int)
	for _, row := range rows {
		if row.Status == StatusAccepted {
			counts[row.SourcePageURL]++
		}
	}

	coverage := make([]PageCoverage, 0, len(pages))
	for _, page := range pages {
		coverage = append(coverage, PageCoverage{URL: page, Opportunities: counts[page]})
	}
	return coverage
}
