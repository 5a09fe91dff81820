package main

import (
	"fmt"
	"regexp"

	"github.com/fwojciec/linkopp"
)

// Run executes the coverage command.
func (c *CoverageCmd) Run(deps *Dependencies) error {
	filter, err := c.urlFilter()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linkopp.ErrorMessage(err))
		return err
	}

	pages, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, c.SiteURL, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linkopp.ErrorMessage(err))
		return err
	}
	if len(pages) == 0 {
		fmt.Fprintf(deps.Stdout, "No sitemap pages found for %s\n", c.SiteURL)
		return nil
	}

	rows, err := deps.Cache.Rows(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: loading dataset: %s\n", linkopp.ErrorMessage(err))
		return err
	}

	var covered int
	for _, pc := range linkopp.Coverage(pages, rows) {
		if pc.Opportunities > 0 {
			covered++
			if c.MissingOnly {
				continue
			}
		}
		fmt.Fprintf(deps.Stdout, "%4d  %s\n", pc.Opportunities, pc.URL)
	}
	fmt.Fprintf(deps.Stdout, "\n%d of %d pages have accepted opportunities\n", covered, len(pages))
	return nil
}

func (c *CoverageCmd) urlFilter() (*linkopp.URLFilter, error) {
	if len(c.Filter) == 0 && len(c.Exclude) == 0 {
		return nil, nil
	}
	filter := &linkopp.URLFilter{}
	for _, p := range c.Filter {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, linkopp.Errorf(linkopp.EINVALID, "invalid filter pattern %q: %s", p, err)
		}
		filter.Include = append(filter.Include, re)
	}
	for _, p := range c.Exclude {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, linkopp.Errorf(linkopp.EINVALID, "invalid exclude pattern %q: %s", p, err)
		}
		filter.Exclude = append(filter.Exclude, re)
	}
	return filter, nil
}
