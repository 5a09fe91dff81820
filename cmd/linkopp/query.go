package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/linkopp"
)

// Run executes the query command.
func (c *QueryCmd) Run(deps *Dependencies) error {
	filter := linkopp.OpportunityFilter{PageURL: c.PageURL}

	websiteID, err := linkopp.ParseWebsiteID(c.WebsiteID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linkopp.ErrorMessage(err))
		return err
	}
	filter.WebsiteID = websiteID

	opps, err := deps.Opportunities.FindOpportunities(deps.Ctx, filter)
	if err != nil {
		// Internal causes are shown in full.
		msg := linkopp.ErrorMessage(err)
		if linkopp.ErrorCode(err) == linkopp.EINTERNAL {
			msg = err.Error()
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", msg)
		return err
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(opps)
}
