package main

import (
	"fmt"

	"github.com/fwojciec/linkopp"
	"github.com/fwojciec/linkopp/gin"
	gingonic "github.com/gin-gonic/gin"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	gingonic.SetMode(gingonic.ReleaseMode)

	if deps.Cache != nil {
		if err := deps.Cache.Refresh(deps.Ctx); err != nil {
			fmt.Fprintf(deps.Stderr, "error: loading dataset: %s\n", linkopp.ErrorMessage(err))
			return fmt.Errorf("loading dataset: %w", err)
		}
		if c.RefreshInterval > 0 {
			go deps.Cache.Run(deps.Ctx, c.RefreshInterval)
		}
	}

	srv := gin.NewServer(c.Addr, deps.Opportunities, deps.Logger)
	return srv.Run(deps.Ctx)
}
