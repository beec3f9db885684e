package system

import (
	"fmt"

	"github.com/flowday/flowday/internal/cli"
)

type CacheCmd struct {
	Clear CacheClearCmd `cmd:"" help:"Drop every cached API response." default:"1"`
}

type CacheClearCmd struct{}

func (c *CacheClearCmd) Run(ctx *cli.Context) error {
	n, err := ctx.Cache.Purge()
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	ctx.Printf("Cleared %d cached response(s).\n", n)
	return nil
}
