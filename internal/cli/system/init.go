package system

import (
	"fmt"
	"os"

	"github.com/flowday/flowday/internal/cli"
	"github.com/flowday/flowday/internal/storage"
)

type InitCmd struct {
	Force bool `help:"Delete an existing local database before initializing (SQLite only)."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()
	if c.Force {
		if storage.IsPostgres(path) {
			return fmt.Errorf("--force is only supported for SQLite storage")
		}
		if err := ctx.Store.Close(); err != nil {
			return err
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized flowday storage at: %s\n", path)
	return nil
}
