package system

import (
	"fmt"
	"os"

	"github.com/qadatrack/qada/internal/cli"
)

type InitCmd struct {
	Force bool `help:"Delete any existing store before initializing."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		path := ctx.Provider.Path()
		if _, err := os.Stat(path); err == nil {
			if err := ctx.Provider.Close(); err != nil {
				return fmt.Errorf("failed to close existing store: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing store: %w", err)
			}
			fmt.Printf("Deleted existing store at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing store: %w", err)
		}
	}

	if err := ctx.Provider.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized qada storage at: %s\n", ctx.Provider.Path())
	return nil
}
