package system

import (
	"fmt"
	"os"

	"github.com/mayatruitt/habitpal/internal/cli"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting existing data before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		dbPath := ctx.Store.GetConfigPath()
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing storage: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing storage: %w", err)
			}
			fmt.Printf("Deleted existing data at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing storage: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized habitpal storage at: %s\n", ctx.Store.GetConfigPath())

	// Building the service once seeds the default goals and the companion
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	fmt.Printf("Seeded %d default goals. Your companion is ready!\n", len(svc.Trackers()))
	return nil
}
