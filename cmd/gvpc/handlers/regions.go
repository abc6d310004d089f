package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/gvpc/internal/addressing"
)

// Regions lists the regions a run would cover, with their address blocks.
func Regions(ctx context.Context, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return err
	}

	all, err := provider.ListRegions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list regions: %w", err)
	}

	plans, overflow := addressing.AssignOffsets(cfg.FilterRegions(all))
	fmt.Fprint(stdout, renderRegions(plans, overflow, len(all)))
	return nil
}
