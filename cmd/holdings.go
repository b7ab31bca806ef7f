package cmd

import (
	"context"
	"fmt"
)

// HoldingsCmd represents the holdings command.
type HoldingsCmd struct {
	RecordID string `arg:"" help:"Bibliographic record id"`
}

func (h *HoldingsCmd) Run() error {
	drv, cfg, err := connect()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	result, err := drv.GetHolding(ctx, h.RecordID, nil)
	if err != nil {
		return err
	}
	if len(result.Holdings) == 0 {
		fmt.Printf("No holdings found for record %s\n", h.RecordID)
		return nil
	}

	for _, holding := range result.Holdings {
		printHolding(holding)
	}
	return nil
}
