package cmd

import (
	"context"
	"fmt"

	"github.com/kirjasto/ils/internal/model"
	"github.com/kirjasto/ils/internal/tui"
)

// HoldPlaceCmd represents the hold place command.
type HoldPlaceCmd struct {
	credentials
	RecordID string `arg:"" help:"Bibliographic record id to request"`
	Item     string `help:"Specific item id for an item-level hold"`
	Pickup   string `help:"Pickup location id ($$HOME and $$WORK request delivery)"`
	Comment  string `help:"Note to the library staff"`
	NoPicker bool   `help:"Fail instead of opening the interactive picker when no pickup location is given"`
}

func (h *HoldPlaceCmd) Run() error {
	drv, cfg, err := connect()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	session, err := login(ctx, drv, h.Username, h.Password)
	if err != nil {
		return err
	}

	req := &model.HoldRequest{
		RecordID:       h.RecordID,
		ItemID:         h.Item,
		PickupLocation: h.Pickup,
		PatronID:       session.patron.ID,
		Comment:        h.Comment,
	}

	if req.PickupLocation == "" {
		pickup, err := h.resolvePickup(ctx, drv, session, req)
		if err != nil {
			return err
		}
		if pickup == "" {
			fmt.Println(message("hold_invalid_pickup"))
			return nil
		}
		req.PickupLocation = pickup
	}

	result, err := drv.PlaceHold(ctx, req)
	if err != nil {
		return err
	}
	fmt.Println(message(result.SysMessage))
	return nil
}

// resolvePickup picks a location when the caller gave none: the
// backend default without a terminal, the interactive picker
// otherwise.
func (h *HoldPlaceCmd) resolvePickup(ctx context.Context, drv driverWithPickup, session *patronSession, req *model.HoldRequest) (string, error) {
	defaultID, _, err := drv.GetDefaultPickupLocation(ctx, session.patron, req)
	if err != nil {
		return "", err
	}
	if h.NoPicker {
		return defaultID, nil
	}

	eligible, err := drv.GetPickupLocations(ctx, session.patron, req)
	if err != nil {
		return "", err
	}
	result, err := tui.SelectPickupLocation(req.RecordID, eligible, defaultID)
	if err != nil {
		return "", err
	}
	if result.Action != tui.ActionSelected {
		return "", nil
	}
	return result.Selection.ID, nil
}

// driverWithPickup is the slice of the driver contract the pickup
// resolution needs.
type driverWithPickup interface {
	GetPickupLocations(ctx context.Context, patron *model.Patron, req *model.HoldRequest) ([]model.PickupLocation, error)
	GetDefaultPickupLocation(ctx context.Context, patron *model.Patron, req *model.HoldRequest) (string, bool, error)
}

// HoldCancelCmd represents the hold cancel command.
type HoldCancelCmd struct {
	credentials
	Requests []string `arg:"" help:"Hold request ids to cancel"`
}

func (h *HoldCancelCmd) Run() error {
	drv, cfg, err := connect()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	session, err := login(ctx, drv, h.Username, h.Password)
	if err != nil {
		return err
	}

	result, err := drv.CancelHolds(ctx, session.patron, h.Requests)
	if err != nil {
		return err
	}
	for _, id := range h.Requests {
		fmt.Printf("%-12s %s\n", id, message(result.PerItem[id].SysMessage))
	}
	fmt.Printf("Cancelled %d of %d holds\n", result.Count, len(h.Requests))
	return nil
}

// LocationsCmd represents the locations command.
type LocationsCmd struct {
	credentials
	RecordID string `help:"Record id to evaluate item-dependent pickup rules against"`
}

func (l *LocationsCmd) Run() error {
	drv, cfg, err := connect()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout())
	defer cancel()

	session, err := login(ctx, drv, l.Username, l.Password)
	if err != nil {
		return err
	}

	var req *model.HoldRequest
	if l.RecordID != "" {
		req = &model.HoldRequest{RecordID: l.RecordID, PatronID: session.patron.ID}
	}

	eligible, err := drv.GetPickupLocations(ctx, session.patron, req)
	if err != nil {
		return err
	}
	if len(eligible) == 0 {
		fmt.Println("No eligible pickup locations")
		return nil
	}

	defaultID, _, err := drv.GetDefaultPickupLocation(ctx, session.patron, req)
	if err != nil {
		return err
	}
	for _, loc := range eligible {
		marker := " "
		if loc.ID == defaultID {
			marker = "*"
		}
		fmt.Printf("%s %-12s %s\n", marker, loc.ID, loc.Display)
	}
	return nil
}
