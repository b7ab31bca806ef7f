package aurora

import (
	"context"

	"github.com/kirjasto/ils/internal/adapters/base"
	"github.com/kirjasto/ils/internal/model"
)

// PlaceHold places a reservation. The reserved $$HOME / $$WORK pickup
// ids are sent as a delivery type instead of a branch id.
func (d *Driver) PlaceHold(ctx context.Context, req *model.HoldRequest) (*model.HoldResult, error) {
	if !d.SupportsMethod("placeHold") {
		return &model.HoldResult{Success: false, SysMessage: "hold_error_fail"}, nil
	}
	if req.PickupLocation == "" {
		return &model.HoldResult{Success: false, SysMessage: "hold_invalid_pickup"}, nil
	}

	payload := addReservation{
		AurNS:    serviceNS,
		PatronID: req.PatronID,
		RecordID: req.RecordID,
		ItemID:   req.ItemID,
		ValidTo:  d.RequiredBy(req).Format("2006-01-02"),
		Comment:  req.Comment,
	}
	switch req.PickupLocation {
	case model.PickupHome:
		payload.DeliveryType = "HOME_DELIVERY"
	case model.PickupWork:
		payload.DeliveryType = "WORK_DELIVERY"
	default:
		payload.DeliveryType = "BRANCH"
		payload.PickupBranch = req.PickupLocation
	}

	var resp addReservationResponse
	if err := d.call(ctx, "AddReservation", payload, &resp); err != nil {
		return base.HoldResultFromError(err)
	}
	if !resp.Success {
		key, ok := faultMessages[resp.Message]
		if !ok {
			key = "hold_error_fail"
		}
		return &model.HoldResult{Success: false, SysMessage: key}, nil
	}
	return &model.HoldResult{Success: true, SysMessage: "hold_success"}, nil
}

// GetPickupLocations returns the branches eligible for the given
// patron and hold context, rule-filtered when rules are configured.
func (d *Driver) GetPickupLocations(ctx context.Context, patron *model.Patron, req *model.HoldRequest) ([]model.PickupLocation, error) {
	backend, err := d.fetchBranches(ctx)
	if err != nil {
		return nil, err
	}

	attrs, err := d.HoldAttributes(ctx, patron, req, d.GetHolding)
	if err != nil {
		return nil, err
	}
	return d.FilterPickup(attrs, patron, backend), nil
}

// GetDefaultPickupLocation resolves the default against the eligible
// list.
func (d *Driver) GetDefaultPickupLocation(ctx context.Context, patron *model.Patron, req *model.HoldRequest) (string, bool, error) {
	eligible, err := d.GetPickupLocations(ctx, patron, req)
	if err != nil {
		return "", false, err
	}
	id, ok := d.DefaultPickup(eligible)
	return id, ok, nil
}

func (d *Driver) fetchBranches(ctx context.Context) ([]model.PickupLocation, error) {
	return base.Memo(d.Helper, "getBranches", nil, func() ([]model.PickupLocation, error) {
		var resp getBranchesResponse
		if err := d.call(ctx, "GetBranches", getBranches{AurNS: serviceNS}, &resp); err != nil {
			return nil, err
		}
		locations := make([]model.PickupLocation, 0, len(resp.Branches))
		for _, b := range resp.Branches {
			locations = append(locations, model.PickupLocation{
				ID:      b.ID,
				Display: b.Name,
				Order:   b.SortOrder,
			})
		}
		return locations, nil
	})
}
