package mikromarc

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/kirjasto/ils/internal/adapters/base"
	"github.com/kirjasto/ils/internal/ilserr"
	"github.com/kirjasto/ils/internal/model"
)

// PlaceHold creates a reservation. The reserved $$HOME / $$WORK pickup
// ids become ship-to-address delivery types on the wire instead of a
// unit id.
func (d *Driver) PlaceHold(ctx context.Context, req *model.HoldRequest) (*model.HoldResult, error) {
	if !d.SupportsMethod("placeHold") {
		return &model.HoldResult{Success: false, SysMessage: "hold_error_fail"}, nil
	}
	if req.PickupLocation == "" {
		return &model.HoldResult{Success: false, SysMessage: "hold_invalid_pickup"}, nil
	}

	body := reservationRequest{
		BorrowerID:   atoiSafe(req.PatronID),
		MarcRecordID: atoiSafe(req.RecordID),
		ItemID:       atoiSafe(req.ItemID),
		ValidTo:      d.RequiredBy(req).Format("2006-01-02T15:04:05Z"),
		Note:         req.Comment,
	}
	switch req.PickupLocation {
	case model.PickupHome:
		body.DeliveryType = "HomeAddress"
	case model.PickupWork:
		body.DeliveryType = "WorkAddress"
	default:
		body.DeliveryType = "Unit"
		body.DeliverAtUnit = req.PickupLocation
	}

	err := d.request(ctx, http.MethodPost, "/odata/BorrowerReservations", body, nil)
	if err != nil {
		if ilserr.IsValidationError(err) {
			return &model.HoldResult{Success: false, SysMessage: ilserr.ValidationCode(err)}, nil
		}
		return nil, err
	}
	return &model.HoldResult{Success: true, SysMessage: "hold_success"}, nil
}

// GetPickupLocations returns the pickup-capable units, rule-filtered
// when rules are configured.
func (d *Driver) GetPickupLocations(ctx context.Context, patron *model.Patron, req *model.HoldRequest) ([]model.PickupLocation, error) {
	backend, err := d.fetchUnits(ctx)
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
// list; ok == false when nothing is eligible.
func (d *Driver) GetDefaultPickupLocation(ctx context.Context, patron *model.Patron, req *model.HoldRequest) (string, bool, error) {
	eligible, err := d.GetPickupLocations(ctx, patron, req)
	if err != nil {
		return "", false, err
	}
	id, ok := d.DefaultPickup(eligible)
	return id, ok, nil
}

func (d *Driver) fetchUnits(ctx context.Context) ([]model.PickupLocation, error) {
	return base.Memo(d.Helper, "getUnits", nil, func() ([]model.PickupLocation, error) {
		filter := url.QueryEscape("IsPickupLocation eq true")
		path := fmt.Sprintf("/odata/Units?$filter=%s&$top=%d", filter, d.Cfg.PageSize)

		var units []odataUnit
		err := collectPages(ctx, d, path, func(page collection[odataUnit]) bool {
			units = append(units, page.Value...)
			return true
		})
		if err != nil {
			return nil, err
		}

		sort.SliceStable(units, func(i, j int) bool { return units[i].SortOrder < units[j].SortOrder })
		locations := make([]model.PickupLocation, 0, len(units))
		for i, u := range units {
			locations = append(locations, model.PickupLocation{
				ID:      u.ID,
				Display: u.Name,
				Order:   i,
			})
		}
		return locations, nil
	})
}
