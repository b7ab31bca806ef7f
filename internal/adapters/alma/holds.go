package alma

import (
	"context"
	"net/http"
	"net/url"

	"github.com/kirjasto/ils/internal/adapters/base"
	"github.com/kirjasto/ils/internal/ilserr"
	"github.com/kirjasto/ils/internal/model"
)

// PlaceHold places a title-level request. The reserved $$HOME / $$WORK
// pickup ids become a ship-to-address pickup type on the wire instead
// of a library code.
func (d *Driver) PlaceHold(ctx context.Context, req *model.HoldRequest) (*model.HoldResult, error) {
	if !d.SupportsMethod("placeHold") {
		return &model.HoldResult{Success: false, SysMessage: "hold_error_fail"}, nil
	}
	if req.PickupLocation == "" {
		return &model.HoldResult{Success: false, SysMessage: "hold_invalid_pickup"}, nil
	}

	body := request{
		RequestType:  "HOLD",
		Comment:      req.Comment,
		LastInterest: d.RequiredBy(req).Format("2006-01-02") + "Z",
	}
	switch req.PickupLocation {
	case model.PickupHome:
		body.PickupType = "USER_HOME_ADDRESS"
	case model.PickupWork:
		body.PickupType = "USER_WORK_ADDRESS"
	default:
		body.PickupType = "LIBRARY"
		body.PickupLibrary = req.PickupLocation
	}

	params := url.Values{}
	params.Set("user_id", req.PatronID)
	params.Set("mms_id", req.RecordID)
	if req.ItemID != "" {
		params.Set("item_pid", req.ItemID)
	}

	err := d.send(ctx, http.MethodPost, "/almaws/v1/users/"+url.PathEscape(req.PatronID)+"/requests", params, &body, nil)
	if err != nil {
		if ilserr.IsValidationError(err) {
			return &model.HoldResult{Success: false, SysMessage: ilserr.ValidationCode(err)}, nil
		}
		return nil, err
	}
	return &model.HoldResult{Success: true, SysMessage: "hold_success"}, nil
}

// GetPickupLocations returns the libraries eligible for the given
// patron and hold context, rule-filtered when rules are configured.
func (d *Driver) GetPickupLocations(ctx context.Context, patron *model.Patron, req *model.HoldRequest) ([]model.PickupLocation, error) {
	backend, err := d.fetchLibraries(ctx)
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

func (d *Driver) fetchLibraries(ctx context.Context) ([]model.PickupLocation, error) {
	return base.Memo(d.Helper, "getLibraries", nil, func() ([]model.PickupLocation, error) {
		var list libraryList
		if err := d.get(ctx, "/almaws/v1/conf/libraries", nil, &list); err != nil {
			return nil, err
		}
		locations := make([]model.PickupLocation, 0, len(list.Libraries))
		for i, lib := range list.Libraries {
			locations = append(locations, model.PickupLocation{
				ID:      lib.Code,
				Display: lib.Name,
				Order:   i,
			})
		}
		return locations, nil
	})
}
