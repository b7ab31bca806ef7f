package demo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/kirjasto/ils/internal/adapters/base"
	"github.com/kirjasto/ils/internal/model"
)

// PlaceHold inserts a reservation into the fixture store with a fresh
// request id. The reserved $$HOME / $$WORK pickup ids are stored as-is,
// the way a ship-to-address backend would record them.
func (d *Driver) PlaceHold(ctx context.Context, req *model.HoldRequest) (*model.HoldResult, error) {
	if !d.SupportsMethod("placeHold") {
		return &model.HoldResult{Success: false, SysMessage: "hold_error_fail"}, nil
	}
	if err := d.failFor("placeHold"); err != nil {
		return base.HoldResultFromError(err)
	}
	if req.PickupLocation == "" {
		return &model.HoldResult{Success: false, SysMessage: "hold_invalid_pickup"}, nil
	}

	var holdable bool
	err := d.store.queryRow(ctx,
		"SELECT holdable FROM items WHERE record_id = ? ORDER BY item_id LIMIT 1",
		req.RecordID).Scan(&holdable)
	if errors.Is(err, sql.ErrNoRows) {
		return &model.HoldResult{Success: false, SysMessage: "hold_error_fail"}, nil
	}
	if err != nil {
		return nil, storeError(d.Cfg.Name, err)
	}
	if !holdable {
		return &model.HoldResult{Success: false, SysMessage: "hold_not_holdable"}, nil
	}

	var existing int
	err = d.store.queryRow(ctx,
		"SELECT COUNT(*) FROM holds WHERE patron_id = ? AND record_id = ?",
		req.PatronID, req.RecordID).Scan(&existing)
	if err != nil {
		return nil, storeError(d.Cfg.Name, err)
	}
	if existing > 0 {
		return &model.HoldResult{Success: false, SysMessage: "hold_duplicate"}, nil
	}

	var position int
	err = d.store.queryRow(ctx,
		"SELECT COUNT(*) + 1 FROM holds WHERE record_id = ?", req.RecordID).Scan(&position)
	if err != nil {
		return nil, storeError(d.Cfg.Name, err)
	}

	_, err = d.store.exec(ctx, `INSERT INTO holds
		(request_id, patron_id, record_id, item_id, title, pickup, position, expires, available)
		VALUES (?, ?, ?, ?, '', ?, ?, ?, 0)`,
		uuid.NewString(), req.PatronID, req.RecordID, req.ItemID,
		req.PickupLocation, position, d.RequiredBy(req).Format("2006-01-02"))
	if err != nil {
		return nil, storeError(d.Cfg.Name, err)
	}
	return &model.HoldResult{Success: true, SysMessage: "hold_success"}, nil
}

// GetPickupLocations returns the fixture locations, rule-filtered when
// rules are configured.
func (d *Driver) GetPickupLocations(ctx context.Context, patron *model.Patron, req *model.HoldRequest) ([]model.PickupLocation, error) {
	backend, err := d.fetchLocations(ctx)
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

func (d *Driver) fetchLocations(ctx context.Context) ([]model.PickupLocation, error) {
	return base.Memo(d.Helper, "getLocations", nil, func() ([]model.PickupLocation, error) {
		if err := d.failFor("getPickupLocations"); err != nil {
			return nil, err
		}

		rows, err := d.store.query(ctx, "SELECT id, display, ord FROM locations ORDER BY ord")
		if err != nil {
			return nil, storeError(d.Cfg.Name, err)
		}
		defer func() { _ = rows.Close() }()

		var locations []model.PickupLocation
		for rows.Next() {
			var loc model.PickupLocation
			if err := rows.Scan(&loc.ID, &loc.Display, &loc.Order); err != nil {
				return nil, storeError(d.Cfg.Name, err)
			}
			locations = append(locations, loc)
		}
		if err := rows.Err(); err != nil {
			return nil, storeError(d.Cfg.Name, err)
		}
		return locations, nil
	})
}
