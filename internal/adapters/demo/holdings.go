package demo

import (
	"context"

	"github.com/kirjasto/ils/internal/adapters/base"
	"github.com/kirjasto/ils/internal/model"
)

// GetHolding lists the record's items from the fixture store,
// normalized, sorted and capped with the availability summary row.
func (d *Driver) GetHolding(ctx context.Context, id string, patron *model.Patron) (*model.HoldingsResult, error) {
	return base.Memo(d.Helper, "getHolding", []string{id}, func() (*model.HoldingsResult, error) {
		if err := d.failFor("getHolding"); err != nil {
			return nil, err
		}

		rows, err := d.store.query(ctx, `SELECT item_id, library, location, location_text,
			policy, status, call_number, due_date, enumeration, holdable
			FROM items WHERE record_id = ? ORDER BY item_id`, id)
		if err != nil {
			return nil, storeError(d.Cfg.Name, err)
		}
		defer func() { _ = rows.Close() }()

		var holdings []*model.Holding
		for rows.Next() {
			var h model.Holding
			var statusCode, dueDate string
			err := rows.Scan(&h.ItemID, &h.Library, &h.Location, &h.LocationText,
				&h.Policy, &statusCode, &h.CallNumber, &dueDate, &h.Enumeration, &h.Holdable)
			if err != nil {
				return nil, storeError(d.Cfg.Name, err)
			}
			h.RecordID = id
			h.Status = d.statuses.Lookup(statusCode)
			h.Available = h.Status == model.StatusAvailable
			h.DueDate = base.ParseDate(dueDate, "2006-01-02")
			h.Sort = len(holdings)
			holdings = append(holdings, &h)
		}
		if err := rows.Err(); err != nil {
			return nil, storeError(d.Cfg.Name, err)
		}
		if len(holdings) == 0 {
			return &model.HoldingsResult{Holdings: []*model.Holding{}}, nil
		}

		available := 0
		for _, h := range holdings {
			if h.Available {
				available++
			}
		}

		d.Sorter.Sort(holdings)
		holdings = append(holdings, &model.Holding{
			RecordID:       id,
			Summary:        true,
			Sort:           len(holdings),
			AvailableCount: available,
			TotalCount:     len(holdings),
		})

		return &model.HoldingsResult{Total: len(holdings) - 1, Holdings: holdings}, nil
	})
}
