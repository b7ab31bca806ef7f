package aurora

import (
	"context"
	"time"

	"github.com/kirjasto/ils/internal/adapters/base"
	"github.com/kirjasto/ils/internal/model"
)

// GetHolding fetches the record's items in one round trip (the backend
// does not page item lists), normalizes and sorts them, and appends
// the availability summary row.
func (d *Driver) GetHolding(ctx context.Context, id string, patron *model.Patron) (*model.HoldingsResult, error) {
	return base.Memo(d.Helper, "getHolding", []string{id}, func() (*model.HoldingsResult, error) {
		var resp getRecordItemsResponse
		err := d.call(ctx, "GetCatalogueRecordDetail", getRecordItems{AurNS: serviceNS, RecordID: id}, &resp)
		if err != nil {
			return nil, err
		}
		if !resp.Found {
			return &model.HoldingsResult{Holdings: []*model.Holding{}}, nil
		}

		holdings := make([]*model.Holding, 0, len(resp.Items))
		available := 0
		for i, it := range resp.Items {
			status := d.statuses.Lookup(it.Status)
			h := &model.Holding{
				RecordID:     id,
				ItemID:       it.ItemID,
				Library:      it.Branch,
				Location:     it.Department,
				LocationText: it.BranchName,
				Available:    status == model.StatusAvailable,
				Status:       status,
				CallNumber:   it.CallNumber,
				DueDate:      base.ParseDate(it.DueDate, "2006-01-02", time.RFC3339),
				Enumeration:  it.PeriodicalNo,
				Policy:       it.LoanPolicy,
				Sort:         i,
				Holdable:     it.Reservable,
			}
			if h.Available {
				available++
			}
			holdings = append(holdings, h)
		}

		d.Sorter.Sort(holdings)
		holdings = append(holdings, &model.Holding{
			RecordID:       id,
			Summary:        true,
			Sort:           len(holdings),
			AvailableCount: available,
			TotalCount:     len(holdings),
		})

		return &model.HoldingsResult{Total: len(resp.Items), Holdings: holdings}, nil
	})
}
