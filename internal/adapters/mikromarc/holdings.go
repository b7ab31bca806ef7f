package mikromarc

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/kirjasto/ils/internal/adapters/base"
	"github.com/kirjasto/ils/internal/ilserr"
	"github.com/kirjasto/ils/internal/model"
)

// GetHolding fetches a record's items page by page, following the
// nextLink continuation up to the configured ceiling, then normalizes,
// sorts and appends the availability summary row.
func (d *Driver) GetHolding(ctx context.Context, id string, patron *model.Patron) (*model.HoldingsResult, error) {
	return base.Memo(d.Helper, "getHolding", []string{id}, func() (*model.HoldingsResult, error) {
		filter := url.QueryEscape(fmt.Sprintf("MarcRecordId eq %s", escapeFilter(id)))
		first := fmt.Sprintf("/odata/Items?$filter=%s&$top=%d&$count=true", filter, d.Cfg.PageSize)

		var holdings []*model.Holding
		total := 0
		err := collectPages(ctx, d, first, func(page collection[odataItem]) bool {
			if page.Count > 0 {
				total = page.Count
			}
			for _, it := range page.Value {
				status := d.statuses.Lookup(it.Status)
				holdings = append(holdings, &model.Holding{
					RecordID:     id,
					ItemID:       strconv.Itoa(it.ID),
					Library:      it.UnitID,
					Location:     it.Department,
					LocationText: it.UnitName,
					Available:    status == model.StatusAvailable,
					Status:       status,
					CallNumber:   it.CallNumber,
					DueDate:      base.ParseDate(it.DueDate, time.RFC3339, "2006-01-02"),
					Enumeration:  it.Periodical,
					Policy:       it.LoanPolicy,
					Sort:         len(holdings),
					Holdable:     it.Reservable,
				})
			}
			return true
		})
		if err != nil {
			if ilserr.ValidationCode(err) == "record_not_found" {
				return &model.HoldingsResult{Holdings: []*model.Holding{}}, nil
			}
			return nil, err
		}

		available := 0
		for _, h := range holdings {
			if h.Available {
				available++
			}
		}
		if total == 0 {
			total = len(holdings)
		}

		d.Sorter.Sort(holdings)
		holdings = append(holdings, &model.Holding{
			RecordID:       id,
			Summary:        true,
			Sort:           len(holdings),
			AvailableCount: available,
			TotalCount:     len(holdings),
		})

		return &model.HoldingsResult{Total: total, Holdings: holdings}, nil
	})
}
