package alma

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/kirjasto/ils/internal/adapters/base"
	"github.com/kirjasto/ils/internal/ilserr"
	"github.com/kirjasto/ils/internal/model"
)

// GetHolding fetches all items of a record, pages bounded by the
// configured ceiling, and returns them normalized and sorted with a
// trailing summary row. A record Alma does not know yields an empty
// result.
func (d *Driver) GetHolding(ctx context.Context, id string, patron *model.Patron) (*model.HoldingsResult, error) {
	return base.Memo(d.Helper, "getHolding", []string{id}, func() (*model.HoldingsResult, error) {
		return d.fetchHoldings(ctx, id)
	})
}

func (d *Driver) fetchHoldings(ctx context.Context, id string) (*model.HoldingsResult, error) {
	var holdings []*model.Holding
	total := 0
	offset := 0

	for page := 0; page < d.Cfg.MaxPages; page++ {
		params := url.Values{}
		params.Set("limit", strconv.Itoa(d.Cfg.PageSize))
		params.Set("offset", strconv.Itoa(offset))

		var list itemList
		err := d.get(ctx, "/almaws/v1/bibs/"+url.PathEscape(id)+"/holdings/ALL/items", params, &list)
		if err != nil {
			if isRecordNotFound(err) {
				return &model.HoldingsResult{Holdings: []*model.Holding{}}, nil
			}
			return nil, err
		}

		total = list.Total
		for _, it := range list.Items {
			holdings = append(holdings, d.buildHolding(id, it, len(holdings)))
		}

		offset += d.Cfg.PageSize
		if offset >= total || len(list.Items) == 0 {
			break
		}
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

	return &model.HoldingsResult{
		Total:    total,
		Holdings: holdings,
	}, nil
}

// isRecordNotFound matches the backend's "no such record" rejection,
// which the contract maps to an empty result instead of an error.
func isRecordNotFound(err error) bool {
	return ilserr.ValidationCode(err) == "record_not_found"
}

func (d *Driver) buildHolding(recordID string, it item, sortIndex int) *model.Holding {
	status := d.itemStatus(it.ItemData)

	var due *time.Time
	if it.ItemData.DueDate != "" {
		due = base.ParseDate(it.ItemData.DueDate, time.RFC3339, "2006-01-02Z", "2006-01-02")
	}

	locText := it.ItemData.Location.Desc
	if locText == "" {
		locText = it.ItemData.Location.Code
	}

	return &model.Holding{
		RecordID:     recordID,
		ItemID:       it.ItemData.PID,
		HoldingID:    it.HoldingData.HoldingID,
		Library:      it.ItemData.Library.Code,
		Location:     it.ItemData.Location.Code,
		Policy:       it.ItemData.Policy.Code,
		LocationText: locText,
		Available:    status == model.StatusAvailable,
		Status:       status,
		CallNumber:   it.ItemData.CallNumber,
		DueDate:      due,
		Enumeration:  it.ItemData.Description,
		Sort:         sortIndex,
		Holdable:     !it.ItemData.Requested,
	}
}

// itemStatus derives the canonical status: a process type wins, an
// unprocessed item in place is Available, anything else is Charged.
func (d *Driver) itemStatus(data itemData) model.Status {
	if data.ProcessType.Code != "" {
		return d.statuses.Lookup(data.ProcessType.Code)
	}
	if data.BaseStatus.Code == "1" {
		return model.StatusAvailable
	}
	return model.StatusCharged
}
