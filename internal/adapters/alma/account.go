package alma

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kirjasto/ils/internal/adapters/base"
	"github.com/kirjasto/ils/internal/ilserr"
	"github.com/kirjasto/ils/internal/model"
)

// GetMyFines lists the patron's outstanding fees in minor currency
// units. A timeout propagates as ConnectionError, never as an empty
// list.
func (d *Driver) GetMyFines(ctx context.Context, patron *model.Patron) ([]model.Fee, error) {
	return base.Memo(d.Helper, "getMyFines", []string{patron.ID}, func() ([]model.Fee, error) {
		var list feeList
		if err := d.get(ctx, "/almaws/v1/users/"+url.PathEscape(patron.ID)+"/fees", nil, &list); err != nil {
			return nil, err
		}

		fees := make([]model.Fee, 0, len(list.Fees))
		for _, f := range list.Fees {
			fees = append(fees, model.Fee{
				ID:      f.ID,
				Title:   f.Title,
				Type:    f.Type.Code,
				Amount:  base.MinorUnits(f.Original),
				Balance: base.MinorUnits(f.Balance),
				Created: base.ParseDate(f.CreationTime, time.RFC3339),
				Payable: d.Cfg.FinesPayable && f.Status.Code == "ACTIVE",
				ItemID:  f.BarcodeValue,
			})
		}
		return fees, nil
	})
}

// GetMyTransactions lists the patron's current loans, paged to the
// configured ceiling.
func (d *Driver) GetMyTransactions(ctx context.Context, patron *model.Patron) ([]model.Loan, error) {
	return base.Memo(d.Helper, "getMyTransactions", []string{patron.ID}, func() ([]model.Loan, error) {
		loans := make([]model.Loan, 0)
		offset := 0
		for page := 0; page < d.Cfg.MaxPages; page++ {
			params := url.Values{}
			params.Set("limit", strconv.Itoa(d.Cfg.PageSize))
			params.Set("offset", strconv.Itoa(offset))

			var list loanList
			if err := d.get(ctx, "/almaws/v1/users/"+url.PathEscape(patron.ID)+"/loans", params, &list); err != nil {
				return nil, err
			}
			for _, l := range list.Loans {
				loans = append(loans, model.Loan{
					ItemID:    l.LoanID,
					RecordID:  l.MmsID,
					Title:     l.Title,
					DueDate:   base.ParseDate(l.DueDate, time.RFC3339, "2006-01-02Z"),
					Renewable: l.Renewable,
					Barcode:   l.Barcode,
				})
			}
			offset += d.Cfg.PageSize
			if offset >= list.Total || len(list.Loans) == 0 {
				break
			}
		}
		return loans, nil
	})
}

// GetMyHolds lists the patron's open requests.
func (d *Driver) GetMyHolds(ctx context.Context, patron *model.Patron) ([]model.Hold, error) {
	return base.Memo(d.Helper, "getMyHolds", []string{patron.ID}, func() ([]model.Hold, error) {
		var list requestList
		params := url.Values{}
		params.Set("request_type", "HOLD")
		if err := d.get(ctx, "/almaws/v1/users/"+url.PathEscape(patron.ID)+"/requests", params, &list); err != nil {
			return nil, err
		}

		holds := make([]model.Hold, 0, len(list.Requests))
		for _, r := range list.Requests {
			holds = append(holds, model.Hold{
				RequestID:      r.RequestID,
				RecordID:       r.MmsID,
				ItemID:         r.ItemID,
				Title:          r.Title,
				PickupLocation: r.PickupLibrary,
				Position:       r.Position,
				Expires:        base.ParseDate(r.ExpiryDate, "2006-01-02Z", "2006-01-02"),
				Available:      r.Status == "On Hold Shelf",
				Cancelable:     r.Status != "On Hold Shelf",
			})
		}
		return holds, nil
	})
}

// RenewItems renews each loan individually and reports per-item
// outcomes so three of five renewals can still succeed.
func (d *Driver) RenewItems(ctx context.Context, patron *model.Patron, itemIDs []string) (*model.RenewResult, error) {
	result := &model.RenewResult{PerItem: make(map[string]model.ItemResult, len(itemIDs))}
	for _, id := range itemIDs {
		params := url.Values{}
		params.Set("op", "renew")

		var renewed loan
		err := d.send(ctx, http.MethodPost,
			"/almaws/v1/users/"+url.PathEscape(patron.ID)+"/loans/"+url.PathEscape(id), params, nil, &renewed)
		switch {
		case err == nil:
			result.PerItem[id] = model.ItemResult{
				Success:    true,
				SysMessage: "renew_success",
				DueDate:    base.ParseDate(renewed.DueDate, time.RFC3339, "2006-01-02Z"),
			}
		case ilserr.IsValidationError(err):
			result.PerItem[id] = model.ItemResult{Success: false, SysMessage: ilserr.ValidationCode(err)}
		default:
			// Backend unreachable: abort the batch, the caller must
			// know this was not a rules rejection.
			return nil, err
		}
	}
	return result, nil
}

// CancelHolds cancels each request individually and reports per-item
// outcomes plus the number cancelled.
func (d *Driver) CancelHolds(ctx context.Context, patron *model.Patron, requestIDs []string) (*model.CancelResult, error) {
	result := &model.CancelResult{PerItem: make(map[string]model.ItemResult, len(requestIDs))}
	for _, id := range requestIDs {
		err := d.send(ctx, http.MethodDelete,
			"/almaws/v1/users/"+url.PathEscape(patron.ID)+"/requests/"+url.PathEscape(id), nil, nil, nil)
		switch {
		case err == nil:
			result.PerItem[id] = model.ItemResult{Success: true, SysMessage: "cancel_success"}
			result.Count++
		case ilserr.IsValidationError(err):
			result.PerItem[id] = model.ItemResult{Success: false, SysMessage: "cancel_fail"}
		default:
			return nil, err
		}
	}
	return result, nil
}
