package mikromarc

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kirjasto/ils/internal/adapters/base"
	"github.com/kirjasto/ils/internal/ilserr"
	"github.com/kirjasto/ils/internal/model"
)

// GetMyFines lists the patron's debts. The backend already reports
// amounts in minor currency units.
func (d *Driver) GetMyFines(ctx context.Context, patron *model.Patron) ([]model.Fee, error) {
	return base.Memo(d.Helper, "getMyFines", []string{patron.ID}, func() ([]model.Fee, error) {
		path := fmt.Sprintf("/odata/BorrowerDebts?$filter=%s&$top=%d&$count=true",
			borrowerFilter(patron.ID), d.Cfg.PageSize)

		var fees []model.Fee
		err := collectPages(ctx, d, path, func(page collection[odataDebt]) bool {
			for _, debt := range page.Value {
				fees = append(fees, model.Fee{
					ID:      strconv.Itoa(debt.ID),
					Title:   debt.Title,
					Type:    debt.Type,
					Amount:  debt.Amount,
					Balance: debt.Balance,
					Created: base.ParseDate(debt.Created, time.RFC3339, "2006-01-02"),
					Payable: d.Cfg.FinesPayable,
					ItemID:  strconv.Itoa(debt.ItemID),
				})
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		return fees, nil
	})
}

// GetMyTransactions lists the patron's current loans with renewal
// counters.
func (d *Driver) GetMyTransactions(ctx context.Context, patron *model.Patron) ([]model.Loan, error) {
	return base.Memo(d.Helper, "getMyTransactions", []string{patron.ID}, func() ([]model.Loan, error) {
		path := fmt.Sprintf("/odata/BorrowerLoans?$filter=%s&$top=%d&$count=true",
			borrowerFilter(patron.ID), d.Cfg.PageSize)

		var loans []model.Loan
		err := collectPages(ctx, d, path, func(page collection[odataLoan]) bool {
			for _, l := range page.Value {
				loans = append(loans, model.Loan{
					ItemID:       strconv.Itoa(l.ID),
					RecordID:     strconv.Itoa(l.MarcRecordID),
					Title:        l.Title,
					DueDate:      base.ParseDate(l.DueDate, time.RFC3339, "2006-01-02"),
					Renewable:    l.Renewable,
					RenewalCount: l.RenewalCount,
					RenewalLimit: l.RenewalLimit,
					Barcode:      l.Barcode,
				})
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		return loans, nil
	})
}

// GetMyHolds lists the patron's open reservations.
func (d *Driver) GetMyHolds(ctx context.Context, patron *model.Patron) ([]model.Hold, error) {
	return base.Memo(d.Helper, "getMyHolds", []string{patron.ID}, func() ([]model.Hold, error) {
		path := fmt.Sprintf("/odata/BorrowerReservations?$filter=%s&$top=%d&$count=true",
			borrowerFilter(patron.ID), d.Cfg.PageSize)

		var holds []model.Hold
		err := collectPages(ctx, d, path, func(page collection[odataReservation]) bool {
			for _, r := range page.Value {
				holds = append(holds, model.Hold{
					RequestID:      strconv.Itoa(r.ID),
					RecordID:       strconv.Itoa(r.MarcRecordID),
					ItemID:         strconv.Itoa(r.ItemID),
					Title:          r.Title,
					PickupLocation: r.DeliverAtUnit,
					Position:       r.QueueNumber,
					Expires:        base.ParseDate(r.ValidTo, time.RFC3339, "2006-01-02"),
					Available:      r.ReadyForPickup,
					Cancelable:     r.CanBeDeleted,
				})
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		return holds, nil
	})
}

// RenewItems renews each loan with its own action call; a validation
// rejection is recorded against the item while a transport failure
// aborts the batch.
func (d *Driver) RenewItems(ctx context.Context, patron *model.Patron, itemIDs []string) (*model.RenewResult, error) {
	result := &model.RenewResult{PerItem: make(map[string]model.ItemResult, len(itemIDs))}
	for _, id := range itemIDs {
		var resp renewResponse
		err := d.request(ctx, http.MethodPost,
			fmt.Sprintf("/odata/BorrowerLoans(%s)/Default.Renew", id), nil, &resp)
		switch {
		case err == nil && resp.Success:
			result.PerItem[id] = model.ItemResult{
				Success:    true,
				SysMessage: "renew_success",
				DueDate:    base.ParseDate(resp.NewDueDate, time.RFC3339, "2006-01-02"),
			}
		case err == nil:
			result.PerItem[id] = model.ItemResult{Success: false, SysMessage: "renew_fail"}
		case ilserr.IsValidationError(err):
			result.PerItem[id] = model.ItemResult{Success: false, SysMessage: ilserr.ValidationCode(err)}
		default:
			return nil, err
		}
	}
	return result, nil
}

// CancelHolds deletes each reservation individually.
func (d *Driver) CancelHolds(ctx context.Context, patron *model.Patron, requestIDs []string) (*model.CancelResult, error) {
	result := &model.CancelResult{PerItem: make(map[string]model.ItemResult, len(requestIDs))}
	for _, id := range requestIDs {
		err := d.request(ctx, http.MethodDelete,
			fmt.Sprintf("/odata/BorrowerReservations(%s)", id), nil, nil)
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

func borrowerFilter(patronID string) string {
	return url.QueryEscape(fmt.Sprintf("BorrowerId eq %s", escapeFilter(patronID)))
}
