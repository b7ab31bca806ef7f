package aurora

import (
	"context"
	"time"

	"github.com/kirjasto/ils/internal/adapters/base"
	"github.com/kirjasto/ils/internal/ilserr"
	"github.com/kirjasto/ils/internal/model"
)

// GetMyFines lists the patron's debts in minor currency units.
func (d *Driver) GetMyFines(ctx context.Context, patron *model.Patron) ([]model.Fee, error) {
	return base.Memo(d.Helper, "getMyFines", []string{patron.ID}, func() ([]model.Fee, error) {
		var resp getDebtsResponse
		if err := d.call(ctx, "GetDebts", getDebts{AurNS: serviceNS, PatronID: patron.ID}, &resp); err != nil {
			return nil, err
		}
		fees := make([]model.Fee, 0, len(resp.Debts))
		for _, debt := range resp.Debts {
			fees = append(fees, model.Fee{
				ID:      debt.DebtID,
				Title:   debt.Title,
				Type:    debt.Type,
				Amount:  base.MinorUnits(debt.Amount),
				Balance: base.MinorUnits(debt.Balance),
				Created: base.ParseDate(debt.Created, "2006-01-02", time.RFC3339),
				Payable: d.Cfg.FinesPayable,
				ItemID:  debt.ItemID,
			})
		}
		return fees, nil
	})
}

// GetMyTransactions lists the patron's current loans with renewal
// counters.
func (d *Driver) GetMyTransactions(ctx context.Context, patron *model.Patron) ([]model.Loan, error) {
	return base.Memo(d.Helper, "getMyTransactions", []string{patron.ID}, func() ([]model.Loan, error) {
		var resp getLoansResponse
		if err := d.call(ctx, "GetLoans", getLoans{AurNS: serviceNS, PatronID: patron.ID}, &resp); err != nil {
			return nil, err
		}
		loans := make([]model.Loan, 0, len(resp.Loans))
		for _, l := range resp.Loans {
			loans = append(loans, model.Loan{
				ItemID:       l.LoanID,
				RecordID:     l.RecordID,
				Title:        l.Title,
				DueDate:      base.ParseDate(l.DueDate, "2006-01-02", time.RFC3339),
				Renewable:    l.Renewable,
				RenewalCount: l.RenewalCount,
				RenewalLimit: l.RenewalLimit,
				Barcode:      l.ItemID,
			})
		}
		return loans, nil
	})
}

// GetMyHolds lists the patron's reservations.
func (d *Driver) GetMyHolds(ctx context.Context, patron *model.Patron) ([]model.Hold, error) {
	return base.Memo(d.Helper, "getMyHolds", []string{patron.ID}, func() ([]model.Hold, error) {
		var resp getReservationsResponse
		if err := d.call(ctx, "GetReservations", getReservations{AurNS: serviceNS, PatronID: patron.ID}, &resp); err != nil {
			return nil, err
		}
		holds := make([]model.Hold, 0, len(resp.Reservations))
		for _, r := range resp.Reservations {
			holds = append(holds, model.Hold{
				RequestID:      r.ReservationID,
				RecordID:       r.RecordID,
				ItemID:         r.ItemID,
				Title:          r.Title,
				PickupLocation: r.PickupBranch,
				Position:       r.QueuePosition,
				Expires:        base.ParseDate(r.ValidTo, "2006-01-02"),
				Available:      r.OnHoldShelf,
				Cancelable:     r.Deletable,
			})
		}
		return holds, nil
	})
}

// RenewItems renews loans in one batch call; the backend reports each
// loan's outcome individually, which maps straight onto the per-item
// result contract.
func (d *Driver) RenewItems(ctx context.Context, patron *model.Patron, itemIDs []string) (*model.RenewResult, error) {
	var resp renewLoansResponse
	err := d.call(ctx, "RenewLoans", renewLoans{AurNS: serviceNS, PatronID: patron.ID, LoanIDs: itemIDs}, &resp)
	if err != nil {
		if ilserr.IsValidationError(err) {
			// Whole-batch rejection: report it against every item.
			result := &model.RenewResult{PerItem: make(map[string]model.ItemResult, len(itemIDs))}
			for _, id := range itemIDs {
				result.PerItem[id] = model.ItemResult{Success: false, SysMessage: ilserr.ValidationCode(err)}
			}
			return result, nil
		}
		return nil, err
	}

	result := &model.RenewResult{PerItem: make(map[string]model.ItemResult, len(itemIDs))}
	for _, r := range resp.Results {
		if r.Renewed {
			result.PerItem[r.LoanID] = model.ItemResult{
				Success:    true,
				SysMessage: "renew_success",
				DueDate:    base.ParseDate(r.NewDueDate, "2006-01-02", time.RFC3339),
			}
			continue
		}
		key, ok := faultMessages[r.Message]
		if !ok {
			key = "renew_fail"
		}
		result.PerItem[r.LoanID] = model.ItemResult{Success: false, SysMessage: key}
	}
	// Loans the backend did not mention at all count as failed, not
	// silently dropped.
	for _, id := range itemIDs {
		if _, ok := result.PerItem[id]; !ok {
			result.PerItem[id] = model.ItemResult{Success: false, SysMessage: "renew_fail"}
		}
	}
	return result, nil
}

// CancelHolds cancels each reservation individually.
func (d *Driver) CancelHolds(ctx context.Context, patron *model.Patron, requestIDs []string) (*model.CancelResult, error) {
	result := &model.CancelResult{PerItem: make(map[string]model.ItemResult, len(requestIDs))}
	for _, id := range requestIDs {
		var resp cancelReservationResponse
		err := d.call(ctx, "CancelReservation",
			cancelReservation{AurNS: serviceNS, PatronID: patron.ID, ReservationID: id}, &resp)
		switch {
		case err == nil && resp.Success:
			result.PerItem[id] = model.ItemResult{Success: true, SysMessage: "cancel_success"}
			result.Count++
		case err == nil || ilserr.IsValidationError(err):
			result.PerItem[id] = model.ItemResult{Success: false, SysMessage: "cancel_fail"}
		default:
			return nil, err
		}
	}
	return result, nil
}
