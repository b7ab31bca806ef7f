package demo

import (
	"context"
	"time"

	"github.com/kirjasto/ils/internal/adapters/base"
	"github.com/kirjasto/ils/internal/model"
)

// GetMyFines lists the patron's fees from the fixture store.
func (d *Driver) GetMyFines(ctx context.Context, patron *model.Patron) ([]model.Fee, error) {
	return base.Memo(d.Helper, "getMyFines", []string{patron.ID}, func() ([]model.Fee, error) {
		if err := d.failFor("getMyFines"); err != nil {
			return nil, err
		}

		rows, err := d.store.query(ctx, `SELECT id, title, type, amount, balance, created, item_id
			FROM fees WHERE patron_id = ? ORDER BY created`, patron.ID)
		if err != nil {
			return nil, storeError(d.Cfg.Name, err)
		}
		defer func() { _ = rows.Close() }()

		var fees []model.Fee
		for rows.Next() {
			var f model.Fee
			var created string
			if err := rows.Scan(&f.ID, &f.Title, &f.Type, &f.Amount, &f.Balance, &created, &f.ItemID); err != nil {
				return nil, storeError(d.Cfg.Name, err)
			}
			f.Created = base.ParseDate(created, "2006-01-02")
			f.Payable = d.Cfg.FinesPayable
			fees = append(fees, f)
		}
		if err := rows.Err(); err != nil {
			return nil, storeError(d.Cfg.Name, err)
		}
		return fees, nil
	})
}

// GetMyTransactions lists the patron's current loans.
func (d *Driver) GetMyTransactions(ctx context.Context, patron *model.Patron) ([]model.Loan, error) {
	return base.Memo(d.Helper, "getMyTransactions", []string{patron.ID}, func() ([]model.Loan, error) {
		if err := d.failFor("getMyTransactions"); err != nil {
			return nil, err
		}

		rows, err := d.store.query(ctx, `SELECT item_id, record_id, title, due_date,
			renewable, renewal_count, renewal_limit, barcode
			FROM loans WHERE patron_id = ? ORDER BY due_date`, patron.ID)
		if err != nil {
			return nil, storeError(d.Cfg.Name, err)
		}
		defer func() { _ = rows.Close() }()

		var loans []model.Loan
		for rows.Next() {
			var l model.Loan
			var due string
			err := rows.Scan(&l.ItemID, &l.RecordID, &l.Title, &due,
				&l.Renewable, &l.RenewalCount, &l.RenewalLimit, &l.Barcode)
			if err != nil {
				return nil, storeError(d.Cfg.Name, err)
			}
			l.DueDate = base.ParseDate(due, "2006-01-02")
			loans = append(loans, l)
		}
		if err := rows.Err(); err != nil {
			return nil, storeError(d.Cfg.Name, err)
		}
		return loans, nil
	})
}

// GetMyHolds lists the patron's open reservations.
func (d *Driver) GetMyHolds(ctx context.Context, patron *model.Patron) ([]model.Hold, error) {
	return base.Memo(d.Helper, "getMyHolds", []string{patron.ID}, func() ([]model.Hold, error) {
		if err := d.failFor("getMyHolds"); err != nil {
			return nil, err
		}

		rows, err := d.store.query(ctx, `SELECT request_id, record_id, item_id, title,
			pickup, position, expires, available
			FROM holds WHERE patron_id = ? ORDER BY position`, patron.ID)
		if err != nil {
			return nil, storeError(d.Cfg.Name, err)
		}
		defer func() { _ = rows.Close() }()

		var holds []model.Hold
		for rows.Next() {
			var h model.Hold
			var expires string
			err := rows.Scan(&h.RequestID, &h.RecordID, &h.ItemID, &h.Title,
				&h.PickupLocation, &h.Position, &expires, &h.Available)
			if err != nil {
				return nil, storeError(d.Cfg.Name, err)
			}
			h.Expires = base.ParseDate(expires, "2006-01-02")
			h.Cancelable = true
			holds = append(holds, h)
		}
		if err := rows.Err(); err != nil {
			return nil, storeError(d.Cfg.Name, err)
		}
		return holds, nil
	})
}

// RenewItems renews each loan against the fixture store: a renewable
// loan under its limit gets two more weeks, anything else fails with
// the matching message key.
func (d *Driver) RenewItems(ctx context.Context, patron *model.Patron, itemIDs []string) (*model.RenewResult, error) {
	if err := d.failFor("renewItems"); err != nil {
		return nil, err
	}

	result := &model.RenewResult{PerItem: make(map[string]model.ItemResult, len(itemIDs))}
	for _, id := range itemIDs {
		var renewable bool
		var count, limit int
		err := d.store.queryRow(ctx,
			"SELECT renewable, renewal_count, renewal_limit FROM loans WHERE item_id = ? AND patron_id = ?",
			id, patron.ID).Scan(&renewable, &count, &limit)
		if err != nil {
			result.PerItem[id] = model.ItemResult{Success: false, SysMessage: "renew_fail"}
			continue
		}
		if !renewable || count >= limit {
			result.PerItem[id] = model.ItemResult{Success: false, SysMessage: "renew_limit_reached"}
			continue
		}

		newDue := time.Now().AddDate(0, 0, 14).Truncate(24 * time.Hour)
		_, err = d.store.exec(ctx,
			"UPDATE loans SET renewal_count = renewal_count + 1, due_date = ? WHERE item_id = ?",
			newDue.Format("2006-01-02"), id)
		if err != nil {
			return nil, storeError(d.Cfg.Name, err)
		}
		result.PerItem[id] = model.ItemResult{Success: true, SysMessage: "renew_success", DueDate: &newDue}
	}
	return result, nil
}

// CancelHolds deletes each reservation from the fixture store.
func (d *Driver) CancelHolds(ctx context.Context, patron *model.Patron, requestIDs []string) (*model.CancelResult, error) {
	if err := d.failFor("cancelHolds"); err != nil {
		return nil, err
	}

	result := &model.CancelResult{PerItem: make(map[string]model.ItemResult, len(requestIDs))}
	for _, id := range requestIDs {
		res, err := d.store.exec(ctx,
			"DELETE FROM holds WHERE request_id = ? AND patron_id = ?", id, patron.ID)
		if err != nil {
			return nil, storeError(d.Cfg.Name, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			result.PerItem[id] = model.ItemResult{Success: false, SysMessage: "cancel_fail"}
			continue
		}
		result.PerItem[id] = model.ItemResult{Success: true, SysMessage: "cancel_success"}
		result.Count++
	}
	return result, nil
}
