package demo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kirjasto/ils/internal/model"
)

// PatronLogin checks the barcode and pin against the fixture store.
// Unknown user or wrong pin yields a nil patron, not an error.
func (d *Driver) PatronLogin(ctx context.Context, username, secret string) (*model.Patron, error) {
	if err := d.failFor("patronLogin"); err != nil {
		return nil, err
	}

	var p model.Patron
	var password string
	err := d.store.queryRow(ctx, `SELECT id, username, password, firstname, lastname,
		email, phone, address1, zip, city, work_address, grp
		FROM patrons WHERE username = ?`, username).Scan(
		&p.ID, &p.Username, &password, &p.Firstname, &p.Lastname,
		&p.Email, &p.Phone, &p.Address1, &p.Zip, &p.City, &p.WorkAddress, &p.Group)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError(d.Cfg.Name, err)
	}
	if password != secret {
		return nil, nil
	}
	return &p, nil
}

func (d *Driver) updatePatron(ctx context.Context, patronID, column, value string) (*model.OpResult, error) {
	res, err := d.store.exec(ctx, "UPDATE patrons SET "+column+" = ? WHERE id = ?", value, patronID)
	if err != nil {
		return nil, storeError(d.Cfg.Name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &model.OpResult{Success: false, Status: "error", SysMessage: "profile_update_fail"}, nil
	}
	return &model.OpResult{Success: true, Status: "ok", SysMessage: "profile_update_success"}, nil
}

// UpdateAddress rewrites the patron's address fields.
func (d *Driver) UpdateAddress(ctx context.Context, patron *model.Patron, fields map[string]string) (*model.OpResult, error) {
	if !d.SupportsMethod("updateAddress") {
		return &model.OpResult{Success: false, Status: "error", SysMessage: "profile_update_fail"}, nil
	}
	if err := d.failFor("updateAddress"); err != nil {
		return nil, err
	}
	columns := map[string]string{"address1": "address1", "zip": "zip", "city": "city"}
	result := &model.OpResult{Success: true, Status: "ok", SysMessage: "profile_update_success"}
	for field, column := range columns {
		value, ok := fields[field]
		if !ok {
			continue
		}
		r, err := d.updatePatron(ctx, patron.ID, column, value)
		if err != nil {
			return nil, err
		}
		if !r.Success {
			result = r
		}
	}
	return result, nil
}

// UpdateEmail rewrites the patron's email.
func (d *Driver) UpdateEmail(ctx context.Context, patron *model.Patron, email string) (*model.OpResult, error) {
	if !d.SupportsMethod("updateEmail") {
		return &model.OpResult{Success: false, Status: "error", SysMessage: "profile_update_fail"}, nil
	}
	if err := d.failFor("updateEmail"); err != nil {
		return nil, err
	}
	return d.updatePatron(ctx, patron.ID, "email", email)
}

// UpdatePhone rewrites the patron's phone number.
func (d *Driver) UpdatePhone(ctx context.Context, patron *model.Patron, phone string) (*model.OpResult, error) {
	if !d.SupportsMethod("updatePhone") {
		return &model.OpResult{Success: false, Status: "error", SysMessage: "profile_update_fail"}, nil
	}
	if err := d.failFor("updatePhone"); err != nil {
		return nil, err
	}
	return d.updatePatron(ctx, patron.ID, "phone", phone)
}

// ChangePassword verifies the old pin before storing the new one.
func (d *Driver) ChangePassword(ctx context.Context, patron *model.Patron, oldSecret, newSecret string) (*model.OpResult, error) {
	if !d.SupportsMethod("changePassword") {
		return &model.OpResult{Success: false, Status: "error", SysMessage: "password_change_fail"}, nil
	}
	if err := d.failFor("changePassword"); err != nil {
		return nil, err
	}

	current, err := d.PatronLogin(ctx, patron.Username, oldSecret)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return &model.OpResult{Success: false, Status: "error", SysMessage: "password_change_fail"}, nil
	}

	result, err := d.updatePatron(ctx, patron.ID, "password", newSecret)
	if err != nil {
		return nil, err
	}
	if result.Success {
		result.SysMessage = "password_change_success"
	} else {
		result.SysMessage = "password_change_fail"
	}
	return result, nil
}
