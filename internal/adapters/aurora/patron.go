package aurora

import (
	"context"

	"github.com/kirjasto/ils/internal/adapters/base"
	"github.com/kirjasto/ils/internal/model"
)

// PatronLogin authenticates a barcode + pin pair. A "failed" status in
// the response means rejected credentials, reported as a nil patron.
func (d *Driver) PatronLogin(ctx context.Context, username, secret string) (*model.Patron, error) {
	var resp authenticatePatronResponse
	err := d.call(ctx, "AuthenticatePatron",
		authenticatePatron{AurNS: serviceNS, Barcode: username, Pin: secret}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Status != "ok" {
		return nil, nil
	}

	p := resp.Patron
	return &model.Patron{
		ID:          p.ID,
		Username:    username,
		Firstname:   p.FirstName,
		Lastname:    p.LastName,
		Email:       p.Email,
		Phone:       p.Phone,
		Address1:    p.Address,
		Zip:         p.Zip,
		City:        p.City,
		WorkAddress: p.WorkAddress,
		Group:       p.Category,
		RawID:       p.ID,
	}, nil
}

// UpdateAddress rewrites the patron's home address fields.
func (d *Driver) UpdateAddress(ctx context.Context, patron *model.Patron, fields map[string]string) (*model.OpResult, error) {
	if !d.SupportsMethod("updateAddress") {
		return &model.OpResult{Success: false, Status: "error", SysMessage: "profile_update_fail"}, nil
	}
	return d.changeInfo(ctx, changePatronInfo{
		AurNS:    serviceNS,
		PatronID: patron.ID,
		Address:  fields["address1"],
		Zip:      fields["zip"],
		City:     fields["city"],
	})
}

// UpdateEmail rewrites the patron's email address.
func (d *Driver) UpdateEmail(ctx context.Context, patron *model.Patron, email string) (*model.OpResult, error) {
	if !d.SupportsMethod("updateEmail") {
		return &model.OpResult{Success: false, Status: "error", SysMessage: "profile_update_fail"}, nil
	}
	return d.changeInfo(ctx, changePatronInfo{AurNS: serviceNS, PatronID: patron.ID, Email: email})
}

// UpdatePhone rewrites the patron's phone number.
func (d *Driver) UpdatePhone(ctx context.Context, patron *model.Patron, phone string) (*model.OpResult, error) {
	if !d.SupportsMethod("updatePhone") {
		return &model.OpResult{Success: false, Status: "error", SysMessage: "profile_update_fail"}, nil
	}
	return d.changeInfo(ctx, changePatronInfo{AurNS: serviceNS, PatronID: patron.ID, Phone: phone})
}

func (d *Driver) changeInfo(ctx context.Context, payload changePatronInfo) (*model.OpResult, error) {
	var resp changePatronInfoResponse
	if err := d.call(ctx, "ChangePatronInfo", payload, &resp); err != nil {
		return base.OpResultFromError(err)
	}
	if !resp.Success {
		return &model.OpResult{Success: false, Status: "error", SysMessage: "profile_update_fail"}, nil
	}
	return &model.OpResult{Success: true, Status: "ok", SysMessage: "profile_update_success"}, nil
}

// ChangePassword changes the patron's pin.
func (d *Driver) ChangePassword(ctx context.Context, patron *model.Patron, oldSecret, newSecret string) (*model.OpResult, error) {
	if !d.SupportsMethod("changePassword") {
		return &model.OpResult{Success: false, Status: "error", SysMessage: "password_change_fail"}, nil
	}
	var resp changePinResponse
	err := d.call(ctx, "ChangePin",
		changePin{AurNS: serviceNS, PatronID: patron.ID, OldPin: oldSecret, NewPin: newSecret}, &resp)
	if err != nil {
		return base.OpResultFromError(err)
	}
	if !resp.Success {
		return &model.OpResult{Success: false, Status: "error", SysMessage: "password_change_fail"}, nil
	}
	return &model.OpResult{Success: true, Status: "ok", SysMessage: "password_change_success"}, nil
}
