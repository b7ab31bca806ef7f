package mikromarc

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/kirjasto/ils/internal/adapters/base"
	"github.com/kirjasto/ils/internal/ilserr"
	"github.com/kirjasto/ils/internal/model"
)

// PatronLogin validates a barcode + pin pair against the borrower
// authentication action. A 401-class rejection means bad credentials
// and yields a nil patron.
func (d *Driver) PatronLogin(ctx context.Context, username, secret string) (*model.Patron, error) {
	var b borrower
	err := d.request(ctx, http.MethodPost, "/odata/Borrowers/Default.Authenticate",
		authenticateRequest{Barcode: username, Pin: secret}, &b)
	if err != nil {
		if ilserr.IsValidationError(err) {
			return nil, nil
		}
		return nil, err
	}
	return patronFromBorrower(username, &b), nil
}

func patronFromBorrower(username string, b *borrower) *model.Patron {
	return &model.Patron{
		ID:          strconv.Itoa(b.ID),
		Username:    username,
		Firstname:   b.FirstName,
		Lastname:    b.LastName,
		Email:       b.Email,
		Phone:       b.Phone,
		Address1:    b.Address,
		Address2:    b.Address2,
		Zip:         b.Zip,
		City:        b.City,
		WorkAddress: b.WorkAddress,
		Group:       b.GroupCode,
		RawID:       b.Barcode,
	}
}

// fetchBorrower loads the borrower document for a round-trip update.
// Never memoized so a patch always starts from the current state.
func (d *Driver) fetchBorrower(ctx context.Context, patronID string) (*borrower, error) {
	var b borrower
	err := d.request(ctx, http.MethodGet, fmt.Sprintf("/odata/Borrowers(%s)", patronID), nil, &b)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// putBorrower resubmits the patched borrower document.
func (d *Driver) putBorrower(ctx context.Context, b *borrower) (*model.OpResult, error) {
	err := d.request(ctx, http.MethodPut, fmt.Sprintf("/odata/Borrowers(%d)", b.ID), b, nil)
	if err != nil {
		return base.OpResultFromError(err)
	}
	return &model.OpResult{Success: true, Status: "ok", SysMessage: "profile_update_success"}, nil
}

// UpdateAddress fetches the borrower document, patches the address
// fields and resubmits it so unmodeled fields survive.
func (d *Driver) UpdateAddress(ctx context.Context, patron *model.Patron, fields map[string]string) (*model.OpResult, error) {
	if !d.SupportsMethod("updateAddress") {
		return &model.OpResult{Success: false, Status: "error", SysMessage: "profile_update_fail"}, nil
	}
	b, err := d.fetchBorrower(ctx, patron.ID)
	if err != nil {
		return nil, err
	}
	if v, ok := fields["address1"]; ok {
		b.Address = v
	}
	if v, ok := fields["address2"]; ok {
		b.Address2 = v
	}
	if v, ok := fields["zip"]; ok {
		b.Zip = v
	}
	if v, ok := fields["city"]; ok {
		b.City = v
	}
	return d.putBorrower(ctx, b)
}

// UpdateEmail rewrites the borrower's main email.
func (d *Driver) UpdateEmail(ctx context.Context, patron *model.Patron, email string) (*model.OpResult, error) {
	if !d.SupportsMethod("updateEmail") {
		return &model.OpResult{Success: false, Status: "error", SysMessage: "profile_update_fail"}, nil
	}
	b, err := d.fetchBorrower(ctx, patron.ID)
	if err != nil {
		return nil, err
	}
	b.Email = email
	return d.putBorrower(ctx, b)
}

// UpdatePhone rewrites the borrower's main phone number.
func (d *Driver) UpdatePhone(ctx context.Context, patron *model.Patron, phone string) (*model.OpResult, error) {
	if !d.SupportsMethod("updatePhone") {
		return &model.OpResult{Success: false, Status: "error", SysMessage: "profile_update_fail"}, nil
	}
	b, err := d.fetchBorrower(ctx, patron.ID)
	if err != nil {
		return nil, err
	}
	b.Phone = phone
	return d.putBorrower(ctx, b)
}

// ChangePassword verifies the old pin, then rewrites it on the
// borrower document.
func (d *Driver) ChangePassword(ctx context.Context, patron *model.Patron, oldSecret, newSecret string) (*model.OpResult, error) {
	if !d.SupportsMethod("changePassword") {
		return &model.OpResult{Success: false, Status: "error", SysMessage: "password_change_fail"}, nil
	}
	current, err := d.PatronLogin(ctx, patron.Username, oldSecret)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return &model.OpResult{Success: false, Status: "error", SysMessage: "password_change_fail"}, nil
	}

	b, err := d.fetchBorrower(ctx, patron.ID)
	if err != nil {
		return nil, err
	}
	b.Pin = newSecret
	result, err := d.putBorrower(ctx, b)
	if err != nil {
		return nil, err
	}
	if result.Success {
		result.SysMessage = "password_change_success"
	} else if result.SysMessage == "" {
		result.SysMessage = "password_change_fail"
	}
	return result, nil
}
