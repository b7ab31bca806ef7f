package alma

import (
	"bytes"
	"context"
	"net/http"
	"net/url"

	"github.com/kirjasto/ils/internal/adapters/base"
	"github.com/kirjasto/ils/internal/ilserr"
	"github.com/kirjasto/ils/internal/model"
)

// PatronLogin authenticates against the backend's auth operation and,
// on success, loads the full user record. Rejected credentials yield a
// nil patron with a nil error; only transport failures are errors.
func (d *Driver) PatronLogin(ctx context.Context, username, secret string) (*model.Patron, error) {
	params := url.Values{}
	params.Set("op", "auth")
	params.Set("password", secret)

	err := d.send(ctx, http.MethodPost, "/almaws/v1/users/"+url.PathEscape(username), params, nil, nil)
	if err != nil {
		if ilserr.IsValidationError(err) {
			return nil, nil
		}
		return nil, err
	}

	u, err := d.fetchUser(ctx, username)
	if err != nil {
		return nil, err
	}
	return patronFromUser(username, u), nil
}

func (d *Driver) fetchUser(ctx context.Context, userID string) (*user, error) {
	return base.Memo(d.Helper, "getUser", []string{userID}, func() (*user, error) {
		var u user
		params := url.Values{}
		params.Set("view", "full")
		if err := d.get(ctx, "/almaws/v1/users/"+url.PathEscape(userID), params, &u); err != nil {
			return nil, err
		}
		return &u, nil
	})
}

// fetchUserRaw loads the undecoded user document for round-trip
// updates. Never memoized: a stale base document would resurrect old
// contact data on the next update.
func (d *Driver) fetchUserRaw(ctx context.Context, userID string) ([]byte, error) {
	params := url.Values{}
	params.Set("view", "full")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		d.buildURL("/almaws/v1/users/"+url.PathEscape(userID), params), nil)
	if err != nil {
		return nil, ilserr.NewConnectionError(d.Cfg.Name, err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := d.Do(ctx, d.client, req)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, d.classifyFault(resp)
	}
	return resp.Body, nil
}

func patronFromUser(username string, u *user) *model.Patron {
	p := &model.Patron{
		ID:        u.PrimaryID,
		Username:  username,
		Firstname: u.FirstName,
		Lastname:  u.LastName,
		Group:     u.UserGroup.Code,
		RawID:     u.PrimaryID,
	}

	for _, a := range u.ContactInfo.Addresses {
		isWork := false
		for _, t := range a.Types {
			if t == "work" {
				isWork = true
			}
		}
		switch {
		case isWork:
			p.WorkAddress = joinAddress(a)
		case a.Preferred || p.Address1 == "":
			p.Address1 = a.Line1
			p.Address2 = a.Line2
			p.Zip = a.PostalCod
			p.City = a.City
		}
	}
	for _, e := range u.ContactInfo.Emails {
		if e.Preferred || p.Email == "" {
			p.Email = e.Address
		}
	}
	for _, ph := range u.ContactInfo.Phones {
		if ph.Preferred || p.Phone == "" {
			p.Phone = ph.Number
		}
	}
	return p
}

func joinAddress(a address) string {
	out := a.Line1
	if out == "" {
		out = a.Line2
	}
	if out == "" {
		return ""
	}
	if a.PostalCod != "" || a.City != "" {
		out += ", " + a.PostalCod
		if a.City != "" {
			out += " " + a.City
		}
	}
	return out
}

// updateUser patches the given element paths in a freshly fetched user
// document and resubmits it. Business rejections land in the result
// object; transport failures propagate.
func (d *Driver) updateUser(ctx context.Context, patron *model.Patron, patches map[string]string, paths map[string][]string, successKey string) (*model.OpResult, error) {
	doc, err := d.fetchUserRaw(ctx, patron.ID)
	if err != nil {
		return nil, err
	}

	for field, value := range patches {
		path, ok := paths[field]
		if !ok {
			continue
		}
		patched, err := patchXML(doc, path, value)
		if err != nil {
			return &model.OpResult{Success: false, Status: "error", SysMessage: "profile_update_fail"}, nil
		}
		doc = patched
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		d.buildURL("/almaws/v1/users/"+url.PathEscape(patron.ID), nil), bytes.NewReader(doc))
	if err != nil {
		return nil, ilserr.NewConnectionError(d.Cfg.Name, err)
	}
	req.Header.Set("Content-Type", "application/xml")

	resp, err := d.Do(ctx, d.client, req)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		ferr := d.classifyFault(resp)
		if ilserr.IsValidationError(ferr) {
			return &model.OpResult{Success: false, Status: "error", SysMessage: ilserr.ValidationCode(ferr)}, nil
		}
		return nil, ferr
	}
	return &model.OpResult{Success: true, Status: "ok", SysMessage: successKey}, nil
}

var addressPaths = map[string][]string{
	"address1": {"user", "contact_info", "addresses", "address", "line1"},
	"address2": {"user", "contact_info", "addresses", "address", "line2"},
	"zip":      {"user", "contact_info", "addresses", "address", "postal_code"},
	"city":     {"user", "contact_info", "addresses", "address", "city"},
	"email":    {"user", "contact_info", "emails", "email", "email_address"},
	"phone":    {"user", "contact_info", "phones", "phone", "phone_number"},
	"password": {"user", "password"},
}

// UpdateAddress rewrites the patron's primary address fields.
func (d *Driver) UpdateAddress(ctx context.Context, patron *model.Patron, fields map[string]string) (*model.OpResult, error) {
	if !d.SupportsMethod("updateAddress") {
		return &model.OpResult{Success: false, Status: "error", SysMessage: "profile_update_fail"}, nil
	}
	return d.updateUser(ctx, patron, fields, addressPaths, "profile_update_success")
}

// UpdateEmail rewrites the patron's preferred email address.
func (d *Driver) UpdateEmail(ctx context.Context, patron *model.Patron, email string) (*model.OpResult, error) {
	if !d.SupportsMethod("updateEmail") {
		return &model.OpResult{Success: false, Status: "error", SysMessage: "profile_update_fail"}, nil
	}
	return d.updateUser(ctx, patron, map[string]string{"email": email}, addressPaths, "profile_update_success")
}

// UpdatePhone rewrites the patron's preferred phone number.
func (d *Driver) UpdatePhone(ctx context.Context, patron *model.Patron, phone string) (*model.OpResult, error) {
	if !d.SupportsMethod("updatePhone") {
		return &model.OpResult{Success: false, Status: "error", SysMessage: "profile_update_fail"}, nil
	}
	return d.updateUser(ctx, patron, map[string]string{"phone": phone}, addressPaths, "profile_update_success")
}

// ChangePassword verifies the old secret via the auth operation, then
// rewrites the password element of the user document.
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

	return d.updateUser(ctx, patron, map[string]string{"password": newSecret}, addressPaths, "password_change_success")
}
