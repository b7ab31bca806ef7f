// Package translate turns canonical status and message keys into
// end-user text. The real application injects its own translator; the
// CLI uses the built-in message table and falls back to the key itself
// so nothing is ever lost.
package translate

// Func resolves a message key to display text.
type Func func(key string) string

var messages = map[string]string{
	"status_Available":  "Available",
	"status_Charged":    "On loan",
	"status_On Hold":    "On hold shelf",
	"status_In Transit": "In transit",
	"status_Lost":       "Lost",
	"status_Withdrawn":  "Withdrawn",
	"status_In Process": "In processing",
	"status_Overdue":    "Overdue",
	"status_Missing":    "Missing",
	"status_On Order":   "On order",
	"status_Unknown":    "Status unknown",

	"hold_success":            "Request placed",
	"hold_error_fail":         "Request failed",
	"hold_invalid_pickup":     "Invalid pickup location",
	"hold_duplicate":          "You already have a request on this item",
	"hold_missing_field":      "A required field is missing",
	"hold_not_holdable":       "This item cannot be requested",
	"renew_success":           "Renewed",
	"renew_fail":              "Renewal failed",
	"renew_limit_reached":     "Renewal limit reached",
	"cancel_success":          "Request cancelled",
	"cancel_fail":             "Cancellation failed",
	"profile_update_success":  "Information updated",
	"profile_update_fail":     "Update failed",
	"password_change_success": "Password changed",
	"password_change_fail":    "Password change failed",
	"ils_offline":             "The library system is offline, please try again later",
}

// Default resolves key against the built-in message table, returning
// the key unchanged when unknown.
func Default(key string) string {
	if text, ok := messages[key]; ok {
		return text
	}
	return key
}
