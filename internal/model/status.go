package model

// Status is the canonical availability state of a holding. Drivers map
// every backend-specific code onto this closed set; unmapped codes
// become StatusUnknown, never a raw backend string.
type Status string

const (
	StatusAvailable Status = "Available"
	StatusCharged   Status = "Charged"
	StatusOnHold    Status = "On Hold"
	StatusInTransit Status = "In Transit"
	StatusLost      Status = "Lost"
	StatusWithdrawn Status = "Withdrawn"
	StatusInProcess Status = "In Process"
	StatusOverdue   Status = "Overdue"
	StatusMissing   Status = "Missing"
	StatusOnOrder   Status = "On Order"
	StatusUnknown   Status = "Unknown"
)

// Key returns the translation key for the status.
func (s Status) Key() string {
	return "status_" + string(s)
}

// Loanable reports whether the status normally allows immediate loan.
func (s Status) Loanable() bool {
	return s == StatusAvailable
}
