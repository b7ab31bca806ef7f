// Package model defines the canonical types shared by all ILS drivers.
// Drivers translate their backend's native payloads into these types at
// their own boundary; nothing above the driver contract ever sees a raw
// backend document or status code.
package model

import "time"

// Patron is a backend user resolved by a successful login. It lives for
// the duration of a request or session and is never persisted here.
type Patron struct {
	ID          string
	Username    string
	Firstname   string
	Lastname    string
	Email       string
	Phone       string
	Address1    string
	Address2    string
	Zip         string
	City        string
	WorkAddress string
	Group       string
	// RawID is the backend's own identifier when it differs from ID
	// (e.g. an internal numeric key behind a barcode).
	RawID string
}

// DisplayName returns the patron's name in "First Last" form.
func (p *Patron) DisplayName() string {
	switch {
	case p.Firstname == "":
		return p.Lastname
	case p.Lastname == "":
		return p.Firstname
	default:
		return p.Firstname + " " + p.Lastname
	}
}

// HomeAddress returns the patron's home address as a single display
// string, or "" when no address is on file.
func (p *Patron) HomeAddress() string {
	addr := p.Address1
	if addr == "" {
		addr = p.Address2
	}
	if addr == "" {
		return ""
	}
	if p.Zip != "" || p.City != "" {
		addr += ", " + p.Zip
		if p.City != "" {
			addr += " " + p.City
		}
	}
	return addr
}

// Holding is one displayable copy (or an aggregate summary row) of a
// bibliographic record. Immutable once built; annotate via Clone.
type Holding struct {
	RecordID     string
	ItemID       string
	HoldingID    string
	Library      string // owning library/branch code
	Location     string // location code
	LocationText string // translatable display label
	Policy       string // loan policy code, input to pickup rules
	Available    bool
	Status       Status
	CallNumber   string
	DueDate      *time.Time
	// Enumeration carries the enumeration/chronology string
	// ("Vol. 12 1998:3") used for reverse-chronological display sort.
	Enumeration string
	// Sort is the insertion index assigned on arrival; the display
	// comparator uses it as the final tie-break so ordering is total.
	Sort     int
	Holdable bool
	// Summary marks an aggregate row (available/total counts) rather
	// than a physical copy.
	Summary        bool
	AvailableCount int
	TotalCount     int
	// DetailsAJAX marks a holding whose full details load lazily.
	DetailsAJAX bool
}

// Clone returns a copy of the holding safe to annotate after the
// original has been handed to a caller.
func (h *Holding) Clone() *Holding {
	c := *h
	if h.DueDate != nil {
		d := *h.DueDate
		c.DueDate = &d
	}
	return &c
}

// HoldingsResult is the canonical answer to an availability query.
// An id the backend has no data for yields Total == 0 and empty slices,
// not an error.
type HoldingsResult struct {
	Total              int
	Holdings           []*Holding
	ElectronicHoldings []*Holding
}

// Fee is one outstanding fine or charge. Amounts are integer minor
// currency units (cents).
type Fee struct {
	ID       string
	Title    string
	Type     string
	Amount   int
	Balance  int
	Created  *time.Time
	Payable  bool
	ItemID   string
	RecordID string
}

// Loan is one item currently on loan to a patron.
type Loan struct {
	ItemID       string
	RecordID     string
	Title        string
	DueDate      *time.Time
	Renewable    bool
	RenewalCount int
	RenewalLimit int
	Barcode      string
}

// Hold is one open reservation as reported by the backend.
type Hold struct {
	RequestID      string
	RecordID       string
	ItemID         string
	Title          string
	PickupLocation string
	Position       int
	Expires        *time.Time
	Available      bool // ready for pickup
	Cancelable     bool
}

// HoldRequest describes a reservation to place. Consumed once by
// PlaceHold.
type HoldRequest struct {
	RecordID       string
	ItemID         string
	PickupLocation string
	PatronID       string
	RequiredBy     *time.Time
	Comment        string
}

// HoldResult is the outcome of PlaceHold. SysMessage is a message key
// for the translation layer, never end-user prose.
type HoldResult struct {
	Success    bool
	SysMessage string
}

// OpResult is the outcome of a profile-update operation.
type OpResult struct {
	Success    bool
	Status     string
	SysMessage string
}

// ItemResult is the per-item outcome of a batch renew or cancel.
type ItemResult struct {
	Success    bool
	SysMessage string
	DueDate    *time.Time // new due date after a successful renewal
}

// RenewResult maps item id to its individual outcome so callers can
// report partial success.
type RenewResult struct {
	PerItem map[string]ItemResult
}

// CancelResult reports how many holds were cancelled and the per-item
// outcomes.
type CancelResult struct {
	Count   int
	PerItem map[string]ItemResult
}

// PickupLocation is a place a patron may collect a requested item. A
// synthetic home/work destination uses the reserved IDs below.
type PickupLocation struct {
	ID      string
	Display string
	Order   int
}

// Reserved pickup-location ids for ship-to-address destinations.
const (
	PickupHome = "$$HOME"
	PickupWork = "$$WORK"
)
