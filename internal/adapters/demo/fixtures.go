package demo

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fixtureSet is the seed data loaded into the demo store at startup,
// either from the configured fixture file or from the built-in set.
type fixtureSet struct {
	Patrons   []fixturePatron   `yaml:"patrons"`
	Items     []fixtureItem     `yaml:"items"`
	Fees      []fixtureFee      `yaml:"fees"`
	Loans     []fixtureLoan     `yaml:"loans"`
	Holds     []fixtureHold     `yaml:"holds"`
	Locations []fixtureLocation `yaml:"locations"`
}

type fixturePatron struct {
	ID          string `yaml:"id"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	Firstname   string `yaml:"firstname"`
	Lastname    string `yaml:"lastname"`
	Email       string `yaml:"email"`
	Phone       string `yaml:"phone"`
	Address1    string `yaml:"address1"`
	Zip         string `yaml:"zip"`
	City        string `yaml:"city"`
	WorkAddress string `yaml:"work_address"`
	Group       string `yaml:"group"`
}

type fixtureItem struct {
	RecordID    string `yaml:"record_id"`
	ItemID      string `yaml:"item_id"`
	Library     string `yaml:"library"`
	Location    string `yaml:"location"`
	LocationTxt string `yaml:"location_text"`
	Policy      string `yaml:"policy"`
	Status      string `yaml:"status"`
	CallNumber  string `yaml:"call_number"`
	DueDate     string `yaml:"due_date"`
	Enumeration string `yaml:"enumeration"`
	Holdable    bool   `yaml:"holdable"`
}

type fixtureFee struct {
	ID       string `yaml:"id"`
	PatronID string `yaml:"patron_id"`
	Title    string `yaml:"title"`
	Type     string `yaml:"type"`
	Amount   int    `yaml:"amount"`
	Balance  int    `yaml:"balance"`
	Created  string `yaml:"created"`
	ItemID   string `yaml:"item_id"`
}

type fixtureLoan struct {
	ItemID       string `yaml:"item_id"`
	PatronID     string `yaml:"patron_id"`
	RecordID     string `yaml:"record_id"`
	Title        string `yaml:"title"`
	DueDate      string `yaml:"due_date"`
	Renewable    bool   `yaml:"renewable"`
	RenewalCount int    `yaml:"renewal_count"`
	RenewalLimit int    `yaml:"renewal_limit"`
	Barcode      string `yaml:"barcode"`
}

type fixtureHold struct {
	RequestID string `yaml:"request_id"`
	PatronID  string `yaml:"patron_id"`
	RecordID  string `yaml:"record_id"`
	ItemID    string `yaml:"item_id"`
	Title     string `yaml:"title"`
	Pickup    string `yaml:"pickup"`
	Position  int    `yaml:"position"`
	Expires   string `yaml:"expires"`
	Available bool   `yaml:"available"`
}

type fixtureLocation struct {
	ID      string `yaml:"id"`
	Display string `yaml:"display"`
}

// loadFixtures reads the configured YAML fixture file, falling back to
// the built-in set when no file is configured.
func loadFixtures(path string) (*fixtureSet, error) {
	if path == "" {
		return builtinFixtures(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var set fixtureSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &set, nil
}

// builtinFixtures is a small dataset covering the common display and
// request scenarios without any external file.
func builtinFixtures() *fixtureSet {
	return &fixtureSet{
		Patrons: []fixturePatron{
			{
				ID: "demo-1", Username: "demo", Password: "demo",
				Firstname: "Demo", Lastname: "Patron",
				Email: "demo@example.com", Phone: "555-0100",
				Address1: "Example Street 1", Zip: "00100", City: "Helsinki",
				WorkAddress: "Office Road 2, 00200 Helsinki", Group: "adult",
			},
		},
		Items: []fixtureItem{
			{
				RecordID: "1000", ItemID: "1000-1", Library: "MAIN",
				Location: "stack", LocationTxt: "Main stacks", Policy: "normal",
				Status: "available", CallNumber: "823.92", Holdable: true,
			},
			{
				RecordID: "1000", ItemID: "1000-2", Library: "BRANCH",
				Location: "shelf", LocationTxt: "Branch shelf", Policy: "normal",
				Status: "charged", CallNumber: "823.92", DueDate: "2026-09-21",
				Holdable: true,
			},
			{
				RecordID: "2000", ItemID: "2000-1", Library: "MAIN",
				Location: "journal", LocationTxt: "Journal room", Policy: "reference",
				Status: "available", CallNumber: "PER 12",
				Enumeration: "Vol. 12 2026:3",
			},
			{
				RecordID: "2000", ItemID: "2000-2", Library: "MAIN",
				Location: "journal", LocationTxt: "Journal room", Policy: "reference",
				Status: "available", CallNumber: "PER 12",
				Enumeration: "Vol. 11 2025:4",
			},
		},
		Fees: []fixtureFee{
			{
				ID: "fee-1", PatronID: "demo-1", Title: "Overdue charge",
				Type: "overdue", Amount: 250, Balance: 250,
				Created: "2026-08-01", ItemID: "1000-2",
			},
		},
		Loans: []fixtureLoan{
			{
				ItemID: "1000-2", PatronID: "demo-1", RecordID: "1000",
				Title: "Example Novel", DueDate: "2026-09-21",
				Renewable: true, RenewalCount: 1, RenewalLimit: 3,
				Barcode: "30000000001002",
			},
		},
		Holds: []fixtureHold{
			{
				RequestID: "hold-1", PatronID: "demo-1", RecordID: "2000",
				Title: "Example Journal", Pickup: "MAIN", Position: 2,
				Expires: "2026-10-01",
			},
		},
		Locations: []fixtureLocation{
			{ID: "MAIN", Display: "Main library"},
			{ID: "BRANCH", Display: "Branch library"},
		},
	}
}
