package mikromarc

// OData payload shapes for the Mikromarc-style REST API. Collection
// responses carry their continuation in @odata.nextLink; the driver
// follows it up to the configured page ceiling.

type collection[T any] struct {
	Count    int    `json:"@odata.count"`
	NextLink string `json:"@odata.nextLink"`
	Value    []T    `json:"value"`
}

type odataError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type loginRequest struct {
	Username string `json:"Username"`
	Password string `json:"Password"`
	UnitID   string `json:"UnitId"`
}

type loginResponse struct {
	Token string `json:"Token"`
}

type authenticateRequest struct {
	Barcode string `json:"Barcode"`
	Pin     string `json:"Pin"`
}

type borrower struct {
	ID          int    `json:"Id"`
	Barcode     string `json:"Barcode"`
	FirstName   string `json:"FirstName"`
	LastName    string `json:"LastName"`
	Email       string `json:"MainEmail"`
	Phone       string `json:"MainPhone"`
	Address     string `json:"Address1"`
	Address2    string `json:"Address2"`
	Zip         string `json:"ZipCode"`
	City        string `json:"City"`
	WorkAddress string `json:"WorkAddress"`
	GroupCode   string `json:"BorrowerGroupCode"`
	Pin         string `json:"Pin,omitempty"`
}

type odataItem struct {
	ID           int    `json:"Id"`
	MarcRecordID int    `json:"MarcRecordId"`
	UnitID       string `json:"BelongToUnitId"`
	UnitName     string `json:"BelongToUnitName"`
	Department   string `json:"PlacementCode"`
	Status       string `json:"ItemStatus"`
	CallNumber   string `json:"Classification"`
	DueDate      string `json:"DueDate"`
	Periodical   string `json:"PeriodicalIssue"`
	LoanPolicy   string `json:"LoanPolicyCode"`
	Reservable   bool   `json:"IsReservable"`
}

type odataDebt struct {
	ID      int    `json:"Id"`
	Type    string `json:"DebtType"`
	Title   string `json:"Note"`
	Amount  int    `json:"AmountInCents"`
	Balance int    `json:"BalanceInCents"`
	Created string `json:"CreatedDate"`
	ItemID  int    `json:"ItemId"`
}

type odataLoan struct {
	ID           int    `json:"Id"`
	ItemID       int    `json:"ItemId"`
	MarcRecordID int    `json:"MarcRecordId"`
	Title        string `json:"Title"`
	DueDate      string `json:"DueDate"`
	Renewable    bool   `json:"CanBeRenewed"`
	RenewalCount int    `json:"NumberOfRenewals"`
	RenewalLimit int    `json:"MaxRenewals"`
	Barcode      string `json:"ItemBarcode"`
}

type renewResponse struct {
	Success    bool   `json:"Success"`
	NewDueDate string `json:"NewDueDate"`
	Message    string `json:"Message"`
}

type odataReservation struct {
	ID             int    `json:"Id"`
	MarcRecordID   int    `json:"MarcRecordId"`
	ItemID         int    `json:"ItemId"`
	Title          string `json:"Title"`
	DeliverAtUnit  string `json:"DeliverAtUnitId"`
	QueueNumber    int    `json:"QueueNumber"`
	ValidTo        string `json:"ValidToDate"`
	ReadyForPickup bool   `json:"IsReadyForPickup"`
	CanBeDeleted   bool   `json:"CanBeDeleted"`
}

type reservationRequest struct {
	BorrowerID    int    `json:"BorrowerId"`
	MarcRecordID  int    `json:"MarcRecordId"`
	ItemID        int    `json:"ItemId,omitempty"`
	DeliverAtUnit string `json:"DeliverAtUnitId,omitempty"`
	// DeliveryType is "Unit" for branch pickup, or a ship-to-address
	// type for the reserved home/work destinations.
	DeliveryType string `json:"DeliveryType"`
	ValidTo      string `json:"ValidToDate,omitempty"`
	Note         string `json:"Note,omitempty"`
}

type odataUnit struct {
	ID        string `json:"Id"`
	Name      string `json:"Name"`
	SortOrder int    `json:"SortOrder"`
	IsPickup  bool   `json:"IsPickupLocation"`
}
