package aurora

import "encoding/xml"

// SOAP 1.1 plumbing. Requests are hand-built envelopes; responses are
// decoded in two steps (envelope first, then the operation payload
// from the body's inner XML) so one helper serves every operation.

const soapEnvNS = "http://schemas.xmlsoap.org/soap/envelope/"

type requestEnvelope struct {
	XMLName xml.Name `xml:"soapenv:Envelope"`
	EnvNS   string   `xml:"xmlns:soapenv,attr"`
	Body    requestBody
}

type requestBody struct {
	XMLName xml.Name `xml:"soapenv:Body"`
	Payload any
}

type responseEnvelope struct {
	XMLName xml.Name     `xml:"Envelope"`
	Body    responseBody `xml:"Body"`
}

type responseBody struct {
	Fault *soapFault `xml:"Fault"`
	Inner []byte     `xml:",innerxml"`
}

type soapFault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
	Detail string `xml:"detail"`
}

// Operation payloads.

type authenticatePatron struct {
	XMLName xml.Name `xml:"aur:AuthenticatePatron"`
	AurNS   string   `xml:"xmlns:aur,attr"`
	Barcode string   `xml:"aur:patronBarcode"`
	Pin     string   `xml:"aur:pin"`
}

type authenticatePatronResponse struct {
	XMLName xml.Name     `xml:"AuthenticatePatronResponse"`
	Status  string       `xml:"status"`
	Patron  auroraPatron `xml:"patron"`
}

type auroraPatron struct {
	ID          string `xml:"patronId"`
	FirstName   string `xml:"firstName"`
	LastName    string `xml:"lastName"`
	Email       string `xml:"email"`
	Phone       string `xml:"phoneNumber"`
	Address     string `xml:"address"`
	Zip         string `xml:"zip"`
	City        string `xml:"city"`
	WorkAddress string `xml:"workAddress"`
	Category    string `xml:"patronCategory"`
}

type getRecordItems struct {
	XMLName  xml.Name `xml:"aur:GetCatalogueRecordDetail"`
	AurNS    string   `xml:"xmlns:aur,attr"`
	RecordID string   `xml:"aur:recordId"`
}

type getRecordItemsResponse struct {
	XMLName xml.Name     `xml:"GetCatalogueRecordDetailResponse"`
	Found   bool         `xml:"recordFound"`
	Items   []auroraItem `xml:"items>item"`
}

type auroraItem struct {
	ItemID       string `xml:"itemId"`
	Branch       string `xml:"branchId"`
	BranchName   string `xml:"branchName"`
	Department   string `xml:"departmentId"`
	Status       string `xml:"itemStatus"`
	CallNumber   string `xml:"shelfMark"`
	DueDate      string `xml:"dueDate"`
	PeriodicalNo string `xml:"periodicalNumber"`
	LoanPolicy   string `xml:"loanPolicy"`
	Reservable   bool   `xml:"reservable"`
}

type getLoans struct {
	XMLName  xml.Name `xml:"aur:GetLoans"`
	AurNS    string   `xml:"xmlns:aur,attr"`
	PatronID string   `xml:"aur:patronId"`
}

type getLoansResponse struct {
	XMLName xml.Name     `xml:"GetLoansResponse"`
	Loans   []auroraLoan `xml:"loans>loan"`
}

type auroraLoan struct {
	LoanID       string `xml:"loanId"`
	ItemID       string `xml:"itemId"`
	RecordID     string `xml:"recordId"`
	Title        string `xml:"title"`
	DueDate      string `xml:"dueDate"`
	Renewable    bool   `xml:"isRenewable"`
	RenewalCount int    `xml:"renewalCount"`
	RenewalLimit int    `xml:"maxRenewals"`
}

type renewLoans struct {
	XMLName  xml.Name `xml:"aur:RenewLoans"`
	AurNS    string   `xml:"xmlns:aur,attr"`
	PatronID string   `xml:"aur:patronId"`
	LoanIDs  []string `xml:"aur:loanIds>aur:loanId"`
}

type renewLoansResponse struct {
	XMLName xml.Name      `xml:"RenewLoansResponse"`
	Results []renewResult `xml:"results>result"`
}

type renewResult struct {
	LoanID     string `xml:"loanId"`
	Renewed    bool   `xml:"renewed"`
	NewDueDate string `xml:"newDueDate"`
	Message    string `xml:"message"`
}

type getDebts struct {
	XMLName  xml.Name `xml:"aur:GetDebts"`
	AurNS    string   `xml:"xmlns:aur,attr"`
	PatronID string   `xml:"aur:patronId"`
}

type getDebtsResponse struct {
	XMLName xml.Name     `xml:"GetDebtsResponse"`
	Debts   []auroraDebt `xml:"debts>debt"`
}

type auroraDebt struct {
	DebtID  string `xml:"debtId"`
	Type    string `xml:"debtType"`
	Title   string `xml:"title"`
	Amount  string `xml:"amount"`
	Balance string `xml:"balance"`
	Created string `xml:"created"`
	ItemID  string `xml:"itemId"`
}

type getReservations struct {
	XMLName  xml.Name `xml:"aur:GetReservations"`
	AurNS    string   `xml:"xmlns:aur,attr"`
	PatronID string   `xml:"aur:patronId"`
}

type getReservationsResponse struct {
	XMLName      xml.Name            `xml:"GetReservationsResponse"`
	Reservations []auroraReservation `xml:"reservations>reservation"`
}

type auroraReservation struct {
	ReservationID string `xml:"reservationId"`
	RecordID      string `xml:"recordId"`
	ItemID        string `xml:"itemId"`
	Title         string `xml:"title"`
	PickupBranch  string `xml:"pickupBranchId"`
	QueuePosition int    `xml:"queuePosition"`
	ValidTo       string `xml:"validTo"`
	OnHoldShelf   bool   `xml:"readyForPickup"`
	Deletable     bool   `xml:"deletable"`
}

type addReservation struct {
	XMLName      xml.Name `xml:"aur:AddReservation"`
	AurNS        string   `xml:"xmlns:aur,attr"`
	PatronID     string   `xml:"aur:patronId"`
	RecordID     string   `xml:"aur:recordId"`
	ItemID       string   `xml:"aur:itemId,omitempty"`
	PickupBranch string   `xml:"aur:pickupBranchId,omitempty"`
	// DeliveryType is "BRANCH" or a ship-to-address type when the
	// pickup id is the reserved home/work destination.
	DeliveryType string `xml:"aur:deliveryType"`
	ValidTo      string `xml:"aur:validTo,omitempty"`
	Comment      string `xml:"aur:comment,omitempty"`
}

type addReservationResponse struct {
	XMLName xml.Name `xml:"AddReservationResponse"`
	Success bool     `xml:"success"`
	Message string   `xml:"message"`
}

type cancelReservation struct {
	XMLName       xml.Name `xml:"aur:CancelReservation"`
	AurNS         string   `xml:"xmlns:aur,attr"`
	PatronID      string   `xml:"aur:patronId"`
	ReservationID string   `xml:"aur:reservationId"`
}

type cancelReservationResponse struct {
	XMLName xml.Name `xml:"CancelReservationResponse"`
	Success bool     `xml:"success"`
	Message string   `xml:"message"`
}

type getBranches struct {
	XMLName xml.Name `xml:"aur:GetBranches"`
	AurNS   string   `xml:"xmlns:aur,attr"`
}

type getBranchesResponse struct {
	XMLName  xml.Name       `xml:"GetBranchesResponse"`
	Branches []auroraBranch `xml:"branches>branch"`
}

type auroraBranch struct {
	ID        string `xml:"branchId"`
	Name      string `xml:"branchName"`
	SortOrder int    `xml:"sortOrder"`
}

type changePatronInfo struct {
	XMLName  xml.Name `xml:"aur:ChangePatronInfo"`
	AurNS    string   `xml:"xmlns:aur,attr"`
	PatronID string   `xml:"aur:patronId"`
	Address  string   `xml:"aur:address,omitempty"`
	Zip      string   `xml:"aur:zip,omitempty"`
	City     string   `xml:"aur:city,omitempty"`
	Email    string   `xml:"aur:email,omitempty"`
	Phone    string   `xml:"aur:phoneNumber,omitempty"`
}

type changePatronInfoResponse struct {
	XMLName xml.Name `xml:"ChangePatronInfoResponse"`
	Success bool     `xml:"success"`
	Message string   `xml:"message"`
}

type changePin struct {
	XMLName  xml.Name `xml:"aur:ChangePin"`
	AurNS    string   `xml:"xmlns:aur,attr"`
	PatronID string   `xml:"aur:patronId"`
	OldPin   string   `xml:"aur:oldPin"`
	NewPin   string   `xml:"aur:newPin"`
}

type changePinResponse struct {
	XMLName xml.Name `xml:"ChangePinResponse"`
	Success bool     `xml:"success"`
	Message string   `xml:"message"`
}
