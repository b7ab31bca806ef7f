package alma

import "encoding/xml"

// XML payload shapes for the Alma REST API. Only the fields the driver
// reads are declared; everything else is preserved by InnerXML where a
// document must be round-tripped.

type itemList struct {
	XMLName xml.Name `xml:"items"`
	Total   int      `xml:"total_record_count,attr"`
	Items   []item   `xml:"item"`
}

type item struct {
	HoldingData holdingData `xml:"holding_data"`
	ItemData    itemData    `xml:"item_data"`
}

type holdingData struct {
	HoldingID string `xml:"holding_id"`
}

type itemData struct {
	PID         string   `xml:"pid"`
	Barcode     string   `xml:"barcode"`
	BaseStatus  codeDesc `xml:"base_status"`
	ProcessType codeDesc `xml:"process_type"`
	Library     codeDesc `xml:"library"`
	Location    codeDesc `xml:"location"`
	CallNumber  string   `xml:"alternative_call_number"`
	DueDate     string   `xml:"due_date"`
	Description string   `xml:"description"`
	Policy      codeDesc `xml:"policy"`
	Requested   bool     `xml:"requested"`
}

// codeDesc is Alma's ubiquitous code + description pair.
type codeDesc struct {
	Code string `xml:",chardata"`
	Desc string `xml:"desc,attr"`
}

type user struct {
	XMLName      xml.Name     `xml:"user"`
	PrimaryID    string       `xml:"primary_id"`
	FirstName    string       `xml:"first_name"`
	LastName     string       `xml:"last_name"`
	UserGroup    codeDesc     `xml:"user_group"`
	ContactInfo  contactInfo  `xml:"contact_info"`
	UserIdentifs []identifier `xml:"user_identifiers>user_identifier"`
}

type identifier struct {
	IDType codeDesc `xml:"id_type"`
	Value  string   `xml:"value"`
}

type contactInfo struct {
	Addresses []address `xml:"addresses>address"`
	Emails    []email   `xml:"emails>email"`
	Phones    []phone   `xml:"phones>phone"`
}

type address struct {
	Preferred bool     `xml:"preferred,attr"`
	Line1     string   `xml:"line1"`
	Line2     string   `xml:"line2"`
	City      string   `xml:"city"`
	PostalCod string   `xml:"postal_code"`
	Types     []string `xml:"address_types>address_type"`
}

type email struct {
	Preferred bool   `xml:"preferred,attr"`
	Address   string `xml:"email_address"`
}

type phone struct {
	Preferred bool   `xml:"preferred,attr"`
	Number    string `xml:"phone_number"`
}

type feeList struct {
	XMLName xml.Name `xml:"fees"`
	Total   int      `xml:"total_record_count,attr"`
	Fees    []fee    `xml:"fee"`
}

type fee struct {
	ID           string   `xml:"id"`
	Type         codeDesc `xml:"type"`
	Status       codeDesc `xml:"status"`
	Balance      string   `xml:"balance"`
	Original     string   `xml:"original_amount"`
	CreationTime string   `xml:"creation_time"`
	Title        string   `xml:"title"`
	BarcodeValue string   `xml:"barcode"`
}

type loanList struct {
	XMLName xml.Name `xml:"item_loans"`
	Total   int      `xml:"total_record_count,attr"`
	Loans   []loan   `xml:"item_loan"`
}

type loan struct {
	LoanID    string `xml:"loan_id"`
	ItemPID   string `xml:"item_id"` // item process id, not barcode
	MmsID     string `xml:"mms_id"`
	Title     string `xml:"title"`
	DueDate   string `xml:"due_date"`
	Barcode   string `xml:"item_barcode"`
	Renewable bool   `xml:"renewable"`
}

type requestList struct {
	XMLName  xml.Name  `xml:"user_requests"`
	Total    int       `xml:"total_record_count,attr"`
	Requests []request `xml:"user_request"`
}

type request struct {
	XMLName       xml.Name `xml:"user_request"`
	RequestID     string   `xml:"request_id,omitempty"`
	MmsID         string   `xml:"mms_id,omitempty"`
	ItemID        string   `xml:"item_id,omitempty"`
	RequestType   string   `xml:"request_type"`
	PickupType    string   `xml:"pickup_location_type,omitempty"`
	PickupLibrary string   `xml:"pickup_location_library,omitempty"`
	Title         string   `xml:"title,omitempty"`
	Status        string   `xml:"request_status,omitempty"`
	Position      int      `xml:"place_in_queue,omitempty"`
	ExpiryDate    string   `xml:"expiry_date,omitempty"`
	LastInterest  string   `xml:"last_interest_date,omitempty"`
	Comment       string   `xml:"comment,omitempty"`
}

type libraryList struct {
	XMLName   xml.Name  `xml:"libraries"`
	Libraries []library `xml:"library"`
}

type library struct {
	Code string `xml:"code"`
	Name string `xml:"name"`
}

// webServiceResult is Alma's error envelope.
type webServiceResult struct {
	XMLName xml.Name    `xml:"web_service_result"`
	Errors  []almaFault `xml:"errorList>error"`
}

type almaFault struct {
	Code    string `xml:"errorCode"`
	Message string `xml:"errorMessage"`
}
