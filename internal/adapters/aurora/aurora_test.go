package aurora

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kirjasto/ils/internal/config"
	"github.com/kirjasto/ils/internal/driver"
	"github.com/kirjasto/ils/internal/ilserr"
	"github.com/kirjasto/ils/internal/model"
	"github.com/kirjasto/ils/internal/reqcache"
)

// soapServer dispatches on the SOAPAction header and records each
// request body for wire-level assertions.
type soapServer struct {
	t        *testing.T
	handlers map[string]func(body string) (status int, response string)
	bodies   map[string][]string
}

func newSoapServer(t *testing.T) *soapServer {
	return &soapServer{
		t:        t,
		handlers: make(map[string]func(string) (int, string)),
		bodies:   make(map[string][]string),
	}
}

func (s *soapServer) handle(action string, fn func(body string) (int, string)) {
	s.handlers[action] = fn
}

func (s *soapServer) reply(action, inner string) {
	s.handle(action, func(string) (int, string) {
		return http.StatusOK, envelope(inner)
	})
}

func (s *soapServer) fault(action, code, message string) {
	s.handle(action, func(string) (int, string) {
		return http.StatusInternalServerError, envelope(fmt.Sprintf(
			`<soap:Fault><faultcode>soap:%s</faultcode><faultstring>%s</faultstring></soap:Fault>`,
			code, message))
	})
}

func (s *soapServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	action := strings.Trim(r.Header.Get("SOAPAction"), `"`)
	action = action[strings.LastIndexByte(action, '/')+1:]

	body, _ := io.ReadAll(r.Body)
	s.bodies[action] = append(s.bodies[action], string(body))

	fn, ok := s.handlers[action]
	if !ok {
		s.t.Errorf("unexpected SOAP action %q", action)
		w.WriteHeader(http.StatusNotFound)
		return
	}
	status, response := fn(string(body))
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, response)
}

func envelope(inner string) string {
	return `<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body>` +
		inner + `</soap:Body></soap:Envelope>`
}

var auroraTestCounter int

func newTestDriver(t *testing.T, s *soapServer, mutate func(*config.Backend)) *Driver {
	t.Helper()

	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	auroraTestCounter++
	cfg := &config.Backend{
		Name:           fmt.Sprintf("aurora-test-%d", auroraTestCounter),
		Driver:         DriverName,
		Host:           srv.URL,
		Username:       "svc",
		Password:       "hunter2",
		TimeoutSeconds: 5,
		RatePerSecond:  1000,
		CacheTTLSecs:   30,
		HoldsEnabled:   true,
	}
	if mutate != nil {
		mutate(cfg)
	}

	drv, err := New(driver.Deps{Config: cfg, Cache: reqcache.NewMemory()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return drv.(*Driver)
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(driver.Deps{Config: &config.Backend{
		Name: "bad", Driver: DriverName, Host: "https://x", Username: "svc",
	}})
	if !ilserr.IsConfigurationError(err) {
		t.Fatalf("err = %v, want ConfigurationError", err)
	}
}

func TestPatronLogin(t *testing.T) {
	s := newSoapServer(t)
	s.reply("AuthenticatePatron", `<AuthenticatePatronResponse>
		<status>ok</status>
		<patron>
			<patronId>P9</patronId>
			<firstName>Matti</firstName>
			<lastName>Meikäläinen</lastName>
			<email>matti@example.com</email>
			<address>Katu 1</address>
			<zip>00100</zip>
			<city>Helsinki</city>
			<workAddress>Työkatu 2, 00200 Helsinki</workAddress>
			<patronCategory>adult</patronCategory>
		</patron>
	</AuthenticatePatronResponse>`)

	d := newTestDriver(t, s, nil)

	patron, err := d.PatronLogin(context.Background(), "12345", "0000")
	if err != nil {
		t.Fatalf("PatronLogin failed: %v", err)
	}
	if patron == nil || patron.ID != "P9" {
		t.Fatalf("patron = %+v", patron)
	}
	if patron.DisplayName() != "Matti Meikäläinen" {
		t.Errorf("DisplayName = %q", patron.DisplayName())
	}
	if patron.HomeAddress() != "Katu 1, 00100 Helsinki" {
		t.Errorf("HomeAddress = %q", patron.HomeAddress())
	}

	// Basic auth carries the service account, not the patron.
	body := s.bodies["AuthenticatePatron"][0]
	if !strings.Contains(body, "<aur:patronBarcode>12345</aur:patronBarcode>") {
		t.Errorf("barcode missing from payload: %s", body)
	}
}

func TestPatronLoginRejected(t *testing.T) {
	s := newSoapServer(t)
	s.reply("AuthenticatePatron", `<AuthenticatePatronResponse><status>failed</status></AuthenticatePatronResponse>`)

	d := newTestDriver(t, s, nil)

	patron, err := d.PatronLogin(context.Background(), "12345", "wrong")
	if err != nil {
		t.Fatalf("rejected credentials must not error: %v", err)
	}
	if patron != nil {
		t.Errorf("patron = %+v, want nil", patron)
	}
}

func TestGetHoldingSingleRoundTrip(t *testing.T) {
	s := newSoapServer(t)
	s.reply("GetCatalogueRecordDetail", `<GetCatalogueRecordDetailResponse>
		<recordFound>true</recordFound>
		<items>
			<item><itemId>i1</itemId><branchId>EAST</branchId><departmentId>EAST</departmentId>
				<itemStatus>OnLoan</itemStatus><dueDate>2026-10-01</dueDate><reservable>true</reservable></item>
			<item><itemId>i2</itemId><branchId>MAIN</branchId><departmentId>MAIN</departmentId>
				<itemStatus>AvailableForLoan</itemStatus><reservable>true</reservable></item>
		</items>
	</GetCatalogueRecordDetailResponse>`)

	d := newTestDriver(t, s, func(cfg *config.Backend) {
		cfg.LocationPriority = []string{"MAIN", "EAST"}
	})

	result, err := d.GetHolding(context.Background(), "r1", nil)
	if err != nil {
		t.Fatalf("GetHolding failed: %v", err)
	}
	if len(result.Holdings) != 3 {
		t.Fatalf("got %d rows, want 2 items + summary", len(result.Holdings))
	}
	if result.Holdings[0].ItemID != "i2" {
		t.Errorf("first row = %s, want the prioritized branch", result.Holdings[0].ItemID)
	}
	if result.Holdings[0].Status != model.StatusAvailable {
		t.Errorf("status = %v", result.Holdings[0].Status)
	}
	if result.Holdings[1].DueDate == nil {
		t.Error("loaned item lost its due date")
	}

	summary := result.Holdings[2]
	if !summary.Summary || summary.AvailableCount != 1 || summary.TotalCount != 2 {
		t.Errorf("summary = %+v", summary)
	}

	// Second call must hit the memo, not the wire.
	if _, err := d.GetHolding(context.Background(), "r1", nil); err != nil {
		t.Fatal(err)
	}
	if n := len(s.bodies["GetCatalogueRecordDetail"]); n != 1 {
		t.Errorf("backend called %d times, want 1", n)
	}
}

func TestGetHoldingRecordNotFound(t *testing.T) {
	s := newSoapServer(t)
	s.reply("GetCatalogueRecordDetail",
		`<GetCatalogueRecordDetailResponse><recordFound>false</recordFound></GetCatalogueRecordDetailResponse>`)

	d := newTestDriver(t, s, nil)

	result, err := d.GetHolding(context.Background(), "missing", nil)
	if err != nil {
		t.Fatalf("unknown record must be empty, not an error: %v", err)
	}
	if len(result.Holdings) != 0 || result.Total != 0 {
		t.Errorf("result = %+v", result)
	}
}

func TestStatusOverrides(t *testing.T) {
	s := newSoapServer(t)
	s.reply("GetCatalogueRecordDetail", `<GetCatalogueRecordDetailResponse>
		<recordFound>true</recordFound>
		<items><item><itemId>i1</itemId><itemStatus>LocalWeird</itemStatus></item></items>
	</GetCatalogueRecordDetailResponse>`)

	d := newTestDriver(t, s, func(cfg *config.Backend) {
		cfg.StatusMap = map[string]string{"localweird": "Available"}
	})

	result, err := d.GetHolding(context.Background(), "r1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Holdings[0].Status != model.StatusAvailable {
		t.Errorf("override ignored, status = %v", result.Holdings[0].Status)
	}
}

func TestPlaceHoldBranchPickup(t *testing.T) {
	s := newSoapServer(t)
	s.reply("AddReservation", `<AddReservationResponse><success>true</success></AddReservationResponse>`)

	d := newTestDriver(t, s, nil)

	result, err := d.PlaceHold(context.Background(), &model.HoldRequest{
		RecordID:       "r1",
		PatronID:       "P9",
		PickupLocation: "MAIN",
	})
	if err != nil {
		t.Fatalf("PlaceHold failed: %v", err)
	}
	if !result.Success || result.SysMessage != "hold_success" {
		t.Errorf("result = %+v", result)
	}

	body := s.bodies["AddReservation"][0]
	if !strings.Contains(body, "<aur:deliveryType>BRANCH</aur:deliveryType>") {
		t.Errorf("deliveryType missing: %s", body)
	}
	if !strings.Contains(body, "<aur:pickupBranchId>MAIN</aur:pickupBranchId>") {
		t.Errorf("branch id missing: %s", body)
	}
}

func TestPlaceHoldHomeDelivery(t *testing.T) {
	s := newSoapServer(t)
	s.reply("AddReservation", `<AddReservationResponse><success>true</success></AddReservationResponse>`)

	d := newTestDriver(t, s, nil)

	_, err := d.PlaceHold(context.Background(), &model.HoldRequest{
		RecordID:       "r1",
		PatronID:       "P9",
		PickupLocation: model.PickupHome,
	})
	if err != nil {
		t.Fatal(err)
	}

	body := s.bodies["AddReservation"][0]
	if !strings.Contains(body, "<aur:deliveryType>HOME_DELIVERY</aur:deliveryType>") {
		t.Errorf("home delivery type missing: %s", body)
	}
	if strings.Contains(body, "pickupBranchId") {
		t.Errorf("home delivery must not carry a branch id: %s", body)
	}
}

func TestPlaceHoldClientFault(t *testing.T) {
	s := newSoapServer(t)
	s.fault("AddReservation", "Client", "Reservation exists")

	d := newTestDriver(t, s, nil)

	result, err := d.PlaceHold(context.Background(), &model.HoldRequest{
		RecordID: "r1", PatronID: "P9", PickupLocation: "MAIN",
	})
	if err != nil {
		t.Fatalf("client fault must fold into the result: %v", err)
	}
	if result.Success || result.SysMessage != "hold_duplicate" {
		t.Errorf("result = %+v", result)
	}
}

func TestPlaceHoldServerFault(t *testing.T) {
	s := newSoapServer(t)
	s.fault("AddReservation", "Server", "database unavailable")

	d := newTestDriver(t, s, nil)

	_, err := d.PlaceHold(context.Background(), &model.HoldRequest{
		RecordID: "r1", PatronID: "P9", PickupLocation: "MAIN",
	})
	if !ilserr.IsConnectionError(err) {
		t.Fatalf("err = %v, want ConnectionError", err)
	}
}

func TestRenewItemsBatch(t *testing.T) {
	s := newSoapServer(t)
	s.reply("RenewLoans", `<RenewLoansResponse><results>
		<result><loanId>L1</loanId><renewed>true</renewed><newDueDate>2026-10-15</newDueDate></result>
		<result><loanId>L2</loanId><renewed>false</renewed><message>max renewals reached</message></result>
	</results></RenewLoansResponse>`)

	d := newTestDriver(t, s, nil)
	patron := &model.Patron{ID: "P9"}

	result, err := d.RenewItems(context.Background(), patron, []string{"L1", "L2", "L3"})
	if err != nil {
		t.Fatalf("RenewItems failed: %v", err)
	}

	if r := result.PerItem["L1"]; !r.Success || r.DueDate == nil {
		t.Errorf("L1 = %+v", r)
	}
	if r := result.PerItem["L2"]; r.Success || r.SysMessage != "renew_limit_reached" {
		t.Errorf("L2 = %+v", r)
	}
	// L3 was never mentioned by the backend: failed, not dropped.
	if r, ok := result.PerItem["L3"]; !ok || r.Success || r.SysMessage != "renew_fail" {
		t.Errorf("L3 = %+v, ok = %v", r, ok)
	}
}

func TestCancelHolds(t *testing.T) {
	s := newSoapServer(t)
	calls := 0
	s.handle("CancelReservation", func(body string) (int, string) {
		calls++
		if strings.Contains(body, "<aur:reservationId>R2</aur:reservationId>") {
			return http.StatusOK, envelope(
				`<CancelReservationResponse><success>false</success><message>gone</message></CancelReservationResponse>`)
		}
		return http.StatusOK, envelope(
			`<CancelReservationResponse><success>true</success></CancelReservationResponse>`)
	})

	d := newTestDriver(t, s, nil)

	result, err := d.CancelHolds(context.Background(), &model.Patron{ID: "P9"}, []string{"R1", "R2"})
	if err != nil {
		t.Fatalf("CancelHolds failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("backend called %d times, want one call per reservation", calls)
	}
	if result.Count != 1 {
		t.Errorf("Count = %d", result.Count)
	}
	if !result.PerItem["R1"].Success || result.PerItem["R2"].Success {
		t.Errorf("per item = %+v", result.PerItem)
	}
}

func TestGetMyFinesMinorUnits(t *testing.T) {
	s := newSoapServer(t)
	s.reply("GetDebts", `<GetDebtsResponse><debts>
		<debt><debtId>d1</debtId><debtType>overdue</debtType><amount>3,50</amount><balance>1,00</balance></debt>
	</debts></GetDebtsResponse>`)

	d := newTestDriver(t, s, func(cfg *config.Backend) { cfg.FinesPayable = true })

	fees, err := d.GetMyFines(context.Background(), &model.Patron{ID: "P9"})
	if err != nil {
		t.Fatal(err)
	}
	if len(fees) != 1 {
		t.Fatalf("got %d fees", len(fees))
	}
	if fees[0].Amount != 350 || fees[0].Balance != 100 {
		t.Errorf("amounts = %d / %d", fees[0].Amount, fees[0].Balance)
	}
	if !fees[0].Payable {
		t.Error("fines_payable backend must mark fees payable")
	}
}

func TestGetPickupLocationsRuleFiltered(t *testing.T) {
	s := newSoapServer(t)
	s.reply("GetBranches", `<GetBranchesResponse><branches>
		<branch><branchId>MAIN</branchId><branchName>Main</branchName><sortOrder>1</sortOrder></branch>
		<branch><branchId>EAST</branchId><branchName>East</branchName><sortOrder>2</sortOrder></branch>
		<branch><branchId>DEPOT</branchId><branchName>Depot</branchName><sortOrder>3</sortOrder></branch>
	</branches></GetBranchesResponse>`)

	d := newTestDriver(t, s, func(cfg *config.Backend) {
		cfg.PickupRules = "group=adult:pickup=MAIN,EAST"
	})

	locations, err := d.GetPickupLocations(context.Background(),
		&model.Patron{ID: "P9", Group: "adult"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(locations) != 2 || locations[0].ID != "MAIN" || locations[1].ID != "EAST" {
		t.Errorf("locations = %+v", locations)
	}
}

func TestChangePassword(t *testing.T) {
	s := newSoapServer(t)
	s.reply("ChangePin", `<ChangePinResponse><success>true</success></ChangePinResponse>`)

	d := newTestDriver(t, s, func(cfg *config.Backend) { cfg.ChangePasswordEnabled = true })

	result, err := d.ChangePassword(context.Background(), &model.Patron{ID: "P9"}, "0000", "1234")
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success || result.SysMessage != "password_change_success" {
		t.Errorf("result = %+v", result)
	}

	body := s.bodies["ChangePin"][0]
	if !strings.Contains(body, "<aur:oldPin>0000</aur:oldPin>") ||
		!strings.Contains(body, "<aur:newPin>1234</aur:newPin>") {
		t.Errorf("pins missing from payload: %s", body)
	}
}

func TestUpdateEmailDisabled(t *testing.T) {
	d := newTestDriver(t, newSoapServer(t), nil)

	result, err := d.UpdateEmail(context.Background(), &model.Patron{ID: "P9"}, "x@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if result.Success || result.SysMessage != "profile_update_fail" {
		t.Errorf("result = %+v", result)
	}
}
