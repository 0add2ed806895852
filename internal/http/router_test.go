package httpserver

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"evmarket/internal/http/handlers"
	"evmarket/internal/models"
	"evmarket/internal/repository"
	"evmarket/internal/service"
)

type memStationStore struct {
	stations []models.Station
}

func (s *memStationStore) ListActive(ctx context.Context) ([]models.Station, error) {
	var active []models.Station
	for _, station := range s.stations {
		if station.IsActive {
			active = append(active, station)
		}
	}
	return active, nil
}

func (s *memStationStore) Search(ctx context.Context, filters repository.SearchFilters) ([]models.Station, error) {
	var matched []models.Station
	for _, station := range s.stations {
		if !station.IsActive {
			continue
		}
		if filters.ConnectorType != "" && station.ChargerDetails.ConnectorType != filters.ConnectorType {
			continue
		}
		if filters.ChargingSpeed != "" && station.ChargerDetails.ChargingSpeed != filters.ChargingSpeed {
			continue
		}
		if filters.MaxPrice > 0 && station.Pricing.PricePerKwh > filters.MaxPrice {
			continue
		}
		matched = append(matched, station)
	}
	return matched, nil
}

func (s *memStationStore) GetByID(ctx context.Context, stationID string) (*models.Station, error) {
	for i := range s.stations {
		if s.stations[i].StationID == stationID {
			return &s.stations[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

type memBookingStore struct {
	byID map[string]*models.Booking
}

func (s *memBookingStore) Create(ctx context.Context, booking *models.Booking) error {
	copied := *booking
	s.byID[booking.BookingID] = &copied
	return nil
}

func (s *memBookingStore) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, ok := s.byID[bookingID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *booking
	return &copied, nil
}

func (s *memBookingStore) GetByTransactionID(ctx context.Context, transactionID string) (*models.Booking, error) {
	for _, booking := range s.byID {
		if booking.TransactionID == transactionID {
			copied := *booking
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *memBookingStore) UpdateStatus(ctx context.Context, booking *models.Booking) error {
	stored, ok := s.byID[booking.BookingID]
	if !ok {
		return sql.ErrNoRows
	}
	stored.Status = booking.Status
	stored.PaymentStatus = booking.PaymentStatus
	if booking.PaymentDetails != nil {
		details := *booking.PaymentDetails
		stored.PaymentDetails = &details
	}
	return nil
}

func (s *memBookingStore) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	var bookings []models.Booking
	for _, booking := range s.byID {
		if booking.UserID == userID {
			bookings = append(bookings, *booking)
		}
	}
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	return bookings, nil
}

type memLedger struct {
	byPaymentID map[string]models.PaymentRecord
	byTxnID     map[string]models.PaymentRecord
}

func (s *memLedger) Save(ctx context.Context, record models.PaymentRecord) error {
	if record.PaymentID != "" {
		s.byPaymentID[record.PaymentID] = record
	}
	s.byTxnID[record.TransactionID] = record
	return nil
}

func (s *memLedger) GetByPaymentID(ctx context.Context, paymentID string) (*models.PaymentRecord, error) {
	record, ok := s.byPaymentID[paymentID]
	if !ok {
		return nil, redis.Nil
	}
	return &record, nil
}

func (s *memLedger) GetByTransactionID(ctx context.Context, transactionID string) (*models.PaymentRecord, error) {
	record, ok := s.byTxnID[transactionID]
	if !ok {
		return nil, redis.Nil
	}
	return &record, nil
}

type memUserStore struct {
	users map[string]*models.User
}

func (s *memUserStore) Get(ctx context.Context, userID string) (*models.User, error) {
	user, ok := s.users[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (s *memUserStore) Upsert(ctx context.Context, user *models.User) error {
	copied := *user
	s.users[user.UserID] = &copied
	return nil
}

func (s *memUserStore) Delete(ctx context.Context, userID string) error {
	if _, ok := s.users[userID]; !ok {
		return sql.ErrNoRows
	}
	delete(s.users, userID)
	return nil
}

func testStations() []models.Station {
	return []models.Station{
		{
			StationID: "station_1",
			Location:  models.Location{Lat: 12.9352, Lng: 77.6245},
			ChargerDetails: models.ChargerDetails{
				ConnectorType: models.ConnectorCCS2,
				ChargingSpeed: models.SpeedFast,
			},
			Pricing:  models.StationPricing{PricePerKwh: 12.5, Currency: "INR"},
			IsActive: true,
		},
		{
			StationID: "station_2",
			Location:  models.Location{Lat: 12.9110, Lng: 77.6386},
			ChargerDetails: models.ChargerDetails{
				ConnectorType: models.ConnectorType2,
				ChargingSpeed: models.SpeedUltraFast,
			},
			Pricing:  models.StationPricing{PricePerKwh: 15.0, Currency: "INR"},
			IsActive: true,
		},
	}
}

// newTestServer wires real services over in-memory stores behind the router.
// Payments always succeed so the booking flow is deterministic.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := zap.NewNop()

	stations := &memStationStore{stations: testStations()}
	bookings := &memBookingStore{byID: make(map[string]*models.Booking)}
	ledger := &memLedger{
		byPaymentID: make(map[string]models.PaymentRecord),
		byTxnID:     make(map[string]models.PaymentRecord),
	}
	users := &memUserStore{users: make(map[string]*models.User)}

	stationSvc := service.NewStationService(stations, nil, logger)
	bookingSvc := service.NewBookingService(stations, bookings, ledger, nil, logger)
	paymentSvc := service.NewPaymentService(ledger, logger, 0, 1)
	userSvc := service.NewUserService(users, logger)

	router := NewRouter(RouterDeps{
		Stations: handlers.NewStationsHandlers(stationSvc, logger),
		Bookings: handlers.NewBookingsHandlers(bookingSvc, logger),
		Payments: handlers.NewPaymentsHandlers(paymentSvc, logger),
		Users:    handlers.NewUsersHandlers(userSvc, logger),
		Health:   handlers.NewHealthHandler(),
	}, logger)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, payload string) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewReader([]byte(payload)))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp, decodeBody(t, resp)
}

func getJSON(t *testing.T, url string) (*http.Response, map[string]json.RawMessage) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]json.RawMessage {
	t.Helper()
	defer resp.Body.Close()
	body := make(map[string]json.RawMessage)
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func rawString(t *testing.T, raw json.RawMessage) string {
	t.Helper()
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		t.Fatalf("unmarshal string: %v (%s)", err, raw)
	}
	return s
}

func assertSuccess(t *testing.T, body map[string]json.RawMessage, want bool) {
	t.Helper()
	var success bool
	if err := json.Unmarshal(body["success"], &success); err != nil {
		t.Fatalf("unmarshal success: %v", err)
	}
	if success != want {
		t.Fatalf("expected success=%v, body %v", want, body)
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, body := getJSON(t, server.URL+"/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if rawString(t, body["status"]) != "ok" {
		t.Fatalf("unexpected health body: %v", body)
	}
}

func TestListStationsEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, body := getJSON(t, server.URL+"/api/stations")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	assertSuccess(t, body, true)

	var count int
	if err := json.Unmarshal(body["count"], &count); err != nil || count != 2 {
		t.Fatalf("expected count 2, got %s (err %v)", body["count"], err)
	}
}

func TestSearchStationsEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, body := postJSON(t, server.URL+"/api/stations/search",
		`{"filters": {"connectorType": "CCS2"}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	assertSuccess(t, body, true)

	var stations []models.Station
	if err := json.Unmarshal(body["data"], &stations); err != nil {
		t.Fatalf("unmarshal stations: %v", err)
	}
	if len(stations) != 1 || stations[0].StationID != "station_1" {
		t.Fatalf("expected station_1 only, got %+v", stations)
	}
}

func TestGetStationNotFound(t *testing.T) {
	server := newTestServer(t)

	resp, body := getJSON(t, server.URL+"/api/stations/station_missing")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	assertSuccess(t, body, false)
	if rawString(t, body["message"]) != "Station not found" {
		t.Fatalf("unexpected message: %s", body["message"])
	}
}

func TestCreateBookingEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, body := postJSON(t, server.URL+"/api/bookings", `{
		"stationId": "station_1",
		"userDetails": {"name": "Asha", "email": "asha@example.com"},
		"chargingParameters": {"energyAmount": 10}
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	assertSuccess(t, body, true)

	bookingID := rawString(t, body["bookingId"])
	transactionID := rawString(t, body["transactionId"])
	if !strings.HasPrefix(bookingID, "book_") || !strings.HasPrefix(transactionID, "txn_") {
		t.Fatalf("unexpected ids: %s / %s", bookingID, transactionID)
	}

	var data struct {
		Booking models.Booking `json:"booking"`
	}
	if err := json.Unmarshal(body["data"], &data); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if data.Booking.Status != models.BookingDraft {
		t.Fatalf("expected DRAFT, got %s", data.Booking.Status)
	}
	if data.Booking.FinalCost != 137.5 {
		t.Fatalf("expected final cost 137.5, got %v", data.Booking.FinalCost)
	}
}

func TestCreateBookingUnknownStationEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, body := postJSON(t, server.URL+"/api/bookings", `{"stationId": "station_missing"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	assertSuccess(t, body, false)
}

func TestCreateBookingInvalidBody(t *testing.T) {
	server := newTestServer(t)

	resp, body := postJSON(t, server.URL+"/api/bookings", `{"stationId": ""}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	assertSuccess(t, body, false)
}

func TestBookingPaymentFlow(t *testing.T) {
	server := newTestServer(t)

	_, created := postJSON(t, server.URL+"/api/bookings", `{
		"stationId": "station_2",
		"userId": "user_42",
		"chargingParameters": {"energyAmount": 10}
	}`)
	transactionID := rawString(t, created["transactionId"])
	bookingID := rawString(t, created["bookingId"])

	resp, paid := postJSON(t, server.URL+"/api/payments/process", fmt.Sprintf(`{
		"transactionId": %q,
		"paymentMethod": "card",
		"amount": 165,
		"currency": "INR"
	}`, transactionID))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected payment 200, got %d", resp.StatusCode)
	}
	if rawString(t, paid["message"]) != "Payment processed successfully" {
		t.Fatalf("unexpected payment message: %s", paid["message"])
	}

	var payment models.PaymentRecord
	if err := json.Unmarshal(paid["data"], &payment); err != nil {
		t.Fatalf("unmarshal payment: %v", err)
	}
	if payment.Status != models.PaymentCompleted {
		t.Fatalf("expected COMPLETED, got %s", payment.Status)
	}

	// payment status lookup reads the ledger
	resp, status := getJSON(t, server.URL+"/api/payments/"+payment.PaymentID+"/status")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	assertSuccess(t, status, true)

	resp, confirmed := postJSON(t, server.URL+"/api/bookings/confirm", fmt.Sprintf(`{
		"transactionId": %q,
		"paymentDetails": {"paymentId": %q, "amount": 165, "currency": "INR", "status": "COMPLETED"}
	}`, transactionID, payment.PaymentID))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected confirm 200, got %d", resp.StatusCode)
	}
	if rawString(t, confirmed["message"]) != "Booking confirmed successfully" {
		t.Fatalf("unexpected confirm message: %s", confirmed["message"])
	}

	var confirmData struct {
		Booking models.Booking `json:"booking"`
	}
	if err := json.Unmarshal(confirmed["data"], &confirmData); err != nil {
		t.Fatalf("unmarshal confirm data: %v", err)
	}
	if confirmData.Booking.Status != models.BookingConfirmed {
		t.Fatalf("expected CONFIRMED, got %s", confirmData.Booking.Status)
	}

	resp, cancelled := postJSON(t, server.URL+"/api/bookings/"+bookingID+"/cancel", `{}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected cancel 200, got %d", resp.StatusCode)
	}
	if rawString(t, cancelled["message"]) != "Booking cancelled successfully" {
		t.Fatalf("unexpected cancel message: %s", cancelled["message"])
	}

	resp, fetched := getJSON(t, server.URL+"/api/bookings/"+bookingID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected get 200, got %d", resp.StatusCode)
	}
	var booking models.Booking
	if err := json.Unmarshal(fetched["data"], &booking); err != nil {
		t.Fatalf("unmarshal booking: %v", err)
	}
	if booking.Status != models.BookingCancelled || booking.PaymentStatus != models.PaymentRefunded {
		t.Fatalf("expected CANCELLED/REFUNDED, got %s/%s", booking.Status, booking.PaymentStatus)
	}

	resp, listed := getJSON(t, server.URL+"/api/bookings/user/user_42")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected list 200, got %d", resp.StatusCode)
	}
	var bookings []models.Booking
	if err := json.Unmarshal(listed["data"], &bookings); err != nil {
		t.Fatalf("unmarshal bookings: %v", err)
	}
	if len(bookings) != 1 || bookings[0].BookingID != bookingID {
		t.Fatalf("expected one booking for user_42, got %+v", bookings)
	}
}

func TestConfirmWithoutCompletedPayment(t *testing.T) {
	server := newTestServer(t)

	_, created := postJSON(t, server.URL+"/api/bookings", `{"stationId": "station_1"}`)
	transactionID := rawString(t, created["transactionId"])

	resp, body := postJSON(t, server.URL+"/api/bookings/confirm", fmt.Sprintf(`{
		"transactionId": %q,
		"paymentDetails": {"status": "PENDING"}
	}`, transactionID))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	assertSuccess(t, body, false)
}

func TestPaymentStatusNotFound(t *testing.T) {
	server := newTestServer(t)

	resp, body := getJSON(t, server.URL+"/api/payments/pay_missing/status")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	assertSuccess(t, body, false)
	if rawString(t, body["message"]) != "Payment not found" {
		t.Fatalf("unexpected message: %s", body["message"])
	}
}

func TestUserProfileLifecycle(t *testing.T) {
	server := newTestServer(t)

	resp, body := getJSON(t, server.URL+"/api/users/user_42")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var user models.User
	if err := json.Unmarshal(body["data"], &user); err != nil {
		t.Fatalf("unmarshal user: %v", err)
	}
	if user.Name != "EV User" || user.Email != "user_42@example.com" {
		t.Fatalf("expected auto-provisioned profile, got %+v", user)
	}

	req, err := http.NewRequest(http.MethodPut, server.URL+"/api/users/user_42",
		bytes.NewReader([]byte(`{"name": "Asha"}`)))
	if err != nil {
		t.Fatalf("build PUT: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT user: %v", err)
	}
	updated := decodeBody(t, resp)
	if rawString(t, updated["message"]) != "Profile saved successfully" {
		t.Fatalf("unexpected message: %s", updated["message"])
	}
	if err := json.Unmarshal(updated["data"], &user); err != nil {
		t.Fatalf("unmarshal updated user: %v", err)
	}
	if user.Name != "Asha" || user.Email != "user_42@example.com" {
		t.Fatalf("expected merged profile, got %+v", user)
	}

	req, err = http.NewRequest(http.MethodDelete, server.URL+"/api/users/user_42", nil)
	if err != nil {
		t.Fatalf("build DELETE: %v", err)
	}
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE user: %v", err)
	}
	deleted := decodeBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if rawString(t, deleted["message"]) != "Profile deleted successfully" {
		t.Fatalf("unexpected message: %s", deleted["message"])
	}

	req, err = http.NewRequest(http.MethodDelete, server.URL+"/api/users/user_42", nil)
	if err != nil {
		t.Fatalf("build second DELETE: %v", err)
	}
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("second DELETE user: %v", err)
	}
	notFound := decodeBody(t, resp)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	assertSuccess(t, notFound, false)
}

func TestCORSPreflight(t *testing.T) {
	server := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, server.URL+"/api/stations", nil)
	if err != nil {
		t.Fatalf("build OPTIONS: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") == "" {
		t.Fatal("expected CORS headers on preflight")
	}
}
