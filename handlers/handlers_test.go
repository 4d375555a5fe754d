package handlers_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	adminRepo "providerhub/database/repository/admin"
	bookingRepo "providerhub/database/repository/booking"
	chatRepo "providerhub/database/repository/chat"
	eventRepo "providerhub/database/repository/events"
	"providerhub/handlers"
	"providerhub/models"
	"providerhub/routes"
	"providerhub/services/booking"
	"providerhub/services/chat"
	"providerhub/services/geocode"
	"providerhub/services/identity"
	"providerhub/services/notification"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

const (
	testSecret  = "handler-secret"
	intakeToken = "intake-token"
)

type fakeGeocoder struct {
	addr models.Address
	err  error
}

func (f fakeGeocoder) ReverseGeocode(_ context.Context, lat, lng float64) (models.Address, error) {
	if f.err != nil {
		return models.Address{}, f.err
	}
	a := f.addr
	a.Latitude, a.Longitude = lat, lng
	return a, nil
}

func (f fakeGeocoder) Search(_ context.Context, query string, _ int) ([]models.Address, error) {
	if strings.TrimSpace(query) == "" {
		return nil, geocode.ErrEmptyQuery
	}
	return []models.Address{f.addr}, nil
}

type testServer struct {
	router *gin.Engine
	events *eventRepo.MemoryEventRepo
	tokens map[string]string
}

func newTestServer(t *testing.T, geo handlers.Geocoder) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	admins := adminRepo.NewMemoryAdminRepo()
	ts := &testServer{events: eventRepo.NewMemoryEventRepo(), tokens: map[string]string{}}
	for id, email := range map[string]string{"A1": "asha@example.com", "A2": "ravi@example.com"} {
		if err := admins.Create(ctx, &models.Admin{ID: id, Email: email, Name: id}); err != nil {
			t.Fatalf("seed admin: %v", err)
		}
		ts.tokens[id] = signToken(t, email)
	}

	gate := identity.NewGate(admins, nil, testSecret, time.Minute)
	store := booking.NewDefaultBookingStore(bookingRepo.NewMemoryBookingRepo(), notification.NewLogPublisher())
	manager := chat.NewManager(chatRepo.NewMemoryLog(), chat.NewLocalBroker(), 0)

	hb := handlers.NewHandlerBundle(
		gate,
		intakeToken,
		handlers.NewBookingHandler(store, ts.events),
		handlers.NewChatHandler(manager, store),
		handlers.NewAdminHandler(gate, identity.NewProfileService(admins, nil)),
		handlers.NewLocationHandler(geo),
	)
	ts.router = gin.New()
	routes.RegisterRoutes(ts.router, hb)
	return ts
}

func signToken(t *testing.T, email string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) intake(t *testing.T, userID string) string {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/api/intake/bookings", intakeToken, models.NewBookingInput{
		UserID:         userID,
		BookingDetails: models.BookingDetails{ServiceName: "Plumber", DateBooked: "2026-10-20", TimeSlot: "10:00-11:00"},
		Payment:        models.Payment{Amount: 450},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("intake: status %d body %s", w.Code, w.Body.String())
	}
	var b models.Booking
	if err := json.Unmarshal(w.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode booking: %v", err)
	}
	return b.ID
}

// confirmed creates a booking for userID and confirms it as adminID, which
// opens their chat channel.
func (ts *testServer) confirmed(t *testing.T, userID, adminID string) string {
	t.Helper()
	id := ts.intake(t, userID)
	if w := ts.do(t, http.MethodPut, "/api/bookings/"+id+"/confirm", ts.tokens[adminID], nil); w.Code != http.StatusOK {
		t.Fatalf("confirm %s: status %d body %s", id, w.Code, w.Body.String())
	}
	return id
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return resp.Code
}

func TestIntakeRequiresServiceToken(t *testing.T) {
	ts := newTestServer(t, fakeGeocoder{})
	body := models.NewBookingInput{UserID: "U1", BookingDetails: models.BookingDetails{ServiceName: "Plumber"}}

	if w := ts.do(t, http.MethodPost, "/api/intake/bookings", "", body); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status %d", w.Code)
	}
	if w := ts.do(t, http.MethodPost, "/api/intake/bookings", ts.tokens["A1"], body); w.Code != http.StatusUnauthorized {
		t.Fatalf("admin token: status %d", w.Code)
	}
	w := ts.do(t, http.MethodPost, "/api/intake/bookings", intakeToken, models.NewBookingInput{UserID: "U1"})
	if w.Code != http.StatusBadRequest || decodeError(t, w) != booking.CodeInvalidBooking {
		t.Fatalf("missing service: status %d body %s", w.Code, w.Body.String())
	}
}

func TestBookingLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t, fakeGeocoder{})
	id := ts.intake(t, "U1")

	w := ts.do(t, http.MethodPost, "/api/bookings/"+id+"/assign", ts.tokens["A1"], nil)
	if w.Code != http.StatusOK {
		t.Fatalf("assign: status %d body %s", w.Code, w.Body.String())
	}

	w = ts.do(t, http.MethodPost, "/api/bookings/"+id+"/assign", ts.tokens["A2"], nil)
	if w.Code != http.StatusConflict || decodeError(t, w) != booking.CodeAlreadyAssigned {
		t.Fatalf("second assign: status %d body %s", w.Code, w.Body.String())
	}

	w = ts.do(t, http.MethodPut, "/api/bookings/"+id+"/confirm", ts.tokens["A2"], nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("foreign confirm: status %d", w.Code)
	}

	w = ts.do(t, http.MethodPut, "/api/bookings/"+id+"/confirm", ts.tokens["A1"], nil)
	if w.Code != http.StatusOK {
		t.Fatalf("confirm: status %d body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Booking models.Booking       `json:"booking"`
		Status  models.BookingStatus `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Booking.ConfirmBooking || resp.Status != models.StatusConfirmed {
		t.Fatalf("confirm response: %+v", resp)
	}

	w = ts.do(t, http.MethodPost, "/api/bookings/"+id+"/cancel", ts.tokens["A1"], map[string]string{"reason": "   "})
	if w.Code != http.StatusBadRequest || decodeError(t, w) != booking.CodeEmptyReason {
		t.Fatalf("blank reason: status %d body %s", w.Code, w.Body.String())
	}
	w = ts.do(t, http.MethodPost, "/api/bookings/"+id+"/cancel", ts.tokens["A1"], map[string]string{"reason": "customer asked"})
	if w.Code != http.StatusOK {
		t.Fatalf("cancel: status %d body %s", w.Code, w.Body.String())
	}

	w = ts.do(t, http.MethodPut, "/api/bookings/"+id+"/confirm", ts.tokens["A1"], nil)
	if w.Code != http.StatusConflict || decodeError(t, w) != booking.CodeAlreadyCancelled {
		t.Fatalf("confirm after cancel: status %d body %s", w.Code, w.Body.String())
	}

	if w := ts.do(t, http.MethodPost, "/api/bookings/missing/assign", ts.tokens["A1"], nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing booking: status %d", w.Code)
	}
}

func TestListBookingsRedactsForeignBookings(t *testing.T) {
	ts := newTestServer(t, fakeGeocoder{})
	mine := ts.intake(t, "U1")
	theirs := ts.intake(t, "U2")
	open := ts.intake(t, "U3")

	ts.do(t, http.MethodPut, "/api/bookings/"+mine+"/confirm", ts.tokens["A1"], nil)
	ts.do(t, http.MethodPost, "/api/bookings/"+theirs+"/assign", ts.tokens["A2"], nil)

	w := ts.do(t, http.MethodGet, "/api/bookings", ts.tokens["A1"], nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status %d", w.Code)
	}
	var resp struct {
		Bookings []models.BookingView `json:"bookings"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Bookings) != 3 {
		t.Fatalf("got %d bookings", len(resp.Bookings))
	}

	want := []struct {
		id       string
		status   models.BookingStatus
		redacted bool
	}{
		{mine, models.StatusConfirmed, false},
		{theirs, models.StatusClosed, true},
		{open, models.StatusPending, false},
	}
	for i, exp := range want {
		got := resp.Bookings[i]
		if got.ID != exp.id || got.Status != exp.status || (got.Booking == nil) != exp.redacted {
			t.Errorf("row %d: got id=%s status=%s full=%v", i, got.ID, got.Status, got.Booking != nil)
		}
	}
	if !resp.Bookings[0].Actions.CanChat || resp.Bookings[0].ChannelKey != chat.ChannelKey("U1", "A1") {
		t.Errorf("confirmed row actions: %+v key=%q", resp.Bookings[0].Actions, resp.Bookings[0].ChannelKey)
	}
}

func TestBookingEventsVisibility(t *testing.T) {
	ts := newTestServer(t, fakeGeocoder{})
	id := ts.intake(t, "U1")
	ts.do(t, http.MethodPost, "/api/bookings/"+id+"/assign", ts.tokens["A1"], nil)

	_ = ts.events.Append(context.Background(), models.LifecycleEvent{
		ID: "E1", Type: models.EventBookingAssigned, BookingID: id, AdminID: "A1", ActorID: "A1",
		State: models.StateAssignedPending, OccurredAt: time.Now(),
	})

	w := ts.do(t, http.MethodGet, "/api/bookings/"+id+"/events", ts.tokens["A1"], nil)
	if w.Code != http.StatusOK {
		t.Fatalf("events: status %d body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Events []models.LifecycleEvent `json:"events"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Events) != 1 || resp.Events[0].ID != "E1" {
		t.Fatalf("events: %+v", resp.Events)
	}

	if w := ts.do(t, http.MethodGet, "/api/bookings/"+id+"/events", ts.tokens["A2"], nil); w.Code != http.StatusForbidden {
		t.Fatalf("foreign events: status %d", w.Code)
	}
}

func TestChatRequiresConfirmedBooking(t *testing.T) {
	ts := newTestServer(t, fakeGeocoder{})
	id := ts.intake(t, "U1")

	if w := ts.do(t, http.MethodPost, "/api/chat/U1/messages", ts.tokens["A1"], map[string]string{"text": "hi"}); w.Code != http.StatusForbidden {
		t.Fatalf("no booking: status %d", w.Code)
	}
	ts.do(t, http.MethodPost, "/api/bookings/"+id+"/assign", ts.tokens["A1"], nil)
	if w := ts.do(t, http.MethodGet, "/api/chat/U1/messages", ts.tokens["A1"], nil); w.Code != http.StatusForbidden {
		t.Fatalf("assigned but unconfirmed: status %d", w.Code)
	}
	ts.do(t, http.MethodPut, "/api/bookings/"+id+"/confirm", ts.tokens["A1"], nil)
	if w := ts.do(t, http.MethodGet, "/api/chat/U1/messages", ts.tokens["A1"], nil); w.Code != http.StatusOK {
		t.Fatalf("confirmed: status %d body %s", w.Code, w.Body.String())
	}
	if w := ts.do(t, http.MethodGet, "/api/chat/U1/stream", ts.tokens["A2"], nil); w.Code != http.StatusForbidden {
		t.Fatalf("other admin stream: status %d", w.Code)
	}
}

func TestChatSendAndHistory(t *testing.T) {
	ts := newTestServer(t, fakeGeocoder{})
	ts.confirmed(t, "U1", "A1")

	w := ts.do(t, http.MethodPost, "/api/chat/U1/messages", ts.tokens["A1"], map[string]string{"text": " \t "})
	if w.Code != http.StatusBadRequest || decodeError(t, w) != "emptyMessage" {
		t.Fatalf("blank message: status %d body %s", w.Code, w.Body.String())
	}

	for _, text := range []string{"on my way", "  reached  "} {
		if w := ts.do(t, http.MethodPost, "/api/chat/U1/messages", ts.tokens["A1"], map[string]string{"text": text}); w.Code != http.StatusCreated {
			t.Fatalf("send %q: status %d", text, w.Code)
		}
	}

	w = ts.do(t, http.MethodGet, "/api/chat/U1/messages", ts.tokens["A1"], nil)
	var resp struct {
		ChannelKey string               `json:"channelKey"`
		Messages   []models.ChatMessage `json:"messages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ChannelKey != "A1_U1" {
		t.Fatalf("channel key %q", resp.ChannelKey)
	}
	if len(resp.Messages) != 2 || resp.Messages[1].Text != "reached" || resp.Messages[0].SenderID != "A1" {
		t.Fatalf("history: %+v", resp.Messages)
	}

	// Another admin with its own confirmed booking gets a separate channel.
	ts.confirmed(t, "U1", "A2")
	w = ts.do(t, http.MethodGet, "/api/chat/U1/messages", ts.tokens["A2"], nil)
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ChannelKey != "A2_U1" || len(resp.Messages) != 0 {
		t.Fatalf("foreign channel leaked: key=%s messages=%d", resp.ChannelKey, len(resp.Messages))
	}
}

func TestChatStreamSendsSnapshot(t *testing.T) {
	ts := newTestServer(t, fakeGeocoder{})
	ts.confirmed(t, "U1", "A1")
	ts.do(t, http.MethodPost, "/api/chat/U1/messages", ts.tokens["A1"], map[string]string{"text": "hello"})

	srv := httptest.NewServer(ts.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/chat/U1/stream", nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+ts.tokens["A1"])
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	defer res.Body.Close()

	if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("content type %q", ct)
	}

	scanner := bufio.NewScanner(res.Body)
	var sawEvent bool
	for scanner.Scan() {
		line := scanner.Text()
		if line == "event:snapshot" {
			sawEvent = true
			continue
		}
		if sawEvent && strings.HasPrefix(line, "data:") {
			var snap models.ChatSnapshot
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data:")), &snap); err != nil {
				t.Fatalf("decode snapshot: %v", err)
			}
			if len(snap.Messages) != 1 || snap.Messages[0].Text != "hello" {
				t.Fatalf("snapshot: %+v", snap)
			}
			return
		}
	}
	t.Fatalf("no snapshot event received: %v", scanner.Err())
}

func TestLocationReverse(t *testing.T) {
	ts := newTestServer(t, fakeGeocoder{addr: models.Address{Address: "MG Road, Bengaluru"}})

	w := ts.do(t, http.MethodGet, "/api/location/reverse?lat=12.97&lng=77.59", ts.tokens["A1"], nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "MG Road") {
		t.Fatalf("reverse: status %d body %s", w.Code, w.Body.String())
	}

	if w := ts.do(t, http.MethodGet, "/api/location/reverse?lat=north&lng=77.59", ts.tokens["A1"], nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad lat: status %d", w.Code)
	}
	if w := ts.do(t, http.MethodGet, "/api/location/search?q=", ts.tokens["A1"], nil); w.Code != http.StatusBadRequest {
		t.Fatalf("empty search: status %d", w.Code)
	}
}

func TestLocationReverseFallsBackToPlaceholder(t *testing.T) {
	ts := newTestServer(t, fakeGeocoder{err: geocode.ErrAddressUnavailable})

	w := ts.do(t, http.MethodGet, "/api/location/reverse?lat=12.97&lng=77.59", ts.tokens["A1"], nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var resp struct {
		Address  string  `json:"address"`
		Latitude float64 `json:"latitude"`
		Resolved bool    `json:"resolved"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Address != geocode.AddressNotFound || resp.Latitude != 12.97 || resp.Resolved {
		t.Fatalf("placeholder: %+v", resp)
	}
}

func TestAdminProfileRoutes(t *testing.T) {
	ts := newTestServer(t, fakeGeocoder{})

	newcomer := signToken(t, "new@example.com")
	if w := ts.do(t, http.MethodGet, "/api/admin/me", newcomer, nil); w.Code != http.StatusNotFound {
		t.Fatalf("unenrolled me: status %d", w.Code)
	}
	if w := ts.do(t, http.MethodPost, "/api/admin/enroll", newcomer, nil); w.Code != http.StatusCreated {
		t.Fatalf("enroll: status %d body %s", w.Code, w.Body.String())
	}
	if w := ts.do(t, http.MethodPost, "/api/admin/enroll", newcomer, nil); w.Code != http.StatusOK {
		t.Fatalf("re-enroll: status %d", w.Code)
	}

	w := ts.do(t, http.MethodPut, "/api/admin/me", ts.tokens["A1"], map[string]interface{}{
		"name":    "Asha",
		"phone":   "123",
		"service": []string{"Plumber"},
	})
	if w.Code != http.StatusBadRequest || decodeError(t, w) != "invalidProfile" {
		t.Fatalf("invalid phone: status %d body %s", w.Code, w.Body.String())
	}

	w = ts.do(t, http.MethodPut, "/api/admin/me", ts.tokens["A1"], map[string]interface{}{
		"name":    "Asha K",
		"phone":   "9876543210",
		"service": []string{"Plumber", "Electrician"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update: status %d body %s", w.Code, w.Body.String())
	}
	var admin models.Admin
	if err := json.Unmarshal(w.Body.Bytes(), &admin); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if admin.Name != "Asha K" || admin.Email != "asha@example.com" || len(admin.Services) != 2 {
		t.Fatalf("updated admin: %+v", admin)
	}
}
