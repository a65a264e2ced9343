package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// providerStub is a minimal upstream: it issues tokens and lets each test
// script the behavior of the business endpoints.
type providerStub struct {
	authCalls int32
	token     string
	handler   http.HandlerFunc
}

func newProviderStub(handler http.HandlerFunc) *providerStub {
	return &providerStub{token: "tok-1", handler: handler}
}

func (p *providerStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/auth/token" {
		atomic.AddInt32(&p.authCalls, 1)
		json.NewEncoder(w).Encode(AuthResponse{Token: p.token, ExpiresIn: 3600})
		return
	}
	if r.Header.Get("Authorization") != "Bearer "+p.token {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	p.handler(w, r)
}

func newTestClient(t *testing.T, stub *providerStub) *Client {
	t.Helper()
	server := httptest.NewServer(stub)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "key", "secret", 5*time.Second)
}

func TestClientReusesTokenAcrossCalls(t *testing.T) {
	stub := newProviderStub(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(RoomSearchResponse{Rooms: []RoomOffer{{RoomCode: "R1"}}})
	})
	client := newTestClient(t, stub)

	_, err := client.SearchRooms(context.Background(), RoomSearchRequest{})
	assert.NoError(t, err)
	_, err = client.SearchRooms(context.Background(), RoomSearchRequest{})
	assert.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&stub.authCalls))
}

func TestClientReauthenticatesOnUnauthorized(t *testing.T) {
	stub := newProviderStub(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(RoomSearchResponse{})
	})
	client := newTestClient(t, stub)

	_, err := client.SearchRooms(context.Background(), RoomSearchRequest{})
	assert.NoError(t, err)

	// The provider rotates its accepted token; the cached one is now stale.
	stub.token = "tok-2"

	_, err = client.SearchRooms(context.Background(), RoomSearchRequest{})
	assert.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&stub.authCalls))
}

func TestClientMapsBusinessRejection(t *testing.T) {
	stub := newProviderStub(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(apiError{Code: "NO_ALLOTMENT", Message: "no rooms left"})
	})
	client := newTestClient(t, stub)

	_, err := client.SearchRooms(context.Background(), RoomSearchRequest{})

	var rejection *RejectionError
	if assert.ErrorAs(t, err, &rejection) {
		assert.Equal(t, "NO_ALLOTMENT", rejection.Code)
		assert.Equal(t, "no rooms left", rejection.Reason)
	}
}

func TestClientMapsServerErrorToUnavailable(t *testing.T) {
	stub := newProviderStub(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	client := newTestClient(t, stub)

	_, err := client.SearchRooms(context.Background(), RoomSearchRequest{})

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCreateBookingMapsUnknownOutcomeToIndeterminate(t *testing.T) {
	stub := newProviderStub(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	client := newTestClient(t, stub)

	_, err := client.CreateBooking(context.Background(), CreateBookingRequest{ClientReferenceID: "ref-1"})

	assert.ErrorIs(t, err, ErrIndeterminate)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestCreateBookingKeepsRejectionAsRejection(t *testing.T) {
	stub := newProviderStub(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(apiError{Code: "DUPLICATE", Message: "client reference already used"})
	})
	client := newTestClient(t, stub)

	_, err := client.CreateBooking(context.Background(), CreateBookingRequest{ClientReferenceID: "ref-1"})

	assert.True(t, IsRejection(err))
	assert.NotErrorIs(t, err, ErrIndeterminate)
}

func TestCancelBookingDecodesPenaltyFee(t *testing.T) {
	stub := newProviderStub(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bookings/BN-77/cancel", r.URL.Path)
		json.NewEncoder(w).Encode(CancelBookingResponse{Status: "CANCELLED", PenaltyFee: 120.5, Currency: "EUR"})
	})
	client := newTestClient(t, stub)

	resp, err := client.CancelBooking(context.Background(), CancelBookingRequest{FeedID: "feed-1", BookingNumber: "BN-77"})

	assert.NoError(t, err)
	assert.Equal(t, 120.5, resp.PenaltyFee)
}

func TestGetHotelListSendsRevisionMarker(t *testing.T) {
	var gotQuery string
	stub := newProviderStub(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]HotelListItem{})
	})
	client := newTestClient(t, stub)

	rev := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	_, err := client.GetHotelList(context.Background(), "feed-1", &rev)

	assert.NoError(t, err)
	assert.Contains(t, gotQuery, "feed_id=feed-1")
	assert.Contains(t, gotQuery, "last_revision_date=")
}

func TestGetReservationByClientReference(t *testing.T) {
	stub := newProviderStub(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bookings/by-client-reference/ref-1", r.URL.Path)
		json.NewEncoder(w).Encode(ReservationDetailResponse{Status: "CONFIRMED", BookingNumber: "BN-1"})
	})
	client := newTestClient(t, stub)

	detail, err := client.GetReservationByClientReference(context.Background(), "feed-1", "ref-1")

	assert.NoError(t, err)
	assert.Equal(t, "CONFIRMED", detail.Status)
	assert.Equal(t, "BN-1", detail.BookingNumber)
}
