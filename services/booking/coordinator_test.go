package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	provider "hotel-broker/httpServices/provider"
	auditModel "hotel-broker/models/audit"
	pricingModel "hotel-broker/models/pricing"
	reservationModel "hotel-broker/models/reservation"
	"hotel-broker/quotecache"
	"hotel-broker/repository"
	"hotel-broker/services/authz"
)

type mockQuotes struct{ mock.Mock }

func (m *mockQuotes) Lookup(ctx context.Context, id string) (*quotecache.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quotecache.Session), args.Error(1)
}

type mockProvider struct{ mock.Mock }

func (m *mockProvider) CreateBooking(ctx context.Context, req provider.CreateBookingRequest) (*provider.CreateBookingResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.CreateBookingResponse), args.Error(1)
}

func (m *mockProvider) CancelBooking(ctx context.Context, req provider.CancelBookingRequest) (*provider.CancelBookingResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.CancelBookingResponse), args.Error(1)
}

func (m *mockProvider) GetReservationDetail(ctx context.Context, feedID, bookingNumber string) (*provider.ReservationDetailResponse, error) {
	args := m.Called(ctx, feedID, bookingNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.ReservationDetailResponse), args.Error(1)
}

func (m *mockProvider) GetReservationByClientReference(ctx context.Context, feedID, clientReferenceID string) (*provider.ReservationDetailResponse, error) {
	args := m.Called(ctx, feedID, clientReferenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.ReservationDetailResponse), args.Error(1)
}

type mockStore struct{ mock.Mock }

func (m *mockStore) CreateIfAbsent(ctx context.Context, res *reservationModel.Reservation) (bool, *reservationModel.Reservation, error) {
	args := m.Called(ctx, res)
	if args.Get(1) == nil {
		return args.Bool(0), nil, args.Error(2)
	}
	return args.Bool(0), args.Get(1).(*reservationModel.Reservation), args.Error(2)
}

func (m *mockStore) GetByID(ctx context.Context, id uint) (*reservationModel.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservationModel.Reservation), args.Error(1)
}

func (m *mockStore) GetByClientReference(ctx context.Context, clientReferenceID string) (*reservationModel.Reservation, error) {
	args := m.Called(ctx, clientReferenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservationModel.Reservation), args.Error(1)
}

func (m *mockStore) Transition(ctx context.Context, id uint, next reservationModel.Status, actor string, mutate func(*reservationModel.Reservation)) (*reservationModel.Reservation, error) {
	args := m.Called(ctx, id, next, actor, mutate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	row := args.Get(0).(*reservationModel.Reservation)
	row.Status = next
	if mutate != nil {
		mutate(row)
	}
	return row, args.Error(1)
}

func (m *mockStore) ExistsActiveWithPriceCode(ctx context.Context, priceCode string) (bool, error) {
	args := m.Called(ctx, priceCode)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]reservationModel.Reservation, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]reservationModel.Reservation), args.Error(1)
}

type mockRules struct{ mock.Mock }

func (m *mockRules) ActiveRules(ctx context.Context) ([]pricingModel.PriceRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pricingModel.PriceRule), args.Error(1)
}

func (m *mockRules) ActiveCommissions(ctx context.Context, agencyID string) ([]pricingModel.Commission, error) {
	args := m.Called(ctx, agencyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pricingModel.Commission), args.Error(1)
}

type mockAudit struct{ mock.Mock }

func (m *mockAudit) Record(entry auditModel.AuditLog) {
	m.Called(entry)
}

type fixture struct {
	quotes   *mockQuotes
	upstream *mockProvider
	store    *mockStore
	rules    *mockRules
	audit    *mockAudit
	coord    *Coordinator
}

func newFixture() *fixture {
	f := &fixture{
		quotes:   &mockQuotes{},
		upstream: &mockProvider{},
		store:    &mockStore{},
		rules:    &mockRules{},
		audit:    &mockAudit{},
	}
	f.coord = NewCoordinator(f.quotes, f.upstream, f.store, f.rules, f.audit, "feed-1")
	return f
}

func testSession() *quotecache.Session {
	return &quotecache.Session{
		ID:        "sess-1",
		HotelCode: "HTL-1",
		CheckIn:   time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:  time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		ExpiresAt: time.Now().Add(quotecache.Validity),
		Rooms: []provider.RoomOffer{
			{RoomCode: "R1", BoardType: "BB", PriceCode: "P1", TotalPrice: 1000, Currency: "EUR"},
		},
	}
}

func testActor() authz.Actor {
	return authz.Actor{UserID: 42, Username: "alice", Role: "customer"}
}

func testInput() CreateInput {
	return CreateInput{
		SessionID:         "sess-1",
		RoomCode:          "R1",
		PriceCode:         "P1",
		ClientReferenceID: "client-ref-1",
		Contact:           Contact{Name: "Alice", Email: "alice@example.com"},
	}
}

func TestCreateBookingConfirmedPath(t *testing.T) {
	f := newFixture()
	f.quotes.On("Lookup", mock.Anything, "sess-1").Return(testSession(), nil)
	f.store.On("ExistsActiveWithPriceCode", mock.Anything, "P1").Return(false, nil)
	f.rules.On("ActiveRules", mock.Anything).Return(nil, nil)
	f.store.On("CreateIfAbsent", mock.Anything, mock.Anything).
		Return(true, &reservationModel.Reservation{ID: 9, Status: reservationModel.StatusPending, ClientReferenceID: "client-ref-1"}, nil)
	f.upstream.On("CreateBooking", mock.Anything, mock.Anything).
		Return(&provider.CreateBookingResponse{BookingNumber: "BN-77", Status: "CONFIRMED"}, nil)
	f.store.On("Transition", mock.Anything, uint(9), reservationModel.StatusConfirmed, "alice", mock.Anything).
		Return(&reservationModel.Reservation{ID: 9}, nil)
	f.audit.On("Record", mock.Anything).Return()

	res, err := f.coord.CreateBooking(context.Background(), testActor(), testInput())

	assert.NoError(t, err)
	assert.Equal(t, reservationModel.StatusConfirmed, res.Status)
	assert.Equal(t, "BN-77", res.BookingNumber)
	f.store.AssertExpectations(t)
	f.upstream.AssertExpectations(t)
}

func TestCreateBookingExpiredSessionHasNoSideEffects(t *testing.T) {
	f := newFixture()
	f.quotes.On("Lookup", mock.Anything, "sess-1").Return(nil, quotecache.ErrExpired)

	_, err := f.coord.CreateBooking(context.Background(), testActor(), testInput())

	assert.ErrorIs(t, err, ErrSessionExpired)
	f.store.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
	f.upstream.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestCreateBookingUnknownSessionMapsToExpired(t *testing.T) {
	f := newFixture()
	f.quotes.On("Lookup", mock.Anything, "sess-1").Return(nil, quotecache.ErrNotFound)

	_, err := f.coord.CreateBooking(context.Background(), testActor(), testInput())

	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestCreateBookingRejectsUnknownPriceCode(t *testing.T) {
	f := newFixture()
	f.quotes.On("Lookup", mock.Anything, "sess-1").Return(testSession(), nil)

	in := testInput()
	in.PriceCode = "P-other"
	_, err := f.coord.CreateBooking(context.Background(), testActor(), in)

	assert.ErrorIs(t, err, ErrInvalidPriceCode)
	f.store.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
}

func TestCreateBookingConsumedPriceCodeFailsForNewCaller(t *testing.T) {
	f := newFixture()
	f.quotes.On("Lookup", mock.Anything, "sess-1").Return(testSession(), nil)
	f.store.On("ExistsActiveWithPriceCode", mock.Anything, "P1").Return(true, nil)
	f.store.On("GetByClientReference", mock.Anything, "client-ref-1").Return(nil, repository.ErrNotFound)

	_, err := f.coord.CreateBooking(context.Background(), testActor(), testInput())

	assert.ErrorIs(t, err, ErrInvalidPriceCode)
	f.upstream.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestCreateBookingConsumedPriceCodeReturnsOwnRowOnRetry(t *testing.T) {
	f := newFixture()
	existing := &reservationModel.Reservation{ID: 5, Status: reservationModel.StatusConfirmed, ClientReferenceID: "client-ref-1"}
	f.quotes.On("Lookup", mock.Anything, "sess-1").Return(testSession(), nil)
	f.store.On("ExistsActiveWithPriceCode", mock.Anything, "P1").Return(true, nil)
	f.store.On("GetByClientReference", mock.Anything, "client-ref-1").Return(existing, nil)

	res, err := f.coord.CreateBooking(context.Background(), testActor(), testInput())

	assert.NoError(t, err)
	assert.Equal(t, existing, res)
	f.upstream.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestCreateBookingIdempotentRetryReturnsExistingRow(t *testing.T) {
	f := newFixture()
	existing := &reservationModel.Reservation{ID: 5, Status: reservationModel.StatusConfirmed, ClientReferenceID: "client-ref-1"}
	f.quotes.On("Lookup", mock.Anything, "sess-1").Return(testSession(), nil)
	f.store.On("ExistsActiveWithPriceCode", mock.Anything, "P1").Return(false, nil)
	f.rules.On("ActiveRules", mock.Anything).Return(nil, nil)
	f.store.On("CreateIfAbsent", mock.Anything, mock.Anything).Return(false, existing, nil)

	res, err := f.coord.CreateBooking(context.Background(), testActor(), testInput())

	assert.NoError(t, err)
	assert.Equal(t, existing, res)
	// The earlier attempt owns the upstream dispatch; a retry never
	// re-sends the booking.
	f.upstream.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestCreateBookingUpstreamRejectionMarksFailed(t *testing.T) {
	f := newFixture()
	f.quotes.On("Lookup", mock.Anything, "sess-1").Return(testSession(), nil)
	f.store.On("ExistsActiveWithPriceCode", mock.Anything, "P1").Return(false, nil)
	f.rules.On("ActiveRules", mock.Anything).Return(nil, nil)
	f.store.On("CreateIfAbsent", mock.Anything, mock.Anything).
		Return(true, &reservationModel.Reservation{ID: 9, Status: reservationModel.StatusPending}, nil)
	f.upstream.On("CreateBooking", mock.Anything, mock.Anything).
		Return(nil, &provider.RejectionError{Code: "NO_ALLOTMENT", Reason: "no rooms left"})
	f.store.On("Transition", mock.Anything, uint(9), reservationModel.StatusFailed, "alice", mock.Anything).
		Return(&reservationModel.Reservation{ID: 9}, nil)
	f.audit.On("Record", mock.Anything).Return()

	_, err := f.coord.CreateBooking(context.Background(), testActor(), testInput())

	var rejection *provider.RejectionError
	assert.ErrorAs(t, err, &rejection)
	f.store.AssertExpectations(t)
}

func TestCreateBookingIndeterminateLeavesPending(t *testing.T) {
	f := newFixture()
	pending := &reservationModel.Reservation{ID: 9, Status: reservationModel.StatusPending}
	f.quotes.On("Lookup", mock.Anything, "sess-1").Return(testSession(), nil)
	f.store.On("ExistsActiveWithPriceCode", mock.Anything, "P1").Return(false, nil)
	f.rules.On("ActiveRules", mock.Anything).Return(nil, nil)
	f.store.On("CreateIfAbsent", mock.Anything, mock.Anything).Return(true, pending, nil)
	f.upstream.On("CreateBooking", mock.Anything, mock.Anything).
		Return(nil, provider.ErrIndeterminate)

	res, err := f.coord.CreateBooking(context.Background(), testActor(), testInput())

	assert.ErrorIs(t, err, ErrIndeterminate)
	assert.Equal(t, pending, res)
	assert.Equal(t, reservationModel.StatusPending, res.Status)
	f.store.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBookingAppliesAgencyPricing(t *testing.T) {
	f := newFixture()
	agency := "A1"
	actor := authz.Actor{UserID: 42, Username: "agent", Role: "agency", AgencyID: &agency}

	f.quotes.On("Lookup", mock.Anything, "sess-1").Return(testSession(), nil)
	f.store.On("ExistsActiveWithPriceCode", mock.Anything, "P1").Return(false, nil)
	f.rules.On("ActiveRules", mock.Anything).Return([]pricingModel.PriceRule{
		{ID: 3, Kind: pricingModel.RuleKindPercentageDiscount, Value: 10, Scope: pricingModel.ScopeAllAgencies, IsActive: true},
	}, nil)
	f.rules.On("ActiveCommissions", mock.Anything, "A1").Return([]pricingModel.Commission{
		{ID: 8, AgencyID: "A1", Kind: pricingModel.CommissionKindPercentage, Value: 5, IsActive: true},
	}, nil)

	var persisted *reservationModel.Reservation
	f.store.On("CreateIfAbsent", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			persisted = args.Get(1).(*reservationModel.Reservation)
		}).
		Return(true, &reservationModel.Reservation{ID: 9, Status: reservationModel.StatusPending}, nil)
	f.upstream.On("CreateBooking", mock.Anything, mock.Anything).
		Return(&provider.CreateBookingResponse{BookingNumber: "BN-1"}, nil)
	f.store.On("Transition", mock.Anything, uint(9), reservationModel.StatusConfirmed, "agent", mock.Anything).
		Return(&reservationModel.Reservation{ID: 9}, nil)
	f.audit.On("Record", mock.Anything).Return()

	_, err := f.coord.CreateBooking(context.Background(), actor, testInput())

	assert.NoError(t, err)
	if assert.NotNil(t, persisted) {
		assert.Equal(t, 1000.0, persisted.BasePrice)
		assert.Equal(t, 900.0, persisted.FinalPrice)
		if assert.NotNil(t, persisted.CommissionAmount) {
			assert.Equal(t, 45.0, *persisted.CommissionAmount)
		}
	}
}

func TestCancelBookingRequiresConfirmed(t *testing.T) {
	f := newFixture()
	f.store.On("GetByID", mock.Anything, uint(9)).
		Return(&reservationModel.Reservation{ID: 9, Status: reservationModel.StatusPending}, nil)

	_, err := f.coord.CancelBooking(context.Background(), testActor(), 9)

	assert.ErrorIs(t, err, ErrNotConfirmed)
	f.upstream.AssertNotCalled(t, "CancelBooking", mock.Anything, mock.Anything)
}

func TestCancelBookingRecordsPenaltyFee(t *testing.T) {
	f := newFixture()
	f.store.On("GetByID", mock.Anything, uint(9)).
		Return(&reservationModel.Reservation{ID: 9, Status: reservationModel.StatusConfirmed, BookingNumber: "BN-77"}, nil)
	f.upstream.On("CancelBooking", mock.Anything, provider.CancelBookingRequest{FeedID: "feed-1", BookingNumber: "BN-77"}).
		Return(&provider.CancelBookingResponse{Status: "CANCELLED", PenaltyFee: 120.5}, nil)
	f.store.On("Transition", mock.Anything, uint(9), reservationModel.StatusCancelled, "alice", mock.Anything).
		Return(&reservationModel.Reservation{ID: 9, BookingNumber: "BN-77"}, nil)
	f.audit.On("Record", mock.Anything).Return()

	res, err := f.coord.CancelBooking(context.Background(), testActor(), 9)

	assert.NoError(t, err)
	assert.Equal(t, reservationModel.StatusCancelled, res.Status)
	if assert.NotNil(t, res.CancellationFee) {
		assert.Equal(t, 120.5, *res.CancellationFee)
	}
}

func TestCancelBookingUpstreamFailureKeepsConfirmed(t *testing.T) {
	f := newFixture()
	f.store.On("GetByID", mock.Anything, uint(9)).
		Return(&reservationModel.Reservation{ID: 9, Status: reservationModel.StatusConfirmed, BookingNumber: "BN-77"}, nil)
	f.upstream.On("CancelBooking", mock.Anything, mock.Anything).
		Return(nil, provider.ErrUnavailable)

	_, err := f.coord.CancelBooking(context.Background(), testActor(), 9)

	assert.ErrorIs(t, err, provider.ErrUnavailable)
	f.store.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcilePendingResolvesOutcomes(t *testing.T) {
	f := newFixture()
	rows := []reservationModel.Reservation{
		{ID: 1, ClientReferenceID: "ref-confirmed", Status: reservationModel.StatusPending},
		{ID: 2, ClientReferenceID: "ref-missing", Status: reservationModel.StatusPending},
		{ID: 3, ClientReferenceID: "ref-unreachable", Status: reservationModel.StatusPending},
		{ID: 4, ClientReferenceID: "ref-still-pending", Status: reservationModel.StatusPending},
	}
	f.store.On("ListPendingOlderThan", mock.Anything, mock.Anything).Return(rows, nil)

	f.upstream.On("GetReservationByClientReference", mock.Anything, "feed-1", "ref-confirmed").
		Return(&provider.ReservationDetailResponse{Status: "CONFIRMED", BookingNumber: "BN-1"}, nil)
	f.upstream.On("GetReservationByClientReference", mock.Anything, "feed-1", "ref-missing").
		Return(&provider.ReservationDetailResponse{Status: "NOT_FOUND"}, nil)
	f.upstream.On("GetReservationByClientReference", mock.Anything, "feed-1", "ref-unreachable").
		Return(nil, provider.ErrUnavailable)
	f.upstream.On("GetReservationByClientReference", mock.Anything, "feed-1", "ref-still-pending").
		Return(&provider.ReservationDetailResponse{Status: "PENDING"}, nil)

	f.store.On("Transition", mock.Anything, uint(1), reservationModel.StatusConfirmed, "system:reconciler", mock.Anything).
		Return(&reservationModel.Reservation{ID: 1}, nil)
	f.store.On("Transition", mock.Anything, uint(2), reservationModel.StatusFailed, "system:reconciler", mock.Anything).
		Return(&reservationModel.Reservation{ID: 2}, nil)
	f.audit.On("Record", mock.Anything).Return()

	report, err := f.coord.ReconcilePending(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 4, report.Checked)
	assert.Equal(t, 1, report.Confirmed)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 2, report.Skipped)
	f.store.AssertExpectations(t)
}

func TestUpstreamStatusFetchesByBookingNumber(t *testing.T) {
	f := newFixture()
	f.store.On("GetByID", mock.Anything, uint(9)).
		Return(&reservationModel.Reservation{ID: 9, Status: reservationModel.StatusConfirmed, BookingNumber: "BN-77"}, nil)
	f.upstream.On("GetReservationDetail", mock.Anything, "feed-1", "BN-77").
		Return(&provider.ReservationDetailResponse{Status: "CONFIRMED", BookingNumber: "BN-77"}, nil)

	detail, err := f.coord.UpstreamStatus(context.Background(), 9)

	assert.NoError(t, err)
	assert.Equal(t, "CONFIRMED", detail.Status)
	f.upstream.AssertExpectations(t)
}

func TestUpstreamStatusRequiresBookingNumber(t *testing.T) {
	f := newFixture()
	f.store.On("GetByID", mock.Anything, uint(9)).
		Return(&reservationModel.Reservation{ID: 9, Status: reservationModel.StatusPending}, nil)

	_, err := f.coord.UpstreamStatus(context.Background(), 9)

	assert.ErrorIs(t, err, ErrNotConfirmed)
	f.upstream.AssertNotCalled(t, "GetReservationDetail", mock.Anything, mock.Anything, mock.Anything)
}

func TestReconcileAuditCarriesResolvedStatus(t *testing.T) {
	f := newFixture()
	rows := []reservationModel.Reservation{
		{ID: 1, Reference: "RSV-1", ClientReferenceID: "ref-confirmed", Status: reservationModel.StatusPending},
	}
	f.store.On("ListPendingOlderThan", mock.Anything, mock.Anything).Return(rows, nil)
	f.upstream.On("GetReservationByClientReference", mock.Anything, "feed-1", "ref-confirmed").
		Return(&provider.ReservationDetailResponse{Status: "CONFIRMED", BookingNumber: "BN-1"}, nil)
	f.store.On("Transition", mock.Anything, uint(1), reservationModel.StatusConfirmed, "system:reconciler", mock.Anything).
		Return(&reservationModel.Reservation{ID: 1, Reference: "RSV-1"}, nil)

	var recorded auditModel.AuditLog
	f.audit.On("Record", mock.Anything).Run(func(args mock.Arguments) {
		recorded = args.Get(0).(auditModel.AuditLog)
	}).Return()

	_, err := f.coord.ReconcilePending(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "booking.reconciled.confirmed", recorded.Action)
	// The entry reflects the row after the transition, not before it.
	assert.Contains(t, recorded.Payload, `"status":"CONFIRMED"`)
}

func TestMarkConfirmedToleratesConcurrentReconcile(t *testing.T) {
	f := newFixture()
	f.quotes.On("Lookup", mock.Anything, "sess-1").Return(testSession(), nil)
	f.store.On("ExistsActiveWithPriceCode", mock.Anything, "P1").Return(false, nil)
	f.rules.On("ActiveRules", mock.Anything).Return(nil, nil)
	f.store.On("CreateIfAbsent", mock.Anything, mock.Anything).
		Return(true, &reservationModel.Reservation{ID: 9, Status: reservationModel.StatusPending}, nil)
	f.upstream.On("CreateBooking", mock.Anything, mock.Anything).
		Return(&provider.CreateBookingResponse{BookingNumber: "BN-77"}, nil)

	// A reconcile pass already confirmed the row between the upstream call
	// and our transition.
	f.store.On("Transition", mock.Anything, uint(9), reservationModel.StatusConfirmed, "alice", mock.Anything).
		Return(nil, repository.ErrInvalidTransition)
	f.store.On("GetByID", mock.Anything, uint(9)).
		Return(&reservationModel.Reservation{ID: 9, Status: reservationModel.StatusConfirmed, BookingNumber: "BN-77"}, nil)

	res, err := f.coord.CreateBooking(context.Background(), testActor(), testInput())

	assert.NoError(t, err)
	assert.Equal(t, reservationModel.StatusConfirmed, res.Status)
}
