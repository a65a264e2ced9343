// Package booking drives the two-system booking lifecycle: quote session
// validation, price resolution, the upstream commit, and the local record,
// with idempotent retries and reconciliation for unknown outcomes.
package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	provider "hotel-broker/httpServices/provider"
	"hotel-broker/logger"
	auditModel "hotel-broker/models/audit"
	pricingModel "hotel-broker/models/pricing"
	reservationModel "hotel-broker/models/reservation"
	"hotel-broker/pricing"
	"hotel-broker/quotecache"
	"hotel-broker/repository"
	"hotel-broker/services/authz"
)

// QuoteLookup is the slice of the quote cache the coordinator needs.
type QuoteLookup interface {
	Lookup(ctx context.Context, id string) (*quotecache.Session, error)
}

// ProviderClient covers the upstream operations the coordinator drives.
type ProviderClient interface {
	CreateBooking(ctx context.Context, req provider.CreateBookingRequest) (*provider.CreateBookingResponse, error)
	CancelBooking(ctx context.Context, req provider.CancelBookingRequest) (*provider.CancelBookingResponse, error)
	GetReservationDetail(ctx context.Context, feedID, bookingNumber string) (*provider.ReservationDetailResponse, error)
	GetReservationByClientReference(ctx context.Context, feedID, clientReferenceID string) (*provider.ReservationDetailResponse, error)
}

// ReservationStore is the transactional reservation persistence interface.
type ReservationStore interface {
	CreateIfAbsent(ctx context.Context, res *reservationModel.Reservation) (bool, *reservationModel.Reservation, error)
	GetByID(ctx context.Context, id uint) (*reservationModel.Reservation, error)
	GetByClientReference(ctx context.Context, clientReferenceID string) (*reservationModel.Reservation, error)
	Transition(ctx context.Context, id uint, next reservationModel.Status, actor string, mutate func(*reservationModel.Reservation)) (*reservationModel.Reservation, error)
	ExistsActiveWithPriceCode(ctx context.Context, priceCode string) (bool, error)
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]reservationModel.Reservation, error)
}

// RuleSource supplies the active rule and commission sets to price with.
type RuleSource interface {
	ActiveRules(ctx context.Context) ([]pricingModel.PriceRule, error)
	ActiveCommissions(ctx context.Context, agencyID string) ([]pricingModel.Commission, error)
}

// AuditSink receives audit entries; persistence is asynchronous.
type AuditSink interface {
	Record(entry auditModel.AuditLog)
}

// Contact is the booker's contact details.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CreateInput is everything createBooking needs besides the actor.
type CreateInput struct {
	SessionID         string                     `json:"session_id"`
	RoomCode          string                     `json:"room_code"`
	PriceCode         string                     `json:"price_code"`
	ClientReferenceID string                     `json:"client_reference_id"`
	Contact           Contact                    `json:"contact"`
	Guests            reservationModel.GuestList `json:"guests"`
}

// ReconcileReport summarises one reconciliation pass over PENDING rows.
type ReconcileReport struct {
	Checked   int `json:"checked"`
	Confirmed int `json:"confirmed"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// reconcileMinAge keeps reconciliation away from rows whose create call may
// still be in flight.
const reconcileMinAge = 5 * time.Minute

// confirmPersistRetries is how often a CONFIRMED outcome is re-persisted
// before raising an operator alert. Losing a confirmed-but-unrecorded
// booking is the most severe failure mode.
const confirmPersistRetries = 3

// Coordinator orchestrates booking creation, cancellation and
// reconciliation across the upstream provider and the local store.
type Coordinator struct {
	quotes   QuoteLookup
	upstream ProviderClient
	store    ReservationStore
	rules    RuleSource
	audit    AuditSink
	feedID   string
	now      func() time.Time
}

func NewCoordinator(quotes QuoteLookup, upstream ProviderClient, store ReservationStore, rules RuleSource, audit AuditSink, feedID string) *Coordinator {
	return &Coordinator{
		quotes:   quotes,
		upstream: upstream,
		store:    store,
		rules:    rules,
		audit:    audit,
		feedID:   feedID,
		now:      time.Now,
	}
}

const dateLayout = "2006-01-02"

// CreateBooking runs the create state machine. Cheap failures (expired
// session, invalid price code) happen before any external side effect. On an
// indeterminate upstream outcome the PENDING reservation is returned together
// with ErrIndeterminate.
func (c *Coordinator) CreateBooking(ctx context.Context, actor authz.Actor, in CreateInput) (*reservationModel.Reservation, error) {
	session, err := c.quotes.Lookup(ctx, in.SessionID)
	if err != nil {
		if errors.Is(err, quotecache.ErrExpired) || errors.Is(err, quotecache.ErrNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, err
	}

	offer := session.FindRoom(in.RoomCode, in.PriceCode)
	if offer == nil {
		return nil, ErrInvalidPriceCode
	}

	used, err := c.store.ExistsActiveWithPriceCode(ctx, in.PriceCode)
	if err != nil {
		return nil, fmt.Errorf("check price code: %w", err)
	}
	if used {
		// A retry with the same client reference returns the earlier
		// row; a different caller reusing a consumed rate must fail.
		if existing, gerr := c.store.GetByClientReference(ctx, in.ClientReferenceID); gerr == nil {
			return existing, nil
		}
		return nil, ErrInvalidPriceCode
	}

	result, err := c.resolvePrice(ctx, actor, session, offer)
	if err != nil {
		return nil, err
	}

	pending := c.buildPending(actor, session, offer, in, result)
	created, row, err := c.store.CreateIfAbsent(ctx, pending)
	if err != nil {
		return nil, fmt.Errorf("persist pending reservation: %w", err)
	}
	if !created {
		// Idempotent retry: the earlier attempt's row is the answer,
		// whatever state it reached.
		return row, nil
	}

	// From here the upstream call must run to completion and record its
	// outcome even if the original caller disconnects.
	dctx := context.WithoutCancel(ctx)
	return c.commitUpstream(dctx, actor, row, session, in)
}

func (c *Coordinator) resolvePrice(ctx context.Context, actor authz.Actor, session *quotecache.Session, offer *provider.RoomOffer) (pricing.Result, error) {
	rules, err := c.rules.ActiveRules(ctx)
	if err != nil {
		return pricing.Result{}, fmt.Errorf("load price rules: %w", err)
	}

	var commissions []pricingModel.Commission
	if actor.AgencyID != nil {
		commissions, err = c.rules.ActiveCommissions(ctx, *actor.AgencyID)
		if err != nil {
			return pricing.Result{}, fmt.Errorf("load commissions: %w", err)
		}
	}

	return pricing.Resolve(pricing.Input{
		BasePrice:   offer.TotalPrice,
		Currency:    offer.Currency,
		HotelCode:   session.HotelCode,
		BoardType:   offer.BoardType,
		AgencyID:    actor.AgencyID,
		BookingDate: c.now(),
	}, rules, commissions), nil
}

func (c *Coordinator) buildPending(actor authz.Actor, session *quotecache.Session, offer *provider.RoomOffer, in CreateInput, priced pricing.Result) *reservationModel.Reservation {
	policies := make(reservationModel.PolicyList, 0, len(offer.CancellationPolicies))
	for _, p := range offer.CancellationPolicies {
		policies = append(policies, reservationModel.CancellationPolicy{From: p.From, Amount: p.Amount, Note: p.Note})
	}

	res := &reservationModel.Reservation{
		Reference:            uuid.NewString(),
		ClientReferenceID:    in.ClientReferenceID,
		Status:               reservationModel.StatusPending,
		UserID:               actor.UserID,
		AgencyID:             actor.AgencyID,
		HotelCode:            session.HotelCode,
		RoomCode:             offer.RoomCode,
		BoardType:            offer.BoardType,
		PriceCode:            offer.PriceCode,
		CheckInDate:          session.CheckIn,
		CheckOutDate:         session.CheckOut,
		ContactName:          in.Contact.Name,
		ContactEmail:         in.Contact.Email,
		ContactPhone:         in.Contact.Phone,
		Guests:               in.Guests,
		BasePrice:            offer.TotalPrice,
		FinalPrice:           priced.FinalPrice,
		Currency:             offer.Currency,
		AppliedRuleID:        priced.AppliedRuleID,
		CancellationPolicies: policies,
		CreatedBy:            actor.Username,
	}
	if priced.Commission != nil {
		id := priced.Commission.CommissionID
		amount := priced.Commission.Amount
		res.CommissionID = &id
		res.CommissionAmount = &amount
	}
	return res
}

// commitUpstream dispatches the provider create call and records the
// outcome. ctx is already detached from the caller.
func (c *Coordinator) commitUpstream(ctx context.Context, actor authz.Actor, row *reservationModel.Reservation, session *quotecache.Session, in CreateInput) (*reservationModel.Reservation, error) {
	guests := make([]provider.BookingGuest, 0, len(in.Guests))
	for _, g := range in.Guests {
		guests = append(guests, provider.BookingGuest{Type: g.Type, Title: g.Title, FirstName: g.FirstName, LastName: g.LastName, Age: g.Age})
	}

	resp, err := c.upstream.CreateBooking(ctx, provider.CreateBookingRequest{
		FeedID:            c.feedID,
		ClientReferenceID: in.ClientReferenceID,
		HotelCode:         session.HotelCode,
		RoomCode:          in.RoomCode,
		PriceCode:         in.PriceCode,
		CheckIn:           session.CheckIn.Format(dateLayout),
		CheckOut:          session.CheckOut.Format(dateLayout),
		Contact:           provider.BookingContact{Name: in.Contact.Name, Email: in.Contact.Email, Phone: in.Contact.Phone},
		Guests:            guests,
	})

	switch {
	case err == nil:
		return c.markConfirmed(ctx, actor, row, resp.BookingNumber)

	case provider.IsRejection(err):
		reason := err.Error()
		failed, terr := c.store.Transition(ctx, row.ID, reservationModel.StatusFailed, actor.Username, func(r *reservationModel.Reservation) {
			r.FailureReason = &reason
		})
		if terr != nil {
			logger.Error(fmt.Sprintf("failed to mark reservation %d FAILED", row.ID), terr)
			return nil, terr
		}
		c.recordAudit(actor, failed, "booking.rejected", reason)
		return nil, err

	default:
		// Unknown outcome: the row stays PENDING for reconciliation.
		logger.Warning(fmt.Sprintf("reservation %d left PENDING, upstream outcome unknown", row.ID))
		return row, fmt.Errorf("%w: %v", ErrIndeterminate, err)
	}
}

// markConfirmed persists the CONFIRMED state. The upstream booking exists at
// this point, so local failures are retried and then escalated rather than
// ever reported as a failed booking.
func (c *Coordinator) markConfirmed(ctx context.Context, actor authz.Actor, row *reservationModel.Reservation, bookingNumber string) (*reservationModel.Reservation, error) {
	var confirmed *reservationModel.Reservation
	var err error
	for attempt := 1; attempt <= confirmPersistRetries; attempt++ {
		confirmed, err = c.store.Transition(ctx, row.ID, reservationModel.StatusConfirmed, actor.Username, func(r *reservationModel.Reservation) {
			now := c.now()
			r.BookingNumber = bookingNumber
			r.ConfirmedAt = &now
		})
		if err == nil {
			c.recordAudit(actor, confirmed, "booking.confirmed", bookingNumber)
			logger.Success(fmt.Sprintf("reservation %d confirmed, booking number %s", confirmed.ID, bookingNumber))
			return confirmed, nil
		}
		if errors.Is(err, repository.ErrInvalidTransition) {
			// The row already moved, e.g. a concurrent reconcile
			// confirmed it first. Nothing left to persist.
			current, gerr := c.store.GetByID(ctx, row.ID)
			if gerr == nil && current.Status == reservationModel.StatusConfirmed {
				return current, nil
			}
			break
		}
		time.Sleep(time.Duration(attempt) * 200 * time.Millisecond)
	}

	logger.Error(fmt.Sprintf("ALERT: upstream booking %s confirmed but local persistence failed for reservation %d; manual reconciliation required", bookingNumber, row.ID), err)
	return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
}

// CancelBooking cancels a CONFIRMED reservation upstream and records the
// transition. An upstream failure leaves the reservation CONFIRMED; local
// state never assumes a cancellation that the provider did not acknowledge.
func (c *Coordinator) CancelBooking(ctx context.Context, actor authz.Actor, reservationID uint) (*reservationModel.Reservation, error) {
	row, err := c.store.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if row.Status != reservationModel.StatusConfirmed {
		return nil, ErrNotConfirmed
	}

	resp, err := c.upstream.CancelBooking(ctx, provider.CancelBookingRequest{
		FeedID:        c.feedID,
		BookingNumber: row.BookingNumber,
	})
	if err != nil {
		return nil, err
	}

	cancelled, err := c.store.Transition(context.WithoutCancel(ctx), row.ID, reservationModel.StatusCancelled, actor.Username, func(r *reservationModel.Reservation) {
		now := c.now()
		r.CancelledAt = &now
		fee := resp.PenaltyFee
		r.CancellationFee = &fee
	})
	if err != nil {
		logger.Error(fmt.Sprintf("ALERT: booking %s cancelled upstream but local persistence failed for reservation %d", row.BookingNumber, row.ID), err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	c.recordAudit(actor, cancelled, "booking.cancelled", fmt.Sprintf("penalty=%.2f", resp.PenaltyFee))
	return cancelled, nil
}

// UpstreamStatus fetches the provider's live view of a reservation by its
// booking number. Only reservations that reached CONFIRMED carry one.
func (c *Coordinator) UpstreamStatus(ctx context.Context, reservationID uint) (*provider.ReservationDetailResponse, error) {
	row, err := c.store.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if row.BookingNumber == "" {
		return nil, ErrNotConfirmed
	}
	return c.upstream.GetReservationDetail(ctx, c.feedID, row.BookingNumber)
}

// ReconcilePending resolves PENDING reservations whose upstream outcome was
// unknown at create time by querying the provider by client reference id.
func (c *Coordinator) ReconcilePending(ctx context.Context) (*ReconcileReport, error) {
	cutoff := c.now().Add(-reconcileMinAge)
	rows, err := c.store.ListPendingOlderThan(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list pending reservations: %w", err)
	}

	report := &ReconcileReport{}
	system := authz.Actor{Username: "system:reconciler"}

	for i := range rows {
		row := &rows[i]
		report.Checked++

		detail, err := c.upstream.GetReservationByClientReference(ctx, c.feedID, row.ClientReferenceID)
		if err != nil {
			// Provider still unreachable; the row stays PENDING for
			// the next pass.
			logger.Warning(fmt.Sprintf("reconcile: reservation %d skipped: %v", row.ID, err))
			report.Skipped++
			continue
		}

		switch detail.Status {
		case "CONFIRMED":
			confirmed, terr := c.store.Transition(ctx, row.ID, reservationModel.StatusConfirmed, system.Username, func(r *reservationModel.Reservation) {
				now := c.now()
				r.BookingNumber = detail.BookingNumber
				r.ConfirmedAt = &now
			})
			if terr != nil {
				logger.Error(fmt.Sprintf("reconcile: failed to confirm reservation %d", row.ID), terr)
				report.Skipped++
				continue
			}
			c.recordAudit(system, confirmed, "booking.reconciled.confirmed", detail.BookingNumber)
			report.Confirmed++

		case "FAILED", "NOT_FOUND":
			reason := detail.Reason
			if reason == "" {
				reason = "not found upstream during reconciliation"
			}
			failed, terr := c.store.Transition(ctx, row.ID, reservationModel.StatusFailed, system.Username, func(r *reservationModel.Reservation) {
				r.FailureReason = &reason
			})
			if terr != nil {
				logger.Error(fmt.Sprintf("reconcile: failed to fail reservation %d", row.ID), terr)
				report.Skipped++
				continue
			}
			c.recordAudit(system, failed, "booking.reconciled.failed", reason)
			report.Failed++

		default:
			// Still pending upstream too.
			report.Skipped++
		}
	}

	logger.Info(fmt.Sprintf("reconcile pass: checked=%d confirmed=%d failed=%d skipped=%d",
		report.Checked, report.Confirmed, report.Failed, report.Skipped))
	return report, nil
}

func (c *Coordinator) recordAudit(actor authz.Actor, res *reservationModel.Reservation, action, detail string) {
	payload, _ := json.Marshal(map[string]interface{}{
		"status": res.Status,
		"detail": detail,
	})
	c.audit.Record(auditModel.AuditLog{
		EntityName:  "reservation",
		EntityID:    res.Reference,
		Action:      action,
		ActorUserID: actor.UserID,
		Payload:     string(payload),
	})
}
