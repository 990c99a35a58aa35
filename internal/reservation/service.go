package reservation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nekogravitycat/studio-booking-backend/internal/booking"
	"github.com/nekogravitycat/studio-booking-backend/internal/catalog"
	"github.com/nekogravitycat/studio-booking-backend/internal/db"
	"github.com/nekogravitycat/studio-booking-backend/internal/notify"
	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/timeutil"
	"github.com/nekogravitycat/studio-booking-backend/internal/resource"
	"github.com/nekogravitycat/studio-booking-backend/internal/schedule"
)

// createAttempts bounds retries when a generated code loses the race on the unique index.
const createAttempts = 3

// maxBulkErrors caps the error messages returned by a bulk action.
const maxBulkErrors = 5

type CreateRequest struct {
	ResourceID     string
	Date           time.Time
	Start          timeutil.Clock
	End            timeutil.Clock
	ClientName     string
	ClientEmail    string
	ClientPhone    string
	ClientDocument string
	ClientTaxID    string
	Notes          string
	ServiceIDs     []string
}

// VerifyResult tells the client what the verification link did.
type VerifyResult string

const (
	VerifyOK              VerifyResult = "verified"
	VerifyAlreadyVerified VerifyResult = "already_verified"
	VerifyNotRequired     VerifyResult = "not_required"
)

// BulkResult reports a batch action item by item.
type BulkResult struct {
	Succeeded int
	Failed    int
	// Errors holds the first failure messages, prefixed by code.
	Errors []string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Reservation, error)
	GetByCode(ctx context.Context, code string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)
	Verify(ctx context.Context, token string) (*Reservation, VerifyResult, error)

	Confirm(ctx context.Context, code string) (*Reservation, error)
	Reject(ctx context.Context, code string) (*Reservation, error)
	Undo(ctx context.Context, code string) (*Reservation, error)
	Cancel(ctx context.Context, code string) (*Reservation, error)
	Reactivate(ctx context.Context, code string) (*Reservation, error)
	// Apply runs action on every code independently; one failure does not stop the batch.
	Apply(ctx context.Context, action Action, codes []string) BulkResult

	UpdateInternalNotes(ctx context.Context, code, notes string) (*Reservation, error)
	AllowedStatuses() []Status
}

// Deps are the collaborators of the reservation service.
type Deps struct {
	Repo            Repository
	BookingRepo     booking.Repository
	Tx              db.TxRunner
	ResourceService resource.Service
	ScheduleService schedule.Service
	CatalogService  catalog.Service
	Codes           *CodeGenerator
	Machine         *Machine
	Notifier        notify.Notifier

	Location *time.Location
	// PublicBaseURL prefixes verification links.
	PublicBaseURL string
	// Now defaults to time.Now.
	Now func() time.Time
}

type service struct {
	Deps
}

func NewService(deps Deps) Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	return &service{Deps: deps}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Reservation, error) {
	req.ClientName = strings.TrimSpace(req.ClientName)
	req.ClientEmail = strings.TrimSpace(req.ClientEmail)
	if req.ClientName == "" || req.ClientEmail == "" {
		return nil, ErrClientRequired
	}
	if req.End <= req.Start || !req.Start.Valid() || !req.End.Valid() {
		return nil, ErrInvalidTimeRange
	}

	res, err := s.ResourceService.GetActive(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}

	v := &Reservation{
		ResourceID:     res.ID,
		ResourceName:   res.Name,
		Date:           timeutil.InLocation(req.Date, s.Location),
		Start:          req.Start,
		End:            req.End,
		Status:         s.Machine.Initial(),
		ClientName:     req.ClientName,
		ClientEmail:    req.ClientEmail,
		ClientPhone:    strings.TrimSpace(req.ClientPhone),
		ClientDocument: strings.TrimSpace(req.ClientDocument),
		ClientTaxID:    strings.TrimSpace(req.ClientTaxID),
		Notes:          req.Notes,
	}
	if v.Interval(s.Location).Start.Before(s.Now()) {
		return nil, ErrDateInPast
	}

	// Pending requests do not block each other; they are checked as if confirmed now
	// so that clients cannot request time that is already taken.
	if err := s.validate(ctx, v); err != nil {
		return nil, err
	}

	services, err := s.CatalogService.Resolve(ctx, req.ServiceIDs)
	if err != nil {
		return nil, err
	}
	v.Services = services

	if err := s.insert(ctx, v); err != nil {
		return nil, err
	}

	s.notifyCreated(ctx, v, res)
	return v, nil
}

// insert stores v under a fresh code, retrying when the code is taken concurrently.
func (s *service) insert(ctx context.Context, v *Reservation) error {
	serviceIDs := make([]string, len(v.Services))
	for i, svc := range v.Services {
		serviceIDs[i] = svc.ID
	}

	for attempt := 0; attempt < createAttempts; attempt++ {
		code, err := s.Codes.Generate(ctx)
		if err != nil {
			return err
		}
		v.Code = code

		err = s.Tx.InTx(ctx, func(ctx context.Context) error {
			if err := s.Repo.Create(ctx, v); err != nil {
				return err
			}
			return s.Repo.LinkServices(ctx, v.ID, serviceIDs)
		})
		if errors.Is(err, ErrCodeTaken) {
			log.Printf("reservation code %s taken concurrently, retrying", code)
			continue
		}
		return err
	}
	return ErrCodeExhausted
}

func (s *service) notifyCreated(ctx context.Context, v *Reservation, res *resource.Resource) {
	if v.Status == StatusPendingVerification {
		link := strings.TrimRight(s.PublicBaseURL, "/") + "/v1/reservations/verify/" + v.VerificationToken
		subject, body := verificationMessage(v, link)
		s.send(ctx, v.ClientEmail, subject, body)
		return
	}

	subject, body := receivedMessage(v)
	s.send(ctx, v.ClientEmail, subject, body)
	s.notifyStaff(ctx, v, res.ContactHandle)
}

func (s *service) notifyStaff(ctx context.Context, v *Reservation, handle string) {
	if handle == "" {
		return
	}
	subject, body := staffRequestMessage(v)
	s.send(ctx, handle, subject, body)
}

// send delivers a notification. Failures are logged and never undo the state change.
func (s *service) send(ctx context.Context, recipient, subject, body string) {
	if s.Notifier == nil || recipient == "" {
		return
	}
	if err := s.Notifier.Send(ctx, recipient, subject, body); err != nil {
		log.Printf("failed to notify %s (%s): %v", recipient, subject, err)
	}
}

func (s *service) GetByCode(ctx context.Context, code string) (*Reservation, error) {
	return s.Repo.GetByCode(ctx, normalizeCode(code))
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	return s.Repo.List(ctx, filter)
}

func (s *service) Verify(ctx context.Context, token string) (*Reservation, VerifyResult, error) {
	v, err := s.Repo.GetByToken(ctx, token)
	if err != nil {
		return nil, "", err
	}
	if !s.Machine.RequiresVerification() {
		return v, VerifyNotRequired, nil
	}
	if v.EmailVerifiedAt != nil {
		return v, VerifyAlreadyVerified, nil
	}

	v, err = s.transition(ctx, v.Code, ActionVerify)
	if err != nil {
		return nil, "", err
	}

	res, err := s.ResourceService.GetByID(ctx, v.ResourceID)
	if err != nil {
		log.Printf("failed to load resource %s for staff notification: %v", v.ResourceID, err)
	} else {
		s.notifyStaff(ctx, v, res.ContactHandle)
	}
	return v, VerifyOK, nil
}

func (s *service) Confirm(ctx context.Context, code string) (*Reservation, error) {
	return s.transition(ctx, code, ActionConfirm)
}

func (s *service) Reject(ctx context.Context, code string) (*Reservation, error) {
	return s.transition(ctx, code, ActionReject)
}

func (s *service) Undo(ctx context.Context, code string) (*Reservation, error) {
	return s.transition(ctx, code, ActionUndo)
}

func (s *service) Cancel(ctx context.Context, code string) (*Reservation, error) {
	return s.transition(ctx, code, ActionCancel)
}

func (s *service) Reactivate(ctx context.Context, code string) (*Reservation, error) {
	return s.transition(ctx, code, ActionReactivate)
}

func (s *service) Apply(ctx context.Context, action Action, codes []string) BulkResult {
	var result BulkResult
	for _, code := range codes {
		if _, err := s.transition(ctx, code, action); err != nil {
			result.Failed++
			log.Printf("bulk %s of %s failed: %v", action, code, err)
			if len(result.Errors) < maxBulkErrors {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", code, err))
			}
			continue
		}
		result.Succeeded++
	}
	return result
}

func (s *service) UpdateInternalNotes(ctx context.Context, code, notes string) (*Reservation, error) {
	var v *Reservation
	err := s.Tx.InTx(ctx, func(ctx context.Context) error {
		current, err := s.Repo.GetByCodeForUpdate(ctx, normalizeCode(code))
		if err != nil {
			return err
		}
		current.InternalNotes = notes
		if err := s.Repo.Update(ctx, current); err != nil {
			return err
		}
		v = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *service) AllowedStatuses() []Status {
	return s.Machine.AllowedStatuses()
}

// transition applies action to the reservation in one transaction. Entering confirmed
// re-validates against the confirmed bookings visible at that moment and spawns the booking;
// leaving confirmed deletes it.
func (s *service) transition(ctx context.Context, code string, action Action) (*Reservation, error) {
	var v *Reservation
	err := s.Tx.InTx(ctx, func(ctx context.Context) error {
		current, err := s.Repo.GetByCodeForUpdate(ctx, normalizeCode(code))
		if err != nil {
			return err
		}

		to, err := s.Machine.Transition(current.Status, action)
		if err != nil {
			return err
		}

		now := s.Now()
		switch {
		case to == StatusConfirmed:
			if err := s.materialize(ctx, current); err != nil {
				return err
			}
			current.ConfirmedAt = &now
		case current.Status == StatusConfirmed:
			if err := s.dematerialize(ctx, current); err != nil {
				return err
			}
			current.ConfirmedAt = nil
		}
		if action == ActionVerify {
			current.EmailVerifiedAt = &now
		}

		current.Status = to
		if err := s.Repo.Update(ctx, current); err != nil {
			return err
		}
		v = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	if v.Status == StatusConfirmed && v.ConfirmedAt != nil {
		subject, body := confirmationMessage(v, v.ConfirmedAt.In(s.Location))
		s.send(ctx, v.ClientEmail, subject, body)
	}
	return v, nil
}

// validate checks v as a prospective confirmed booking against live state.
func (s *service) validate(ctx context.Context, v *Reservation) error {
	span := v.Interval(s.Location)

	windows, err := s.ScheduleService.ListForWeekday(ctx, v.ResourceID, timeutil.Weekday(v.Day(s.Location)))
	if err != nil {
		return err
	}
	existing, err := s.BookingRepo.ListConfirmed(ctx, v.ResourceID, span.Start, span.End)
	if err != nil {
		return err
	}

	cand := booking.Candidate{
		ResourceID: v.ResourceID,
		StartTime:  span.Start,
		EndTime:    span.End,
		Status:     booking.StatusConfirmed,
	}
	return booking.Validate(cand, existing, booking.ValidateOptions{
		CheckSchedule: true,
		Windows:       windows,
		Location:      s.Location,
	})
}

func (s *service) materialize(ctx context.Context, v *Reservation) error {
	if err := s.BookingRepo.LockResource(ctx, v.ResourceID); err != nil {
		return err
	}
	if err := s.validate(ctx, v); err != nil {
		return err
	}

	span := v.Interval(s.Location)
	b := &booking.Booking{
		ResourceID:    v.ResourceID,
		ReservationID: &v.ID,
		StartTime:     span.Start,
		EndTime:       span.End,
		Status:        booking.StatusConfirmed,
		Notes:         "Reservation " + v.Code,
		ClientContact: v.Contact(),
	}
	return s.BookingRepo.Create(ctx, b)
}

func (s *service) dematerialize(ctx context.Context, v *Reservation) error {
	b, err := s.BookingRepo.GetByReservationID(ctx, v.ID)
	if errors.Is(err, booking.ErrNotFound) {
		log.Printf("confirmed reservation %s had no booking", v.Code)
		return nil
	}
	if err != nil {
		return err
	}
	return s.BookingRepo.Delete(ctx, b.ID)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
