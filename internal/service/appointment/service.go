package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/medrec/records-api/internal/email"
	"github.com/medrec/records-api/internal/model"
	"github.com/medrec/records-api/internal/repository"
	"github.com/medrec/records-api/internal/service/integrity"
	apperrors "github.com/medrec/records-api/pkg/errors"
	"github.com/medrec/records-api/pkg/event"
	"github.com/medrec/records-api/pkg/idgen"
	"github.com/medrec/records-api/pkg/logger"
	"github.com/medrec/records-api/pkg/validator"
)

// postponementRequestedBy records which side opened the negotiation; only
// doctors propose new times in this flow.
const postponementRequestedBy = "doctor"

type Service struct {
	repo     repository.AppointmentRepository
	patients repository.PatientRepository
	checker  *integrity.Checker
	ids      *idgen.Generator
	events   *event.Publisher
	notifier email.Service
	logger   *logger.Logger
}

func NewService(
	repo repository.AppointmentRepository,
	patients repository.PatientRepository,
	checker *integrity.Checker,
	ids *idgen.Generator,
	events *event.Publisher,
	notifier email.Service,
	log *logger.Logger,
) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		repo:     repo,
		patients: patients,
		checker:  checker,
		ids:      ids,
		events:   events,
		notifier: notifier,
		logger:   log.WithComponent("appointments"),
	}
}

// Schedule validates the request and verifies both referenced entities exist
// before anything is written. A failed check writes nothing.
func (s *Service) Schedule(ctx context.Context, req *model.ScheduleAppointmentRequest) (*model.Appointment, error) {
	var missing validator.MissingFields
	missing.Require("patientId", req.PatientID)
	missing.Require("doctorId", req.DoctorID)
	if req.DateTime.IsZero() {
		missing = append(missing, "dateTime")
	}
	if !missing.Empty() {
		return nil, apperrors.NewValidation("appointment", missing)
	}

	if err := s.checker.EnsurePatient(ctx, req.PatientID); err != nil {
		return nil, err
	}
	if err := s.checker.EnsureDoctor(ctx, req.DoctorID); err != nil {
		return nil, err
	}

	apt := &model.Appointment{
		ID:        s.ids.Generate(idgen.KindAppointment),
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		DateTime:  req.DateTime,
		Status:    model.AppointmentStatusScheduled,
		Notes:     validator.Sanitize(req.Notes),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, "appointment.scheduled", apt)
	return apt, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	return s.repo.List(ctx, filters)
}

// Update applies the non-nil fields of req. Changing patientId or doctorId
// re-runs the referential check for the changed key.
func (s *Service) Update(ctx context.Context, id string, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.PatientID != nil && *req.PatientID != apt.PatientID {
		if err := s.checker.EnsurePatient(ctx, *req.PatientID); err != nil {
			return nil, err
		}
		apt.PatientID = *req.PatientID
	}
	if req.DoctorID != nil && *req.DoctorID != apt.DoctorID {
		if err := s.checker.EnsureDoctor(ctx, *req.DoctorID); err != nil {
			return nil, err
		}
		apt.DoctorID = *req.DoctorID
	}
	if req.DateTime != nil {
		apt.DateTime = *req.DateTime
	}
	if req.Notes != nil {
		apt.Notes = validator.Sanitize(*req.Notes)
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, "appointment.updated", apt)
	return apt, nil
}

// UpdateStatus overwrites the status directly. Unlike the postponement
// transitions it checks only enum membership, not the current state.
func (s *Service) UpdateStatus(ctx context.Context, id string, status model.AppointmentStatus) (*model.Appointment, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationMessage(fmt.Sprintf("unknown appointment status %q", status))
	}

	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	apt.Status = status
	// A proposal is only meaningful while a postponement is pending.
	if status != model.AppointmentStatusPostponeRequested {
		apt.Postponement = nil
	}
	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, "appointment.status_changed", apt)
	return apt, nil
}

func (s *Service) Cancel(ctx context.Context, id, reason string) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	apt.Status = model.AppointmentStatusCancelled
	apt.Postponement = nil
	if reason = validator.Sanitize(reason); reason != "" {
		apt.Notes = appendNote(apt.Notes, "Cancelled: "+reason)
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, "appointment.cancelled", apt)
	return apt, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Publish(ctx, "appointment.deleted", map[string]string{"id": id})
	return nil
}

// RequestPostponement opens the doctor-proposes negotiation. Legal only from
// scheduled or confirmed.
func (s *Service) RequestPostponement(ctx context.Context, id string, req *model.RequestPostponementRequest) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if apt.Status != model.AppointmentStatusScheduled && apt.Status != model.AppointmentStatusConfirmed {
		return nil, apperrors.NewValidationMessage(
			fmt.Sprintf("cannot request postponement while appointment is %s", apt.Status))
	}
	if req.NewDateTime.IsZero() {
		return nil, apperrors.NewValidation("postponement", []string{"newDateTime"})
	}

	apt.Status = model.AppointmentStatusPostponeRequested
	apt.Postponement = &model.Postponement{
		NewDateTime: req.NewDateTime,
		Reason:      validator.Sanitize(req.Reason),
		RequestedBy: postponementRequestedBy,
		RequestedAt: time.Now().UTC(),
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, "appointment.postpone_requested", apt)
	s.notifyPatient(ctx, apt, func(to, name string) error {
		return s.notifier.SendPostponementRequested(ctx, to, name, apt)
	})
	return apt, nil
}

// AcceptPostponement moves the appointment to the proposed time and confirms
// it. Legal only from postpone_requested with a proposal present.
func (s *Service) AcceptPostponement(ctx context.Context, id string) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if apt.Status != model.AppointmentStatusPostponeRequested || apt.Postponement == nil {
		return nil, apperrors.NewValidationMessage(
			fmt.Sprintf("no pending postponement to accept (status %s)", apt.Status))
	}

	apt.DateTime = apt.Postponement.NewDateTime
	apt.Notes = appendNote(apt.Notes, "Postponed: "+apt.Postponement.Reason)
	apt.Status = model.AppointmentStatusConfirmed
	apt.Postponement = nil

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, "appointment.postpone_accepted", apt)
	s.notifyPatient(ctx, apt, func(to, name string) error {
		return s.notifier.SendPostponementResolved(ctx, to, name, apt, true)
	})
	return apt, nil
}

// RejectPostponement drops the proposal and confirms the appointment at its
// original time. Legal only from postpone_requested.
func (s *Service) RejectPostponement(ctx context.Context, id string) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if apt.Status != model.AppointmentStatusPostponeRequested {
		return nil, apperrors.NewValidationMessage(
			fmt.Sprintf("no pending postponement to reject (status %s)", apt.Status))
	}

	apt.Status = model.AppointmentStatusConfirmed
	apt.Postponement = nil

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, "appointment.postpone_rejected", apt)
	s.notifyPatient(ctx, apt, func(to, name string) error {
		return s.notifier.SendPostponementResolved(ctx, to, name, apt, false)
	})
	return apt, nil
}

// notifyPatient looks up the patient and sends a notification when they have
// an email on file. A missing patient or send failure is logged, never fatal.
func (s *Service) notifyPatient(ctx context.Context, apt *model.Appointment, send func(to, name string) error) {
	patient, err := s.patients.Get(ctx, apt.PatientID)
	if err != nil {
		s.logger.Warn(err, "cannot notify patient for appointment "+apt.ID)
		return
	}
	if patient.Email == "" {
		return
	}
	if err := send(patient.Email, patient.Name); err != nil {
		s.logger.Warn(err, "failed to send notification for appointment "+apt.ID)
	}
}

func appendNote(notes, line string) string {
	if notes == "" {
		return line
	}
	return notes + "\n" + line
}
