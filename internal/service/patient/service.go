package patient

import (
	"context"
	"time"

	"github.com/medrec/records-api/internal/model"
	"github.com/medrec/records-api/internal/repository"
	"github.com/medrec/records-api/internal/service/integrity"
	apperrors "github.com/medrec/records-api/pkg/errors"
	"github.com/medrec/records-api/pkg/event"
	"github.com/medrec/records-api/pkg/idgen"
	"github.com/medrec/records-api/pkg/validator"
)

type Service struct {
	repo         repository.PatientRepository
	appointments repository.AppointmentRepository
	records      repository.MedicalRecordRepository
	ids          *idgen.Generator
	events       *event.Publisher
	checker      *integrity.Checker
}

func NewService(
	repo repository.PatientRepository,
	appointments repository.AppointmentRepository,
	records repository.MedicalRecordRepository,
	ids *idgen.Generator,
	events *event.Publisher,
	checker *integrity.Checker,
) *Service {
	return &Service{
		repo:         repo,
		appointments: appointments,
		records:      records,
		ids:          ids,
		events:       events,
		checker:      checker,
	}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterPatientRequest) (*model.Patient, error) {
	patient := &model.Patient{
		Name:          validator.Sanitize(req.Name),
		DateOfBirth:   validator.Sanitize(req.DateOfBirth),
		ContactNumber: validator.Sanitize(req.ContactNumber),
		Address:       validator.Sanitize(req.Address),
		Email:         validator.Sanitize(req.Email),
	}

	if err := validatePatient(patient); err != nil {
		return nil, err
	}

	patient.ID = s.ids.Generate(idgen.KindPatient)
	patient.CreatedAt = time.Now().UTC()

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, "patient.registered", patient)
	return patient, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.Patient, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	return s.repo.List(ctx, filters)
}

// Update applies the non-nil fields of req. ID and CreatedAt never change.
func (s *Service) Update(ctx context.Context, id string, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		patient.Name = validator.Sanitize(*req.Name)
	}
	if req.DateOfBirth != nil {
		patient.DateOfBirth = validator.Sanitize(*req.DateOfBirth)
	}
	if req.ContactNumber != nil {
		patient.ContactNumber = validator.Sanitize(*req.ContactNumber)
	}
	if req.Address != nil {
		patient.Address = validator.Sanitize(*req.Address)
	}
	if req.Email != nil {
		patient.Email = validator.Sanitize(*req.Email)
	}

	if err := validatePatient(patient); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, "patient.updated", patient)
	return patient, nil
}

// Delete refuses to remove a patient that appointments or medical records
// still reference, so stored foreign keys keep resolving.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}

	appointments, err := s.appointments.List(ctx, &model.AppointmentFilters{PatientID: id})
	if err != nil {
		return err
	}
	records, err := s.records.List(ctx, &model.MedicalRecordFilters{PatientID: id})
	if err != nil {
		return err
	}
	if len(appointments) > 0 || len(records) > 0 {
		return apperrors.NewStillReferenced("patient", id, len(appointments), len(records))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.checker.Forget(model.CollectionPatients, id)
	s.events.Publish(ctx, "patient.deleted", map[string]string{"id": id})
	return nil
}

func validatePatient(patient *model.Patient) error {
	var missing validator.MissingFields
	missing.Require("name", patient.Name)
	missing.Require("dateOfBirth", patient.DateOfBirth)
	missing.Require("contactNumber", patient.ContactNumber)
	missing.Require("address", patient.Address)
	if !missing.Empty() {
		return apperrors.NewValidation("patient", missing)
	}

	if !validator.IsValidDate(patient.DateOfBirth) {
		return apperrors.NewValidationMessage("dateOfBirth must be a YYYY-MM-DD calendar date")
	}
	if !validator.IsValidPhone(patient.ContactNumber) {
		return apperrors.NewValidationMessage("contactNumber is not a valid phone number")
	}
	if patient.Email != "" && !validator.IsValidEmail(patient.Email) {
		return apperrors.NewValidationMessage("email is not a valid address")
	}
	return nil
}
