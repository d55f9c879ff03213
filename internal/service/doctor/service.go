package doctor

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
	repo         repository.DoctorRepository
	appointments repository.AppointmentRepository
	records      repository.MedicalRecordRepository
	ids          *idgen.Generator
	events       *event.Publisher
	checker      *integrity.Checker
}

func NewService(
	repo repository.DoctorRepository,
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

func (s *Service) Register(ctx context.Context, req *model.RegisterDoctorRequest) (*model.Doctor, error) {
	doctor := &model.Doctor{
		Name:           validator.Sanitize(req.Name),
		Specialization: validator.Sanitize(req.Specialization),
		ContactNumber:  validator.Sanitize(req.ContactNumber),
		Email:          validator.Sanitize(req.Email),
	}

	if err := validateDoctor(doctor); err != nil {
		return nil, err
	}

	doctor.ID = s.ids.Generate(idgen.KindDoctor)
	doctor.CreatedAt = time.Now().UTC()

	if err := s.repo.Create(ctx, doctor); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, "doctor.registered", doctor)
	return doctor, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.Doctor, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Update(ctx context.Context, id string, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		doctor.Name = validator.Sanitize(*req.Name)
	}
	if req.Specialization != nil {
		doctor.Specialization = validator.Sanitize(*req.Specialization)
	}
	if req.ContactNumber != nil {
		doctor.ContactNumber = validator.Sanitize(*req.ContactNumber)
	}
	if req.Email != nil {
		doctor.Email = validator.Sanitize(*req.Email)
	}

	if err := validateDoctor(doctor); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, doctor); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, "doctor.updated", doctor)
	return doctor, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}

	appointments, err := s.appointments.List(ctx, &model.AppointmentFilters{DoctorID: id})
	if err != nil {
		return err
	}
	records, err := s.records.List(ctx, &model.MedicalRecordFilters{DoctorID: id})
	if err != nil {
		return err
	}
	if len(appointments) > 0 || len(records) > 0 {
		return apperrors.NewStillReferenced("doctor", id, len(appointments), len(records))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.checker.Forget(model.CollectionDoctors, id)
	s.events.Publish(ctx, "doctor.deleted", map[string]string{"id": id})
	return nil
}

func validateDoctor(doctor *model.Doctor) error {
	var missing validator.MissingFields
	missing.Require("name", doctor.Name)
	missing.Require("specialization", doctor.Specialization)
	missing.Require("contactNumber", doctor.ContactNumber)
	if !missing.Empty() {
		return apperrors.NewValidation("doctor", missing)
	}

	if !validator.IsValidPhone(doctor.ContactNumber) {
		return apperrors.NewValidationMessage("contactNumber is not a valid phone number")
	}
	if doctor.Email != "" && !validator.IsValidEmail(doctor.Email) {
		return apperrors.NewValidationMessage("email is not a valid address")
	}
	return nil
}
