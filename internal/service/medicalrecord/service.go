package medicalrecord

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
	repo    repository.MedicalRecordRepository
	checker *integrity.Checker
	ids     *idgen.Generator
	events  *event.Publisher
}

func NewService(
	repo repository.MedicalRecordRepository,
	checker *integrity.Checker,
	ids *idgen.Generator,
	events *event.Publisher,
) *Service {
	return &Service{
		repo:    repo,
		checker: checker,
		ids:     ids,
		events:  events,
	}
}

// Create verifies both referenced entities exist before writing anything.
func (s *Service) Create(ctx context.Context, req *model.CreateMedicalRecordRequest) (*model.MedicalRecord, error) {
	record := &model.MedicalRecord{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Diagnosis: validator.Sanitize(req.Diagnosis),
		Treatment: validator.Sanitize(req.Treatment),
		Notes:     validator.Sanitize(req.Notes),
	}

	if err := validateRecord(record); err != nil {
		return nil, err
	}

	if err := s.checker.EnsurePatient(ctx, record.PatientID); err != nil {
		return nil, err
	}
	if err := s.checker.EnsureDoctor(ctx, record.DoctorID); err != nil {
		return nil, err
	}

	record.ID = s.ids.Generate(idgen.KindMedicalRecord)
	record.CreatedAt = time.Now().UTC()

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, "medical_record.created", record)
	return record, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.MedicalRecord, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.MedicalRecordFilters) ([]*model.MedicalRecord, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Update(ctx context.Context, id string, req *model.UpdateMedicalRecordRequest) (*model.MedicalRecord, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.PatientID != nil && *req.PatientID != record.PatientID {
		if err := s.checker.EnsurePatient(ctx, *req.PatientID); err != nil {
			return nil, err
		}
		record.PatientID = *req.PatientID
	}
	if req.DoctorID != nil && *req.DoctorID != record.DoctorID {
		if err := s.checker.EnsureDoctor(ctx, *req.DoctorID); err != nil {
			return nil, err
		}
		record.DoctorID = *req.DoctorID
	}
	if req.Diagnosis != nil {
		record.Diagnosis = validator.Sanitize(*req.Diagnosis)
	}
	if req.Treatment != nil {
		record.Treatment = validator.Sanitize(*req.Treatment)
	}
	if req.Notes != nil {
		record.Notes = validator.Sanitize(*req.Notes)
	}

	if err := validateRecord(record); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, "medical_record.updated", record)
	return record, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Publish(ctx, "medical_record.deleted", map[string]string{"id": id})
	return nil
}

func validateRecord(record *model.MedicalRecord) error {
	var missing validator.MissingFields
	missing.Require("patientId", record.PatientID)
	missing.Require("doctorId", record.DoctorID)
	missing.Require("diagnosis", record.Diagnosis)
	missing.Require("treatment", record.Treatment)
	if !missing.Empty() {
		return apperrors.NewValidation("medical record", missing)
	}
	return nil
}
