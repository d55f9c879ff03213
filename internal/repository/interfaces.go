package repository

import (
	"context"

	"github.com/medrec/records-api/internal/model"
)

// All repository interfaces in one file
type (
	// PatientRepository handles patient persistence
	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id string) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id string) error
		List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
		Exists(ctx context.Context, id string) (bool, error)
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id string) (*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		Delete(ctx context.Context, id string) error
		List(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, error)
		Exists(ctx context.Context, id string) (bool, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id string) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id string) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
	}

	MedicalRecordRepository interface {
		Create(ctx context.Context, record *model.MedicalRecord) error
		Get(ctx context.Context, id string) (*model.MedicalRecord, error)
		Update(ctx context.Context, record *model.MedicalRecord) error
		Delete(ctx context.Context, id string) error
		List(ctx context.Context, filters *model.MedicalRecordFilters) ([]*model.MedicalRecord, error)
	}
)
