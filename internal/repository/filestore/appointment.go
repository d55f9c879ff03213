package filestore

import (
	"context"
	"encoding/json"

	"github.com/medrec/records-api/internal/model"
	"github.com/medrec/records-api/internal/repository"
	apperrors "github.com/medrec/records-api/pkg/errors"
)

type appointmentRepository struct {
	store *Store
}

func NewAppointmentRepository(store *Store) repository.AppointmentRepository {
	return &appointmentRepository{store: store}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	exists, err := r.store.Exists(ctx, model.CollectionAppointments, appointment.ID)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.NewAlreadyExists("appointment", appointment.ID)
	}
	return r.store.Save(ctx, model.CollectionAppointments, appointment.ID, appointment)
}

func (r *appointmentRepository) Get(ctx context.Context, id string) (*model.Appointment, error) {
	var appointment model.Appointment
	found, err := r.store.Load(ctx, model.CollectionAppointments, id, &appointment)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NewNotFound("appointment", id)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	exists, err := r.store.Exists(ctx, model.CollectionAppointments, appointment.ID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewNotFound("appointment", appointment.ID)
	}
	return r.store.Save(ctx, model.CollectionAppointments, appointment.ID, appointment)
}

func (r *appointmentRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, model.CollectionAppointments, id)
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	docs, err := r.store.LoadAll(ctx, model.CollectionAppointments)
	if err != nil {
		return nil, err
	}

	appointments := make([]*model.Appointment, 0, len(docs))
	for _, doc := range docs {
		var appointment model.Appointment
		if err := json.Unmarshal(doc, &appointment); err != nil {
			r.store.logger.Warn(err, "skipping malformed appointment document")
			continue
		}
		if filters != nil {
			if filters.PatientID != "" && appointment.PatientID != filters.PatientID {
				continue
			}
			if filters.DoctorID != "" && appointment.DoctorID != filters.DoctorID {
				continue
			}
			if filters.Status != "" && appointment.Status != filters.Status {
				continue
			}
		}
		appointments = append(appointments, &appointment)
	}
	return appointments, nil
}
