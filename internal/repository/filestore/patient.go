package filestore

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/medrec/records-api/internal/model"
	"github.com/medrec/records-api/internal/repository"
	apperrors "github.com/medrec/records-api/pkg/errors"
)

type patientRepository struct {
	store *Store
}

func NewPatientRepository(store *Store) repository.PatientRepository {
	return &patientRepository{store: store}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	exists, err := r.store.Exists(ctx, model.CollectionPatients, patient.ID)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.NewAlreadyExists("patient", patient.ID)
	}
	return r.store.Save(ctx, model.CollectionPatients, patient.ID, patient)
}

func (r *patientRepository) Get(ctx context.Context, id string) (*model.Patient, error) {
	var patient model.Patient
	found, err := r.store.Load(ctx, model.CollectionPatients, id, &patient)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NewNotFound("patient", id)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	exists, err := r.store.Exists(ctx, model.CollectionPatients, patient.ID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewNotFound("patient", patient.ID)
	}
	return r.store.Save(ctx, model.CollectionPatients, patient.ID, patient)
}

func (r *patientRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, model.CollectionPatients, id)
}

func (r *patientRepository) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	docs, err := r.store.LoadAll(ctx, model.CollectionPatients)
	if err != nil {
		return nil, err
	}

	patients := make([]*model.Patient, 0, len(docs))
	for _, doc := range docs {
		var patient model.Patient
		if err := json.Unmarshal(doc, &patient); err != nil {
			r.store.logger.Warn(err, "skipping malformed patient document")
			continue
		}
		if filters != nil && filters.SearchTerm != "" &&
			!strings.Contains(strings.ToLower(patient.Name), strings.ToLower(filters.SearchTerm)) {
			continue
		}
		patients = append(patients, &patient)
	}
	return patients, nil
}

func (r *patientRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.store.Exists(ctx, model.CollectionPatients, id)
}
