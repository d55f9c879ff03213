package filestore

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/medrec/records-api/internal/model"
	"github.com/medrec/records-api/internal/repository"
	apperrors "github.com/medrec/records-api/pkg/errors"
)

type doctorRepository struct {
	store *Store
}

func NewDoctorRepository(store *Store) repository.DoctorRepository {
	return &doctorRepository{store: store}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	exists, err := r.store.Exists(ctx, model.CollectionDoctors, doctor.ID)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.NewAlreadyExists("doctor", doctor.ID)
	}
	return r.store.Save(ctx, model.CollectionDoctors, doctor.ID, doctor)
}

func (r *doctorRepository) Get(ctx context.Context, id string) (*model.Doctor, error) {
	var doctor model.Doctor
	found, err := r.store.Load(ctx, model.CollectionDoctors, id, &doctor)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NewNotFound("doctor", id)
	}
	return &doctor, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	exists, err := r.store.Exists(ctx, model.CollectionDoctors, doctor.ID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewNotFound("doctor", doctor.ID)
	}
	return r.store.Save(ctx, model.CollectionDoctors, doctor.ID, doctor)
}

func (r *doctorRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, model.CollectionDoctors, id)
}

func (r *doctorRepository) List(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, error) {
	docs, err := r.store.LoadAll(ctx, model.CollectionDoctors)
	if err != nil {
		return nil, err
	}

	doctors := make([]*model.Doctor, 0, len(docs))
	for _, doc := range docs {
		var doctor model.Doctor
		if err := json.Unmarshal(doc, &doctor); err != nil {
			r.store.logger.Warn(err, "skipping malformed doctor document")
			continue
		}
		if filters != nil {
			if filters.Specialization != "" && !strings.EqualFold(doctor.Specialization, filters.Specialization) {
				continue
			}
			if filters.SearchTerm != "" &&
				!strings.Contains(strings.ToLower(doctor.Name), strings.ToLower(filters.SearchTerm)) {
				continue
			}
		}
		doctors = append(doctors, &doctor)
	}
	return doctors, nil
}

func (r *doctorRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.store.Exists(ctx, model.CollectionDoctors, id)
}
