package filestore

import (
	"context"
	"encoding/json"

	"github.com/medrec/records-api/internal/model"
	"github.com/medrec/records-api/internal/repository"
	apperrors "github.com/medrec/records-api/pkg/errors"
)

type medicalRecordRepository struct {
	store *Store
}

func NewMedicalRecordRepository(store *Store) repository.MedicalRecordRepository {
	return &medicalRecordRepository{store: store}
}

func (r *medicalRecordRepository) Create(ctx context.Context, record *model.MedicalRecord) error {
	exists, err := r.store.Exists(ctx, model.CollectionMedicalRecords, record.ID)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.NewAlreadyExists("medical record", record.ID)
	}
	return r.store.Save(ctx, model.CollectionMedicalRecords, record.ID, record)
}

func (r *medicalRecordRepository) Get(ctx context.Context, id string) (*model.MedicalRecord, error) {
	var record model.MedicalRecord
	found, err := r.store.Load(ctx, model.CollectionMedicalRecords, id, &record)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NewNotFound("medical record", id)
	}
	return &record, nil
}

func (r *medicalRecordRepository) Update(ctx context.Context, record *model.MedicalRecord) error {
	exists, err := r.store.Exists(ctx, model.CollectionMedicalRecords, record.ID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewNotFound("medical record", record.ID)
	}
	return r.store.Save(ctx, model.CollectionMedicalRecords, record.ID, record)
}

func (r *medicalRecordRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, model.CollectionMedicalRecords, id)
}

func (r *medicalRecordRepository) List(ctx context.Context, filters *model.MedicalRecordFilters) ([]*model.MedicalRecord, error) {
	docs, err := r.store.LoadAll(ctx, model.CollectionMedicalRecords)
	if err != nil {
		return nil, err
	}

	records := make([]*model.MedicalRecord, 0, len(docs))
	for _, doc := range docs {
		var record model.MedicalRecord
		if err := json.Unmarshal(doc, &record); err != nil {
			r.store.logger.Warn(err, "skipping malformed medical record document")
			continue
		}
		if filters != nil {
			if filters.PatientID != "" && record.PatientID != filters.PatientID {
				continue
			}
			if filters.DoctorID != "" && record.DoctorID != filters.DoctorID {
				continue
			}
		}
		records = append(records, &record)
	}
	return records, nil
}
