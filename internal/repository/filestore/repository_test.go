package filestore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medrec/records-api/internal/model"
	apperrors "github.com/medrec/records-api/pkg/errors"
)

func TestPatientRepositoryCRUD(t *testing.T) {
	repo := NewPatientRepository(newTestStore(t))
	ctx := context.Background()

	patient := &model.Patient{
		ID:            "PAT-1700000000000-abc123",
		Name:          "John Doe",
		DateOfBirth:   "1990-01-15",
		ContactNumber: "555-1234",
		Address:       "123 Main St",
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.Create(ctx, patient))

	err := repo.Create(ctx, patient)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrAlreadyExists, apperrors.CodeOf(err))

	got, err := repo.Get(ctx, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, patient, got)

	patient.ContactNumber = "555-9999"
	require.NoError(t, repo.Update(ctx, patient))
	got, err = repo.Get(ctx, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, "555-9999", got.ContactNumber)

	require.NoError(t, repo.Delete(ctx, patient.ID))
	_, err = repo.Get(ctx, patient.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(err))
}

func TestUpdateMissingEntity(t *testing.T) {
	repo := NewDoctorRepository(newTestStore(t))

	err := repo.Update(context.Background(), &model.Doctor{ID: "DOC-missing"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(err))
}

func TestAppointmentListFilters(t *testing.T) {
	repo := NewAppointmentRepository(newTestStore(t))
	ctx := context.Background()

	appointments := []*model.Appointment{
		{ID: "APT-1", PatientID: "PAT-a", DoctorID: "DOC-x", Status: model.AppointmentStatusScheduled},
		{ID: "APT-2", PatientID: "PAT-a", DoctorID: "DOC-y", Status: model.AppointmentStatusConfirmed},
		{ID: "APT-3", PatientID: "PAT-b", DoctorID: "DOC-x", Status: model.AppointmentStatusScheduled},
	}
	for _, apt := range appointments {
		require.NoError(t, repo.Create(ctx, apt))
	}

	byPatient, err := repo.List(ctx, &model.AppointmentFilters{PatientID: "PAT-a"})
	require.NoError(t, err)
	require.Len(t, byPatient, 2)
	for _, apt := range byPatient {
		assert.Equal(t, "PAT-a", apt.PatientID)
	}

	byDoctor, err := repo.List(ctx, &model.AppointmentFilters{DoctorID: "DOC-x"})
	require.NoError(t, err)
	assert.Len(t, byDoctor, 2)

	byBoth, err := repo.List(ctx, &model.AppointmentFilters{PatientID: "PAT-a", DoctorID: "DOC-x"})
	require.NoError(t, err)
	require.Len(t, byBoth, 1)
	assert.Equal(t, "APT-1", byBoth[0].ID)

	byStatus, err := repo.List(ctx, &model.AppointmentFilters{Status: model.AppointmentStatusConfirmed})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "APT-2", byStatus[0].ID)

	all, err := repo.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMedicalRecordListByPatient(t *testing.T) {
	repo := NewMedicalRecordRepository(newTestStore(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.MedicalRecord{ID: "MED-1", PatientID: "PAT-a", DoctorID: "DOC-x", Diagnosis: "flu"}))
	require.NoError(t, repo.Create(ctx, &model.MedicalRecord{ID: "MED-2", PatientID: "PAT-b", DoctorID: "DOC-x", Diagnosis: "cold"}))

	records, err := repo.List(ctx, &model.MedicalRecordFilters{PatientID: "PAT-a"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "MED-1", records[0].ID)
}

func TestDoctorListFilters(t *testing.T) {
	repo := NewDoctorRepository(newTestStore(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Doctor{ID: "DOC-1", Name: "Dr. Alice Smith", Specialization: "Cardiology"}))
	require.NoError(t, repo.Create(ctx, &model.Doctor{ID: "DOC-2", Name: "Dr. Bob Jones", Specialization: "Neurology"}))

	bySpec, err := repo.List(ctx, &model.DoctorFilters{Specialization: "cardiology"})
	require.NoError(t, err)
	require.Len(t, bySpec, 1)
	assert.Equal(t, "DOC-1", bySpec[0].ID)

	byName, err := repo.List(ctx, &model.DoctorFilters{SearchTerm: "bob"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "DOC-2", byName[0].ID)
}
