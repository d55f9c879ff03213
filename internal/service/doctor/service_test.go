package doctor

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medrec/records-api/internal/model"
	"github.com/medrec/records-api/internal/repository"
	"github.com/medrec/records-api/internal/repository/filestore"
	"github.com/medrec/records-api/internal/service/integrity"
	apperrors "github.com/medrec/records-api/pkg/errors"
	"github.com/medrec/records-api/pkg/event"
	"github.com/medrec/records-api/pkg/idgen"
	"github.com/medrec/records-api/pkg/logger"
	"github.com/medrec/records-api/pkg/messaging"
)

type fixture struct {
	svc     *Service
	doctors repository.DoctorRepository
	records repository.MedicalRecordRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := filestore.New(afero.NewMemMapFs(), "data", logger.NewNop(), nil)
	require.NoError(t, store.Initialize())

	patients := filestore.NewPatientRepository(store)
	doctors := filestore.NewDoctorRepository(store)
	appointments := filestore.NewAppointmentRepository(store)
	records := filestore.NewMedicalRecordRepository(store)
	checker := integrity.NewChecker(patients, doctors)
	events := event.NewPublisher(messaging.NewNoopBroker(), "records.events", nil, nil)

	return &fixture{
		svc:     NewService(doctors, appointments, records, idgen.New(), events, checker),
		doctors: doctors,
		records: records,
	}
}

func TestRegister(t *testing.T) {
	f := newFixture(t)

	doctor, err := f.svc.Register(context.Background(), &model.RegisterDoctorRequest{
		Name:           "Dr. Alice Smith",
		Specialization: "Cardiology",
		ContactNumber:  "555-0000",
		Email:          "alice@clinic.example",
	})
	require.NoError(t, err)

	assert.Regexp(t, `^DOC-\d+-[a-z0-9]{6}$`, doctor.ID)
	assert.Equal(t, "Cardiology", doctor.Specialization)
	assert.False(t, doctor.CreatedAt.IsZero())
}

func TestRegisterMissingFieldsAggregated(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Register(context.Background(), &model.RegisterDoctorRequest{})
	require.Error(t, err)

	appErr := err.(*apperrors.AppError)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
	assert.ElementsMatch(t, []string{"name", "specialization", "contactNumber"}, appErr.Details)
}

func TestDeleteRefusedWhileReferenced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doctor, err := f.svc.Register(ctx, &model.RegisterDoctorRequest{
		Name:           "Dr. Alice Smith",
		Specialization: "Cardiology",
		ContactNumber:  "555-0000",
	})
	require.NoError(t, err)

	require.NoError(t, f.records.Create(ctx, &model.MedicalRecord{
		ID:        "MED-1",
		PatientID: "PAT-1",
		DoctorID:  doctor.ID,
		Diagnosis: "flu",
		Treatment: "rest",
	}))

	err = f.svc.Delete(ctx, doctor.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrReferentialIntegrity, apperrors.CodeOf(err))

	require.NoError(t, f.records.Delete(ctx, "MED-1"))
	require.NoError(t, f.svc.Delete(ctx, doctor.ID))
}
