package patient

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

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
	"github.com/medrec/records-api/pkg/validator"
)

type fixture struct {
	svc          *Service
	patients     repository.PatientRepository
	appointments repository.AppointmentRepository
	records      repository.MedicalRecordRepository
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
		svc:          NewService(patients, appointments, records, idgen.New(), events, checker),
		patients:     patients,
		appointments: appointments,
		records:      records,
	}
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	patient, err := f.svc.Register(ctx, &model.RegisterPatientRequest{
		Name:          "John Doe",
		DateOfBirth:   "1990-01-15",
		ContactNumber: "555-1234",
		Address:       "123 Main St",
	})
	require.NoError(t, err)

	assert.Regexp(t, `^PAT-\d+-[a-z0-9]{6}$`, patient.ID)
	assert.Equal(t, "John Doe", patient.Name)
	assert.Equal(t, "1990-01-15", patient.DateOfBirth)
	assert.Equal(t, "555-1234", patient.ContactNumber)
	assert.Equal(t, "123 Main St", patient.Address)
	assert.False(t, patient.CreatedAt.IsZero())
	assert.False(t, patient.CreatedAt.After(time.Now().UTC()))

	stored, err := f.patients.Get(ctx, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, patient, stored)
}

func TestRegisterMissingFieldsAggregated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, &model.RegisterPatientRequest{
		DateOfBirth: "1990-01-15",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrValidation, apperrors.CodeOf(err))

	appErr := err.(*apperrors.AppError)
	assert.ElementsMatch(t, []string{"name", "contactNumber", "address"}, appErr.Details)

	// Nothing persisted on rejection.
	all, err := f.patients.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRegisterFormatChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	base := model.RegisterPatientRequest{
		Name:          "Jane Doe",
		DateOfBirth:   "1985-06-02",
		ContactNumber: "555-1234",
		Address:       "5 Elm St",
	}

	bad := base
	bad.DateOfBirth = "02/06/1985"
	_, err := f.svc.Register(ctx, &bad)
	assert.Equal(t, apperrors.ErrValidation, apperrors.CodeOf(err))

	bad = base
	bad.ContactNumber = "nope"
	_, err = f.svc.Register(ctx, &bad)
	assert.Equal(t, apperrors.ErrValidation, apperrors.CodeOf(err))

	bad = base
	bad.Email = "not-an-email"
	_, err = f.svc.Register(ctx, &bad)
	assert.Equal(t, apperrors.ErrValidation, apperrors.CodeOf(err))
}

func TestRegisterTruncatedMultibyteAddressRoundTrips(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	patient, err := f.svc.Register(ctx, &model.RegisterPatientRequest{
		Name:          "John Doe",
		DateOfBirth:   "1990-01-15",
		ContactNumber: "555-1234",
		Address:       strings.Repeat("€", validator.MaxFieldLength+10),
	})
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(patient.Address))
	assert.Equal(t, validator.MaxFieldLength, utf8.RuneCountInString(patient.Address))

	// What was persisted is byte-identical to what the caller got back.
	stored, err := f.svc.Get(ctx, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, patient.Address, stored.Address)
}

func TestUpdatePreservesIdentityFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	patient, err := f.svc.Register(ctx, &model.RegisterPatientRequest{
		Name:          "John Doe",
		DateOfBirth:   "1990-01-15",
		ContactNumber: "555-1234",
		Address:       "123 Main St",
	})
	require.NoError(t, err)

	newNumber := "555-9999"
	updated, err := f.svc.Update(ctx, patient.ID, &model.UpdatePatientRequest{
		ContactNumber: &newNumber,
	})
	require.NoError(t, err)

	assert.Equal(t, "555-9999", updated.ContactNumber)
	assert.Equal(t, patient.ID, updated.ID)
	assert.Equal(t, patient.Name, updated.Name)
	assert.Equal(t, patient.Address, updated.Address)
	assert.Equal(t, patient.CreatedAt, updated.CreatedAt)
}

func TestUpdateUnknownPatient(t *testing.T) {
	f := newFixture(t)

	name := "Nobody"
	_, err := f.svc.Update(context.Background(), "PAT-missing", &model.UpdatePatientRequest{Name: &name})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(err))
}

func TestDeleteRefusedWhileReferenced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	patient, err := f.svc.Register(ctx, &model.RegisterPatientRequest{
		Name:          "John Doe",
		DateOfBirth:   "1990-01-15",
		ContactNumber: "555-1234",
		Address:       "123 Main St",
	})
	require.NoError(t, err)

	require.NoError(t, f.appointments.Create(ctx, &model.Appointment{
		ID:        "APT-1",
		PatientID: patient.ID,
		DoctorID:  "DOC-1",
		Status:    model.AppointmentStatusScheduled,
	}))

	err = f.svc.Delete(ctx, patient.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrReferentialIntegrity, apperrors.CodeOf(err))

	// Still there.
	_, err = f.patients.Get(ctx, patient.ID)
	require.NoError(t, err)

	// Deletable once the appointment is gone.
	require.NoError(t, f.appointments.Delete(ctx, "APT-1"))
	require.NoError(t, f.svc.Delete(ctx, patient.ID))
}
