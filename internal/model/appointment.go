package model

import (
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled         AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed         AppointmentStatus = "confirmed"
	AppointmentStatusCompleted         AppointmentStatus = "completed"
	AppointmentStatusCancelled         AppointmentStatus = "cancelled"
	AppointmentStatusPostponed         AppointmentStatus = "postponed"
	AppointmentStatusPostponeRequested AppointmentStatus = "postpone_requested"
)

// Valid reports whether s belongs to the enumerated status set.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled,
		AppointmentStatusConfirmed,
		AppointmentStatusCompleted,
		AppointmentStatusCancelled,
		AppointmentStatusPostponed,
		AppointmentStatusPostponeRequested:
		return true
	}
	return false
}

// Postponement is the pending reschedule proposal attached to an appointment
// while its status is postpone_requested.
type Postponement struct {
	NewDateTime time.Time `json:"newDateTime"`
	Reason      string    `json:"reason"`
	RequestedBy string    `json:"requestedBy"`
	RequestedAt time.Time `json:"requestedAt"`
}

type Appointment struct {
	ID           string            `json:"id"`
	PatientID    string            `json:"patientId"`
	DoctorID     string            `json:"doctorId"`
	DateTime     time.Time         `json:"dateTime"`
	Status       AppointmentStatus `json:"status"`
	Notes        string            `json:"notes,omitempty"`
	Postponement *Postponement     `json:"postponement,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
}

type ScheduleAppointmentRequest struct {
	PatientID string    `json:"patientId" binding:"required"`
	DoctorID  string    `json:"doctorId" binding:"required"`
	DateTime  time.Time `json:"dateTime" binding:"required"`
	Notes     string    `json:"notes" binding:"max=1000"`
}

type UpdateAppointmentRequest struct {
	PatientID *string    `json:"patientId"`
	DoctorID  *string    `json:"doctorId"`
	DateTime  *time.Time `json:"dateTime"`
	Notes     *string    `json:"notes"`
}

type UpdateAppointmentStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required"`
}

type RequestPostponementRequest struct {
	NewDateTime time.Time `json:"newDateTime" binding:"required"`
	Reason      string    `json:"reason" binding:"required,max=1000"`
}

type AppointmentFilters struct {
	PatientID string            `form:"patient_id"`
	DoctorID  string            `form:"doctor_id"`
	Status    AppointmentStatus `form:"status"`
}
