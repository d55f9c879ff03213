package model

import (
	"time"
)

type MedicalRecord struct {
	ID        string    `json:"id"`
	PatientID string    `json:"patientId"`
	DoctorID  string    `json:"doctorId"`
	Diagnosis string    `json:"diagnosis"`
	Treatment string    `json:"treatment"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateMedicalRecordRequest struct {
	PatientID string `json:"patientId" binding:"required"`
	DoctorID  string `json:"doctorId" binding:"required"`
	Diagnosis string `json:"diagnosis" binding:"required"`
	Treatment string `json:"treatment" binding:"required"`
	Notes     string `json:"notes" binding:"max=1000"`
}

type UpdateMedicalRecordRequest struct {
	PatientID *string `json:"patientId"`
	DoctorID  *string `json:"doctorId"`
	Diagnosis *string `json:"diagnosis"`
	Treatment *string `json:"treatment"`
	Notes     *string `json:"notes"`
}

type MedicalRecordFilters struct {
	PatientID string `form:"patient_id"`
	DoctorID  string `form:"doctor_id"`
}
