package model

import (
	"time"
)

type Patient struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	DateOfBirth   string    `json:"dateOfBirth"`
	ContactNumber string    `json:"contactNumber"`
	Address       string    `json:"address"`
	Email         string    `json:"email,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type RegisterPatientRequest struct {
	Name          string `json:"name" binding:"required"`
	DateOfBirth   string `json:"dateOfBirth" binding:"required"`
	ContactNumber string `json:"contactNumber" binding:"required"`
	Address       string `json:"address" binding:"required"`
	Email         string `json:"email" binding:"omitempty,email"`
}

type UpdatePatientRequest struct {
	Name          *string `json:"name"`
	DateOfBirth   *string `json:"dateOfBirth"`
	ContactNumber *string `json:"contactNumber"`
	Address       *string `json:"address"`
	Email         *string `json:"email" binding:"omitempty,email"`
}

type PatientFilters struct {
	SearchTerm string `form:"search"`
}
