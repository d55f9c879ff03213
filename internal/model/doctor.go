package model

import (
	"time"
)

type Doctor struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization"`
	ContactNumber  string    `json:"contactNumber"`
	Email          string    `json:"email,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

type RegisterDoctorRequest struct {
	Name           string `json:"name" binding:"required"`
	Specialization string `json:"specialization" binding:"required"`
	ContactNumber  string `json:"contactNumber" binding:"required"`
	Email          string `json:"email" binding:"omitempty,email"`
}

type UpdateDoctorRequest struct {
	Name           *string `json:"name"`
	Specialization *string `json:"specialization"`
	ContactNumber  *string `json:"contactNumber"`
	Email          *string `json:"email" binding:"omitempty,email"`
}

type DoctorFilters struct {
	Specialization string `form:"specialization"`
	SearchTerm     string `form:"search"`
}
