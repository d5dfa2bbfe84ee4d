package model

import (
	"time"

	"github.com/bunkmate/bunkmate-backend/internal/attendance"
)

// Subject represents a tracked course with attendance counters and a target percent.
type Subject struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	TotalClasses    int       `json:"total_classes"`
	AttendedClasses int       `json:"attended_classes"`
	RequiredPercent float64   `json:"required_percent"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SubjectWithStats attaches the derived projection to a subject for responses.
type SubjectWithStats struct {
	Subject
	Stats attendance.Projection `json:"stats"`
}

// CreateSubjectRequest is the payload for creating a subject.
// Counter fields are pointers so an explicit 0 survives required/omitempty binding.
type CreateSubjectRequest struct {
	Name            string   `json:"name" binding:"required,min=1,max=100"`
	TotalClasses    *int     `json:"total_classes" binding:"omitempty,min=0"`
	AttendedClasses *int     `json:"attended_classes" binding:"omitempty,min=0"`
	RequiredPercent *float64 `json:"required_percent" binding:"omitempty,gt=0,lte=100"`
}

// UpdateSubjectRequest is the payload for updating a subject.
// Updates are full replacements; every field must be sent.
type UpdateSubjectRequest struct {
	Name            string   `json:"name" binding:"required,min=1,max=100"`
	TotalClasses    *int     `json:"total_classes" binding:"required,min=0"`
	AttendedClasses *int     `json:"attended_classes" binding:"required,min=0"`
	RequiredPercent *float64 `json:"required_percent" binding:"required,gt=0,lte=100"`
}
