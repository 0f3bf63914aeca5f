package models

import (
	"time"
)

// Role values match the backend's user_type field.
const (
	RoleRecruiter = "recruiter"
	RoleJobSeeker = "job_seeker"
)

// Application status values. Approved and rejected are terminal.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Job mirrors a posting returned by GET /jobs/. Server-assigned fields such
// as posted_by and created_at are not decoded; their shape varies by backend.
type Job struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

type Applicant struct {
	Username string `json:"username"`
}

type JobRef struct {
	Title string `json:"title"`
}

type Application struct {
	ID          uint      `json:"id"`
	Applicant   Applicant `json:"applicant"`
	Job         JobRef    `json:"job"`
	CoverLetter string    `json:"cover_letter"`
	Status      string    `json:"status"`
}

// CanDecide reports whether a recruiter may still approve or reject.
func (a Application) CanDecide() bool {
	return a.Status == StatusPending
}

// Account is the profile returned by GET /account/. Username is immutable.
type Account struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	UserType  string `json:"user_type"`
	Bio       string `json:"bio"`
	PDF       string `json:"pdf,omitempty"`
}

// SessionRecord persists the three per-browser session keys.
type SessionRecord struct {
	ID          string    `gorm:"primaryKey;size:64" json:"-"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
	AccessToken string    `gorm:"type:text" json:"accessToken"`
	UserRole    string    `gorm:"size:32" json:"userRole"`
	Username    string    `gorm:"size:150" json:"username"`
}
