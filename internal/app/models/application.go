package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// ApplicationStatus is the position of a candidacy in the workflow
type ApplicationStatus string

const (
	ApplicationPending            ApplicationStatus = "pending"
	ApplicationDocumentsPending   ApplicationStatus = "documents_pending"
	ApplicationReadyForAssignment ApplicationStatus = "ready_for_assignment"
	ApplicationApproved           ApplicationStatus = "approved"
	ApplicationRejected           ApplicationStatus = "rejected"
)

// Valid reports whether s is a known application status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationDocumentsPending, ApplicationReadyForAssignment,
		ApplicationApproved, ApplicationRejected:
		return true
	}
	return false
}

// IsAssigned reports whether the status belongs to the assigned set,
// the only states in which a supervisor is attached.
func (s ApplicationStatus) IsAssigned() bool {
	return s == ApplicationApproved
}

// DocumentKind names one of the files attached to an application
type DocumentKind string

const (
	DocumentCV               DocumentKind = "cv"
	DocumentMotivationLetter DocumentKind = "motivationLetter"
	DocumentTranscript       DocumentKind = "transcript"
	DocumentRecommendation   DocumentKind = "recommendation"
	DocumentPortfolio        DocumentKind = "portfolio"
)

// Valid reports whether k is a known document kind.
func (k DocumentKind) Valid() bool {
	switch k {
	case DocumentCV, DocumentMotivationLetter, DocumentTranscript, DocumentRecommendation, DocumentPortfolio:
		return true
	}
	return false
}

// Documents maps a document kind to its stored file
type Documents map[DocumentKind]FileRef

// Has reports whether a non-empty file is stored for kind.
func (d Documents) Has(kind DocumentKind) bool {
	ref, ok := d[kind]
	return ok && !ref.IsZero()
}

// Clone returns an independent copy.
func (d Documents) Clone() Documents {
	out := make(Documents, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Value stores the documents as a JSON object.
func (d Documents) Value() (driver.Value, error) {
	if d == nil {
		return "{}", nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan reads documents written by Value.
func (d *Documents) Scan(src interface{}) error {
	*d = Documents{}
	data, err := jsonBytes(src)
	if err != nil || len(data) == 0 {
		return err
	}
	return json.Unmarshal(data, d)
}

// GormDataType tells gorm which column type to create.
func (Documents) GormDataType() string {
	return "text"
}

// Application is a student's internship candidacy. Status and SupervisorID
// are only ever changed through the workflow engine.
type Application struct {
	ID           int64             `json:"id" db:"id" gorm:"primaryKey" example:"1"`
	StudentID    int64             `json:"studentId" db:"student_id" gorm:"uniqueIndex;not null" example:"12"`
	Status       ApplicationStatus `json:"status" db:"status" gorm:"type:varchar(32);index;not null" example:"pending"`
	SupervisorID *int64            `json:"supervisorId,omitempty" db:"supervisor_id" gorm:"index" example:"3"`
	Documents    Documents         `json:"documents" db:"documents"`
	Version      int64             `json:"version" db:"version" gorm:"not null;default:1" example:"1"`
	CreatedAt    time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time         `json:"updatedAt" db:"updated_at"`
}

// HasSupervisor reports whether a supervisor is attached.
func (a *Application) HasSupervisor() bool {
	return a.SupervisorID != nil
}

// AssignedTo reports whether the application is assigned to supervisorID.
func (a *Application) AssignedTo(supervisorID int64) bool {
	return a.Status.IsAssigned() && a.SupervisorID != nil && *a.SupervisorID == supervisorID
}
