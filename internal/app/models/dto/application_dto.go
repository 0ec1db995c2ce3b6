package dto

import (
	"mime/multipart"
	"time"

	"github.com/yigit/internhub/internal/app/models"
)

// ApplicationResponse is an application with its people resolved
type ApplicationResponse struct {
	ID         int64                    `json:"id" example:"1"`
	Status     models.ApplicationStatus `json:"status" example:"documents_pending"`
	Student    *UserSummary             `json:"student,omitempty"`
	Supervisor *UserSummary             `json:"supervisor,omitempty"`
	Documents  map[string]FileResponse  `json:"documents"`
	Version    int64                    `json:"version" example:"2"`
	CreatedAt  time.Time                `json:"createdAt"`
	UpdatedAt  time.Time                `json:"updatedAt"`
}

// NewApplicationResponse converts an application; student and supervisor may be nil
func NewApplicationResponse(app *models.Application, student, supervisor *models.User, url URLFunc) ApplicationResponse {
	docs := make(map[string]FileResponse, len(app.Documents))
	for kind, ref := range app.Documents {
		if f := NewFileResponse(ref, url); f != nil {
			docs[string(kind)] = *f
		}
	}
	return ApplicationResponse{
		ID:         app.ID,
		Status:     app.Status,
		Student:    NewUserSummary(student),
		Supervisor: NewUserSummary(supervisor),
		Documents:  docs,
		Version:    app.Version,
		CreatedAt:  app.CreatedAt,
		UpdatedAt:  app.UpdatedAt,
	}
}

// ApplicationListResponse is one page of applications
type ApplicationListResponse struct {
	Applications []ApplicationResponse `json:"applications"`
	Pagination   PaginationInfo        `json:"pagination"`
}

// AssignRequest names the supervisor for assign and reassign
type AssignRequest struct {
	SupervisorID int64 `json:"supervisorId" binding:"required,min=1" example:"3"`
}

// SubmitDocumentsRequest is the multipart form of submitDocuments
type SubmitDocumentsRequest struct {
	Transcript       *multipart.FileHeader `form:"transcript" swaggerignore:"true"`
	Recommendation   *multipart.FileHeader `form:"recommendation" swaggerignore:"true"`
	Portfolio        *multipart.FileHeader `form:"portfolio" swaggerignore:"true"`
	CV               *multipart.FileHeader `form:"cv" swaggerignore:"true"`
	MotivationLetter *multipart.FileHeader `form:"motivationLetter" swaggerignore:"true"`
}

// Files maps the uploaded parts to document kinds
func (r *SubmitDocumentsRequest) Files() map[models.DocumentKind]*multipart.FileHeader {
	out := make(map[models.DocumentKind]*multipart.FileHeader)
	for kind, fh := range map[models.DocumentKind]*multipart.FileHeader{
		models.DocumentTranscript:       r.Transcript,
		models.DocumentRecommendation:   r.Recommendation,
		models.DocumentPortfolio:        r.Portfolio,
		models.DocumentCV:               r.CV,
		models.DocumentMotivationLetter: r.MotivationLetter,
	} {
		if fh != nil {
			out[kind] = fh
		}
	}
	return out
}

// TransitionResponse is one history entry
type TransitionResponse struct {
	Event     string      `json:"event" example:"approve"`
	FromState string      `json:"fromState" example:"pending"`
	ToState   string      `json:"toState" example:"documents_pending"`
	ActorID   int64       `json:"actorId" example:"1"`
	ActorRole models.Role `json:"actorRole" example:"ADMIN"`
	CreatedAt time.Time   `json:"createdAt"`
}

// NewTransitionResponses converts a history
func NewTransitionResponses(list []*models.Transition) []TransitionResponse {
	out := make([]TransitionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, TransitionResponse{
			Event:     t.Event,
			FromState: t.FromState,
			ToState:   t.ToState,
			ActorID:   t.ActorID,
			ActorRole: t.ActorRole,
			CreatedAt: t.CreatedAt,
		})
	}
	return out
}
