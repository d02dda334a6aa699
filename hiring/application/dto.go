package application

import (
	"time"

	"github.com/clarify-hr/clarify/pkg/kernel"
)

// SubmitApplicationRequest - DTO for the public multipart submission form.
// The resume file itself travels alongside as FileData.
type SubmitApplicationRequest struct {
	VacancyID   kernel.VacancyID `json:"vacancy_id" validate:"required"`
	FirstName   string           `json:"first_name" validate:"required"`
	LastName    string           `json:"last_name" validate:"required"`
	Email       kernel.Email     `json:"email" validate:"required,email"`
	FileName    string           `json:"-"`
	ContentType string           `json:"-"`
	FileData    []byte           `json:"-"`
}

// UpdateStatusRequest - DTO for changing an application's status
type UpdateStatusRequest struct {
	Status ApplicationStatus `json:"status" validate:"required"`
}

// ListApplicationsRequest - DTO for listing applications
type ListApplicationsRequest struct {
	Pagination kernel.PaginationOptions `json:"pagination"`
}

// Response type alias for paginated applications
type PaginatedApplicationsResponse = kernel.Paginated[ApplicationResponse]

// ApplicationResponse - DTO for returning application data. The resume
// embedding stays internal.
type ApplicationResponse struct {
	ID              kernel.ApplicationID `json:"id"`
	VacancyID       kernel.VacancyID     `json:"vacancy_id"`
	FirstName       string               `json:"first_name"`
	LastName        string               `json:"last_name"`
	Email           kernel.Email         `json:"email"`
	ResumeBucketUrl kernel.BucketURL     `json:"resume_bucket_url"`
	MatchReport     *MatchReport         `json:"match_report,omitempty"`
	Status          ApplicationStatus    `json:"status"`
	StatusChangedAt *time.Time           `json:"status_changed_at,omitempty"`
	ArchivedAt      *time.Time           `json:"archived_at,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// ToResponse converts an Application entity to its response DTO
func ToResponse(a *Application) ApplicationResponse {
	return ApplicationResponse{
		ID:              a.ID,
		VacancyID:       a.VacancyID,
		FirstName:       a.FirstName,
		LastName:        a.LastName,
		Email:           a.Email,
		ResumeBucketUrl: a.ResumeBucketUrl,
		MatchReport:     a.MatchReport,
		Status:          a.Status,
		StatusChangedAt: a.StatusChangedAt,
		ArchivedAt:      a.ArchivedAt,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// SubmitApplicationResponse - DTO returned after a submission completes
type SubmitApplicationResponse struct {
	ApplicationID kernel.ApplicationID `json:"application_id"`
	Status        ApplicationStatus    `json:"status"`
	FitScore      *int                 `json:"fit_score,omitempty"`
	MatchError    string               `json:"match_error,omitempty"`
	SubmittedAt   time.Time            `json:"submitted_at"`
}
