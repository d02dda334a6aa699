package application

import (
	"slices"
	"time"

	"github.com/clarify-hr/clarify/hiring/chat"
	"github.com/clarify-hr/clarify/pkg/kernel"
)

// ApplicationStatus represents the status of an application
type ApplicationStatus string

const (
	ApplicationStatusSubmitted   ApplicationStatus = "SUBMITTED"    // Initial submission
	ApplicationStatusUnderReview ApplicationStatus = "UNDER_REVIEW" // Being reviewed
	ApplicationStatusShortlisted ApplicationStatus = "SHORTLISTED"  // Passed initial review
	ApplicationStatusRejected    ApplicationStatus = "REJECTED"     // Rejected
	ApplicationStatusArchived    ApplicationStatus = "ARCHIVED"     // Archived
)

// MatchReport is the scored comparison between the applicant's resume and
// the vacancy requirements. Clarifications collected during a chat session
// are merged in afterwards; a merge replaces the whole list.
type MatchReport struct {
	Requirements   []chat.Requirement         `json:"requirements,omitempty"`
	FitScore       *int                       `json:"FIT_SCORE,omitempty"`
	Clarifications []chat.ClarificationRecord `json:"clarifications,omitempty"`
	Error          string                     `json:"error,omitempty"`
	Raw            string                     `json:"raw,omitempty"`
}

// Scored reports whether the matcher produced a usable report.
func (m *MatchReport) Scored() bool {
	return m != nil && m.Error == "" && m.FitScore != nil
}

type Application struct {
	ID              kernel.ApplicationID   `db:"id" json:"id"`
	VacancyID       kernel.VacancyID       `db:"vacancy_id" json:"vacancy_id"`
	FirstName       string                 `db:"first_name" json:"first_name"`
	LastName        string                 `db:"last_name" json:"last_name"`
	Email           kernel.Email           `db:"email" json:"email"`
	ResumeText      kernel.ResumeText      `db:"resume_text" json:"resume_text"`
	ResumeEmbedding kernel.ResumeEmbedding `db:"resume_embedding" json:"resume_embedding"`
	ResumeBucketUrl kernel.BucketURL       `db:"resume_bucket_url" json:"resume_bucket_url"`
	MatchReport     *MatchReport           `db:"match_report" json:"match_report,omitempty"`
	Status          ApplicationStatus      `db:"status" json:"status"`
	StatusChangedAt *time.Time             `db:"status_changed_at" json:"status_changed_at,omitempty"`
	ArchivedAt      *time.Time             `db:"archived_at" json:"archived_at,omitempty"`
	CreatedAt       time.Time              `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time              `db:"updated_at" json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// IsArchived checks if the application is archived
func (a *Application) IsArchived() bool {
	return a.Status == ApplicationStatusArchived
}

// IsActive checks if the application is in an active state
func (a *Application) IsActive() bool {
	return !a.IsArchived() && a.Status != ApplicationStatusRejected
}

// FitScore returns the overall match score, if the matcher produced one
func (a *Application) FitScore() *int {
	if a.MatchReport == nil {
		return nil
	}
	return a.MatchReport.FitScore
}

// Requirements returns the scored requirement list, empty when unscored
func (a *Application) Requirements() []chat.Requirement {
	if a.MatchReport == nil {
		return nil
	}
	return a.MatchReport.Requirements
}

// ApplicantName returns the applicant's full name
func (a *Application) ApplicantName() string {
	if a.FirstName == "" {
		return a.LastName
	}
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// CanUpdateStatus checks if status can be changed
func (a *Application) CanUpdateStatus(newStatus ApplicationStatus) bool {
	if a.IsArchived() {
		return false
	}

	// Define valid state transitions
	validTransitions := map[ApplicationStatus][]ApplicationStatus{
		ApplicationStatusSubmitted: {
			ApplicationStatusUnderReview,
			ApplicationStatusRejected,
		},
		ApplicationStatusUnderReview: {
			ApplicationStatusShortlisted,
			ApplicationStatusRejected,
		},
		ApplicationStatusShortlisted: {
			ApplicationStatusRejected,
		},
	}

	allowedStatuses, ok := validTransitions[a.Status]
	if !ok {
		return false // Current status doesn't allow transitions
	}

	return slices.Contains(allowedStatuses, newStatus)
}

// UpdateStatus updates the application status
func (a *Application) UpdateStatus(newStatus ApplicationStatus) error {
	if a.IsArchived() {
		return ErrApplicationArchived().WithDetail("application_id", a.ID)
	}

	if !a.CanUpdateStatus(newStatus) {
		return ErrInvalidStatusTransition().
			WithDetail("current_status", a.Status).
			WithDetail("new_status", newStatus)
	}

	now := time.Now()
	a.Status = newStatus
	a.StatusChangedAt = &now
	a.UpdatedAt = now
	return nil
}

// Archive marks the application as archived
func (a *Application) Archive() error {
	if a.IsArchived() {
		return ErrApplicationAlreadyArchived()
	}

	now := time.Now()
	a.Status = ApplicationStatusArchived
	a.ArchivedAt = &now
	a.UpdatedAt = now
	return nil
}

// Unarchive removes archived status
func (a *Application) Unarchive() error {
	if !a.IsArchived() {
		return ErrApplicationNotArchived()
	}

	a.Status = ApplicationStatusSubmitted
	a.ArchivedAt = nil
	a.UpdatedAt = time.Now()
	return nil
}

// SetClarifications replaces the clarification list on the match report.
// Re-running a finished chat session produces the same end state. An
// application that was never scored has no report to merge into.
func (a *Application) SetClarifications(records []chat.ClarificationRecord) error {
	if a.MatchReport == nil {
		return ErrNotScored().WithDetail("application_id", a.ID)
	}
	a.MatchReport.Clarifications = records
	a.UpdatedAt = time.Now()
	return nil
}
