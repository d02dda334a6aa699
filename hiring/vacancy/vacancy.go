package vacancy

import (
	"time"

	"github.com/clarify-hr/clarify/pkg/kernel"
)

// VacancyStatus represents the status of a vacancy posting
type VacancyStatus string

const (
	VacancyStatusDraft     VacancyStatus = "DRAFT"     // Created but not published
	VacancyStatusPublished VacancyStatus = "PUBLISHED" // Active and accepting applications
	VacancyStatusClosed    VacancyStatus = "CLOSED"    // No longer accepting applications
	VacancyStatusArchived  VacancyStatus = "ARCHIVED"  // Archived
)

type Vacancy struct {
	ID           kernel.VacancyID            `db:"id" json:"id"`
	Title        kernel.VacancyTitle         `db:"title" json:"title"`
	Description  kernel.VacancyDescription   `db:"description" json:"description"`
	Position     kernel.VacancyPosition      `db:"position" json:"position"`
	Requirements []kernel.VacancyRequirement `db:"requirements" json:"requirements"`
	Status       VacancyStatus               `db:"status" json:"status"`
	PublishedAt  *time.Time                  `db:"published_at" json:"published_at,omitempty"`
	ArchivedAt   *time.Time                  `db:"archived_at" json:"archived_at,omitempty"`
	CreatedAt    time.Time                   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time                   `db:"updated_at" json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// IsPublished checks if the vacancy is currently published
func (v *Vacancy) IsPublished() bool {
	return v.Status == VacancyStatusPublished
}

// IsArchived checks if the vacancy is archived
func (v *Vacancy) IsArchived() bool {
	return v.Status == VacancyStatusArchived
}

// IsDraft checks if the vacancy is in draft status
func (v *Vacancy) IsDraft() bool {
	return v.Status == VacancyStatusDraft
}

// IsClosed checks if the vacancy is closed
func (v *Vacancy) IsClosed() bool {
	return v.Status == VacancyStatusClosed
}

// AcceptsApplications checks if new applications may be submitted
func (v *Vacancy) AcceptsApplications() bool {
	return v.IsPublished()
}

// CanBePublished checks if a vacancy can be published
func (v *Vacancy) CanBePublished() bool {
	return v.Status == VacancyStatusDraft
}

// CanBeEdited checks if a vacancy can be edited
func (v *Vacancy) CanBeEdited() bool {
	return !v.IsArchived()
}

// Publish marks the vacancy as published
func (v *Vacancy) Publish() error {
	if !v.CanBePublished() {
		return ErrCannotPublish().WithDetail("current_status", v.Status)
	}

	now := time.Now()
	v.Status = VacancyStatusPublished
	v.PublishedAt = &now
	v.UpdatedAt = now
	return nil
}

// Unpublish returns a published vacancy to draft
func (v *Vacancy) Unpublish() error {
	if !v.IsPublished() {
		return ErrVacancyNotPublished().WithDetail("current_status", v.Status)
	}

	v.Status = VacancyStatusDraft
	v.UpdatedAt = time.Now()
	return nil
}

// Close stops a published vacancy from accepting applications
func (v *Vacancy) Close() error {
	if !v.IsPublished() {
		return ErrVacancyNotPublished().WithDetail("current_status", v.Status)
	}

	v.Status = VacancyStatusClosed
	v.UpdatedAt = time.Now()
	return nil
}

// Archive marks the vacancy as archived
func (v *Vacancy) Archive() error {
	if v.IsArchived() {
		return ErrVacancyAlreadyArchived()
	}

	now := time.Now()
	v.Status = VacancyStatusArchived
	v.ArchivedAt = &now
	v.UpdatedAt = now
	return nil
}

// Unarchive removes archived status
func (v *Vacancy) Unarchive() error {
	if !v.IsArchived() {
		return ErrVacancyNotArchived()
	}

	v.Status = VacancyStatusDraft
	v.ArchivedAt = nil
	v.UpdatedAt = time.Now()
	return nil
}

// UpdateDetails updates vacancy details
func (v *Vacancy) UpdateDetails(title kernel.VacancyTitle, description kernel.VacancyDescription, position kernel.VacancyPosition) {
	if title != "" {
		v.Title = title
	}
	if description != "" {
		v.Description = description
	}
	if position != "" {
		v.Position = position
	}
	v.UpdatedAt = time.Now()
}

// ReplaceRequirements swaps the requirement list
func (v *Vacancy) ReplaceRequirements(reqs []kernel.VacancyRequirement) {
	v.Requirements = reqs
	v.UpdatedAt = time.Now()
}
