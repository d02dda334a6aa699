package vacancy

import (
	"time"

	"github.com/clarify-hr/clarify/pkg/kernel"
)

// CreateVacancyRequest - DTO for creating a new vacancy
type CreateVacancyRequest struct {
	Title        kernel.VacancyTitle         `json:"title" validate:"required"`
	Description  kernel.VacancyDescription   `json:"description" validate:"required"`
	Position     kernel.VacancyPosition      `json:"position" validate:"required"`
	Requirements []kernel.VacancyRequirement `json:"requirements,omitempty"`
}

// UpdateVacancyRequest - DTO for updating an existing vacancy
type UpdateVacancyRequest struct {
	Title        *kernel.VacancyTitle         `json:"title,omitempty"`
	Description  *kernel.VacancyDescription   `json:"description,omitempty"`
	Position     *kernel.VacancyPosition      `json:"position,omitempty"`
	Requirements *[]kernel.VacancyRequirement `json:"requirements,omitempty"`
}

// ListVacanciesRequest - DTO for listing vacancies
type ListVacanciesRequest struct {
	Pagination kernel.PaginationOptions `json:"pagination"`
}

// SearchVacanciesRequest - DTO for searching vacancies
type SearchVacanciesRequest struct {
	Query      string                   `json:"query,omitempty"`
	Title      string                   `json:"title,omitempty"`
	Position   string                   `json:"position,omitempty"`
	Pagination kernel.PaginationOptions `json:"pagination"`
}

// Response type alias for paginated vacancies
type PaginatedVacanciesResponse = kernel.Paginated[VacancyResponse]

// VacancyResponse - DTO for returning vacancy data
type VacancyResponse struct {
	ID           kernel.VacancyID            `json:"id"`
	Title        kernel.VacancyTitle         `json:"title"`
	Description  kernel.VacancyDescription   `json:"description"`
	Position     kernel.VacancyPosition      `json:"position"`
	Requirements []kernel.VacancyRequirement `json:"requirements"`
	Status       VacancyStatus               `json:"status"`
	PublishedAt  *time.Time                  `json:"published_at,omitempty"`
	ArchivedAt   *time.Time                  `json:"archived_at,omitempty"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

// ToResponse converts a Vacancy entity to its response DTO
func ToResponse(v *Vacancy) VacancyResponse {
	return VacancyResponse{
		ID:           v.ID,
		Title:        v.Title,
		Description:  v.Description,
		Position:     v.Position,
		Requirements: v.Requirements,
		Status:       v.Status,
		PublishedAt:  v.PublishedAt,
		ArchivedAt:   v.ArchivedAt,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

// VacancyStatsResponse - Statistics for a vacancy
type VacancyStatsResponse struct {
	VacancyID          kernel.VacancyID    `json:"vacancy_id"`
	Title              kernel.VacancyTitle `json:"title"`
	Status             VacancyStatus       `json:"status"`
	TotalApplications  int64               `json:"total_applications"`
	IsPublished        bool                `json:"is_published"`
	DaysSincePublished *int                `json:"days_since_published,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
}
