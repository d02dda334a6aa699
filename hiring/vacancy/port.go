package vacancy

import (
	"context"

	"github.com/clarify-hr/clarify/pkg/kernel"
)

type Repository interface {
	// Create creates a new vacancy
	Create(ctx context.Context, vacancy *Vacancy) error

	// Update updates an existing vacancy
	Update(ctx context.Context, id kernel.VacancyID, vacancy *Vacancy) error

	// GetByID retrieves a vacancy by ID
	GetByID(ctx context.Context, id kernel.VacancyID) (*Vacancy, error)

	// Delete deletes a vacancy by ID
	Delete(ctx context.Context, id kernel.VacancyID) error

	// List retrieves all vacancies with pagination
	List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[Vacancy], error)

	// ListPublished retrieves only published vacancies
	ListPublished(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[Vacancy], error)

	// Search searches vacancies by various criteria
	Search(ctx context.Context, req SearchVacanciesRequest) (*kernel.Paginated[Vacancy], error)

	// Exists checks if a vacancy exists by ID
	Exists(ctx context.Context, id kernel.VacancyID) (bool, error)

	// CountApplications counts applications submitted to a vacancy
	CountApplications(ctx context.Context, id kernel.VacancyID) (int64, error)
}
