package application

import (
	"context"

	"github.com/clarify-hr/clarify/pkg/kernel"
)

type Repository interface {
	// Create creates a new application
	Create(ctx context.Context, app *Application) error

	// Update updates an existing application
	Update(ctx context.Context, id kernel.ApplicationID, app *Application) error

	// GetByID retrieves an application by ID
	GetByID(ctx context.Context, id kernel.ApplicationID) (*Application, error)

	// Delete deletes an application by ID
	Delete(ctx context.Context, id kernel.ApplicationID) error

	// List retrieves all applications with pagination
	List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[Application], error)

	// ListByVacancyID retrieves applications for a specific vacancy
	ListByVacancyID(ctx context.Context, vacancyID kernel.VacancyID, pagination kernel.PaginationOptions) (*kernel.Paginated[Application], error)

	// Exists checks if an application exists by ID
	Exists(ctx context.Context, id kernel.ApplicationID) (bool, error)

	// ExistsByVacancyAndEmail checks for a prior application by the same
	// applicant to the same vacancy
	ExistsByVacancyAndEmail(ctx context.Context, vacancyID kernel.VacancyID, email kernel.Email) (bool, error)

	// Archive archives an application
	Archive(ctx context.Context, id kernel.ApplicationID) error

	// Unarchive unarchives an application
	Unarchive(ctx context.Context, id kernel.ApplicationID) error
}
