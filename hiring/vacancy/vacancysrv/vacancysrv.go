package vacancysrv

import (
	"context"
	"time"

	"github.com/clarify-hr/clarify/hiring/vacancy"
	"github.com/clarify-hr/clarify/pkg/errx"
	"github.com/clarify-hr/clarify/pkg/kernel"
	"github.com/google/uuid"
)

// VacancyService provides business operations for vacancies
type VacancyService struct {
	vacancyRepo vacancy.Repository
}

// NewVacancyService creates a new instance of the vacancy service
func NewVacancyService(vacancyRepo vacancy.Repository) *VacancyService {
	return &VacancyService{
		vacancyRepo: vacancyRepo,
	}
}

// CreateVacancy creates a new vacancy posting in draft status
func (s *VacancyService) CreateVacancy(ctx context.Context, req vacancy.CreateVacancyRequest) (*vacancy.Vacancy, error) {
	if req.Title == "" || req.Description == "" {
		return nil, vacancy.ErrInvalidVacancyData().WithDetail("reason", "title and description are required")
	}

	now := time.Now()
	newVacancy := &vacancy.Vacancy{
		ID:           kernel.NewVacancyID(uuid.NewString()),
		Title:        req.Title,
		Description:  req.Description,
		Position:     req.Position,
		Requirements: req.Requirements,
		Status:       vacancy.VacancyStatusDraft, // Start as draft
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.vacancyRepo.Create(ctx, newVacancy); err != nil {
		return nil, errx.Wrap(err, "failed to create vacancy", errx.TypeInternal)
	}

	return newVacancy, nil
}

// GetVacancyByID retrieves a vacancy by ID
func (s *VacancyService) GetVacancyByID(ctx context.Context, id kernel.VacancyID) (*vacancy.VacancyResponse, error) {
	entity, err := s.vacancyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := vacancy.ToResponse(entity)
	return &resp, nil
}

// ListVacancies retrieves all vacancies with pagination
func (s *VacancyService) ListVacancies(ctx context.Context, pagination kernel.PaginationOptions) (*vacancy.PaginatedVacanciesResponse, error) {
	vacancies, err := s.vacancyRepo.List(ctx, normalize(pagination))
	if err != nil {
		return nil, errx.Wrap(err, "failed to list vacancies", errx.TypeInternal)
	}

	return toPaginatedResponse(vacancies), nil
}

// ListPublishedVacancies retrieves only published vacancies
func (s *VacancyService) ListPublishedVacancies(ctx context.Context, pagination kernel.PaginationOptions) (*vacancy.PaginatedVacanciesResponse, error) {
	vacancies, err := s.vacancyRepo.ListPublished(ctx, normalize(pagination))
	if err != nil {
		return nil, errx.Wrap(err, "failed to list published vacancies", errx.TypeInternal)
	}

	return toPaginatedResponse(vacancies), nil
}

// SearchVacancies searches vacancies by various criteria
func (s *VacancyService) SearchVacancies(ctx context.Context, req vacancy.SearchVacanciesRequest) (*vacancy.PaginatedVacanciesResponse, error) {
	req.Pagination = normalize(req.Pagination)
	vacancies, err := s.vacancyRepo.Search(ctx, req)
	if err != nil {
		return nil, errx.Wrap(err, "failed to search vacancies", errx.TypeInternal)
	}

	return toPaginatedResponse(vacancies), nil
}

// UpdateVacancy updates an existing vacancy
func (s *VacancyService) UpdateVacancy(ctx context.Context, id kernel.VacancyID, req vacancy.UpdateVacancyRequest) (*vacancy.Vacancy, error) {
	entity, err := s.vacancyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !entity.CanBeEdited() {
		return nil, vacancy.ErrVacancyArchived().WithDetail("vacancy_id", id.String())
	}

	updated := false

	if req.Title != nil && *req.Title != entity.Title {
		entity.Title = *req.Title
		updated = true
	}

	if req.Description != nil && *req.Description != entity.Description {
		entity.Description = *req.Description
		updated = true
	}

	if req.Position != nil && *req.Position != entity.Position {
		entity.Position = *req.Position
		updated = true
	}

	if req.Requirements != nil {
		entity.Requirements = *req.Requirements
		updated = true
	}

	if updated {
		entity.UpdatedAt = time.Now()

		if err := s.vacancyRepo.Update(ctx, id, entity); err != nil {
			return nil, errx.Wrap(err, "failed to update vacancy", errx.TypeInternal)
		}
	}

	return entity, nil
}

// PublishVacancy marks a vacancy as published so it accepts applications
func (s *VacancyService) PublishVacancy(ctx context.Context, id kernel.VacancyID) (*vacancy.Vacancy, error) {
	entity, err := s.vacancyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := entity.Publish(); err != nil {
		return nil, err
	}

	if err := s.vacancyRepo.Update(ctx, id, entity); err != nil {
		return nil, errx.Wrap(err, "failed to publish vacancy", errx.TypeInternal)
	}

	return entity, nil
}

// CloseVacancy stops a vacancy from accepting further applications
func (s *VacancyService) CloseVacancy(ctx context.Context, id kernel.VacancyID) (*vacancy.Vacancy, error) {
	entity, err := s.vacancyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := entity.Close(); err != nil {
		return nil, err
	}

	if err := s.vacancyRepo.Update(ctx, id, entity); err != nil {
		return nil, errx.Wrap(err, "failed to close vacancy", errx.TypeInternal)
	}

	return entity, nil
}

// UnpublishVacancy pulls a published vacancy back to draft
func (s *VacancyService) UnpublishVacancy(ctx context.Context, id kernel.VacancyID) (*vacancy.Vacancy, error) {
	entity, err := s.vacancyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := entity.Unpublish(); err != nil {
		return nil, err
	}

	if err := s.vacancyRepo.Update(ctx, id, entity); err != nil {
		return nil, errx.Wrap(err, "failed to unpublish vacancy", errx.TypeInternal)
	}

	return entity, nil
}

// ArchiveVacancy archives a vacancy
func (s *VacancyService) ArchiveVacancy(ctx context.Context, id kernel.VacancyID) error {
	entity, err := s.vacancyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := entity.Archive(); err != nil {
		return err
	}

	if err := s.vacancyRepo.Update(ctx, id, entity); err != nil {
		return errx.Wrap(err, "failed to archive vacancy", errx.TypeInternal)
	}

	return nil
}

// DeleteVacancy deletes a vacancy that has no applications
func (s *VacancyService) DeleteVacancy(ctx context.Context, id kernel.VacancyID) error {
	applicationCount, err := s.vacancyRepo.CountApplications(ctx, id)
	if err != nil {
		return errx.Wrap(err, "failed to count applications", errx.TypeInternal)
	}

	if applicationCount > 0 {
		return vacancy.ErrVacancyHasApplications().
			WithDetail("vacancy_id", id.String()).
			WithDetail("application_count", applicationCount)
	}

	if err := s.vacancyRepo.Delete(ctx, id); err != nil {
		return err
	}

	return nil
}

// GetVacancyStats retrieves statistics for a vacancy
func (s *VacancyService) GetVacancyStats(ctx context.Context, id kernel.VacancyID) (*vacancy.VacancyStatsResponse, error) {
	entity, err := s.vacancyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applicationCount, err := s.vacancyRepo.CountApplications(ctx, id)
	if err != nil {
		applicationCount = 0 // Default to 0 on error
	}

	stats := &vacancy.VacancyStatsResponse{
		VacancyID:         id,
		Title:             entity.Title,
		Status:            entity.Status,
		TotalApplications: applicationCount,
		IsPublished:       entity.IsPublished(),
		CreatedAt:         entity.CreatedAt,
	}

	if entity.PublishedAt != nil {
		days := int(time.Since(*entity.PublishedAt).Hours() / 24)
		stats.DaysSincePublished = &days
	}

	return stats, nil
}

// ============================================================================
// Helper Methods
// ============================================================================

func normalize(p kernel.PaginationOptions) kernel.PaginationOptions {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	return p
}

func toPaginatedResponse(vacancies *kernel.Paginated[vacancy.Vacancy]) *vacancy.PaginatedVacanciesResponse {
	responses := make([]vacancy.VacancyResponse, 0, len(vacancies.Items))
	for _, v := range vacancies.Items {
		responses = append(responses, vacancy.ToResponse(&v))
	}

	return &kernel.Paginated[vacancy.VacancyResponse]{
		Items: responses,
		Page:  vacancies.Page,
		Empty: vacancies.Empty,
	}
}
