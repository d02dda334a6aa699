package vacancyinfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/clarify-hr/clarify/hiring/vacancy"
	"github.com/clarify-hr/clarify/pkg/kernel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresVacancyRepository implements vacancy.Repository using PostgreSQL
type PostgresVacancyRepository struct {
	db *sqlx.DB
}

// NewPostgresVacancyRepository creates a new PostgreSQL vacancy repository
func NewPostgresVacancyRepository(db *sqlx.DB) *PostgresVacancyRepository {
	return &PostgresVacancyRepository{
		db: db,
	}
}

// ============================================================================
// Database Model
// ============================================================================

type vacancyModel struct {
	ID           string          `db:"id"`
	Title        string          `db:"title"`
	Description  string          `db:"description"`
	Position     string          `db:"position"`
	Requirements json.RawMessage `db:"requirements"`
	Status       string          `db:"status"`
	PublishedAt  *time.Time      `db:"published_at"`
	ArchivedAt   *time.Time      `db:"archived_at"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

// toEntity converts database model to domain entity
func (m *vacancyModel) toEntity() (*vacancy.Vacancy, error) {
	var requirements []kernel.VacancyRequirement
	if len(m.Requirements) > 0 {
		if err := json.Unmarshal(m.Requirements, &requirements); err != nil {
			return nil, fmt.Errorf("failed to unmarshal requirements: %w", err)
		}
	}

	return &vacancy.Vacancy{
		ID:           kernel.VacancyID(m.ID),
		Title:        kernel.VacancyTitle(m.Title),
		Description:  kernel.VacancyDescription(m.Description),
		Position:     kernel.VacancyPosition(m.Position),
		Requirements: requirements,
		Status:       vacancy.VacancyStatus(m.Status),
		PublishedAt:  m.PublishedAt,
		ArchivedAt:   m.ArchivedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}, nil
}

// fromEntity converts domain entity to database model
func fromEntity(v *vacancy.Vacancy) (*vacancyModel, error) {
	requirements, err := json.Marshal(v.Requirements)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal requirements: %w", err)
	}

	return &vacancyModel{
		ID:           string(v.ID),
		Title:        string(v.Title),
		Description:  string(v.Description),
		Position:     string(v.Position),
		Requirements: requirements,
		Status:       string(v.Status),
		PublishedAt:  v.PublishedAt,
		ArchivedAt:   v.ArchivedAt,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}, nil
}

// ============================================================================
// Repository Implementation
// ============================================================================

// Create creates a new vacancy
func (r *PostgresVacancyRepository) Create(ctx context.Context, entity *vacancy.Vacancy) error {
	model, err := fromEntity(entity)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO vacancies (
			id, title, description, position,
			requirements, status,
			published_at, archived_at, created_at, updated_at
		) VALUES (
			:id, :title, :description, :position,
			:requirements, :status,
			:published_at, :archived_at, :created_at, :updated_at
		)
	`

	_, err = r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return vacancy.ErrVacancyAlreadyExists()
			}
		}
		return fmt.Errorf("failed to create vacancy: %w", err)
	}

	return nil
}

// Update updates an existing vacancy
func (r *PostgresVacancyRepository) Update(ctx context.Context, id kernel.VacancyID, entity *vacancy.Vacancy) error {
	model, err := fromEntity(entity)
	if err != nil {
		return err
	}
	model.ID = string(id)

	query := `
		UPDATE vacancies SET
			title = :title,
			description = :description,
			position = :position,
			requirements = :requirements,
			status = :status,
			published_at = :published_at,
			archived_at = :archived_at,
			updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		return fmt.Errorf("failed to update vacancy: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return vacancy.ErrVacancyNotFound()
	}

	return nil
}

// GetByID retrieves a vacancy by ID
func (r *PostgresVacancyRepository) GetByID(ctx context.Context, id kernel.VacancyID) (*vacancy.Vacancy, error) {
	query := `
		SELECT
			id, title, description, position,
			requirements, status,
			published_at, archived_at, created_at, updated_at
		FROM vacancies
		WHERE id = $1
	`

	var model vacancyModel
	err := r.db.GetContext(ctx, &model, query, string(id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, vacancy.ErrVacancyNotFound()
		}
		return nil, fmt.Errorf("failed to get vacancy by id: %w", err)
	}

	return model.toEntity()
}

// Delete deletes a vacancy by ID
func (r *PostgresVacancyRepository) Delete(ctx context.Context, id kernel.VacancyID) error {
	query := `DELETE FROM vacancies WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, string(id))
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23503" { // foreign_key_violation
				return vacancy.ErrVacancyHasApplications()
			}
		}
		return fmt.Errorf("failed to delete vacancy: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return vacancy.ErrVacancyNotFound()
	}

	return nil
}

// List retrieves all vacancies with pagination
func (r *PostgresVacancyRepository) List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[vacancy.Vacancy], error) {
	return r.listWhere(ctx, pagination, "", "created_at DESC")
}

// ListPublished retrieves only published vacancies
func (r *PostgresVacancyRepository) ListPublished(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[vacancy.Vacancy], error) {
	return r.listWhere(ctx, pagination, "WHERE status = 'PUBLISHED'", "published_at DESC")
}

func (r *PostgresVacancyRepository) listWhere(ctx context.Context, pagination kernel.PaginationOptions, whereClause, orderBy string) (*kernel.Paginated[vacancy.Vacancy], error) {
	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM vacancies %s", whereClause)
	if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
		return nil, fmt.Errorf("failed to count vacancies: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT
			id, title, description, position,
			requirements, status,
			published_at, archived_at, created_at, updated_at
		FROM vacancies
		%s
		ORDER BY %s
		LIMIT $1 OFFSET $2
	`, whereClause, orderBy)

	var models []vacancyModel
	err := r.db.SelectContext(ctx, &models, query, pagination.PageSize, pagination.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list vacancies: %w", err)
	}

	entities := make([]vacancy.Vacancy, 0, len(models))
	for _, model := range models {
		entity, err := model.toEntity()
		if err != nil {
			return nil, err
		}
		entities = append(entities, *entity)
	}

	return kernel.NewPaginated(entities, pagination, total), nil
}

// Search searches vacancies by various criteria
func (r *PostgresVacancyRepository) Search(ctx context.Context, req vacancy.SearchVacanciesRequest) (*kernel.Paginated[vacancy.Vacancy], error) {
	whereConditions := []string{}
	args := []interface{}{}
	argCount := 1

	if req.Query != "" {
		whereConditions = append(whereConditions, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d OR position ILIKE $%d)", argCount, argCount, argCount))
		args = append(args, "%"+req.Query+"%")
		argCount++
	}

	if req.Title != "" {
		whereConditions = append(whereConditions, fmt.Sprintf("title ILIKE $%d", argCount))
		args = append(args, "%"+req.Title+"%")
		argCount++
	}

	if req.Position != "" {
		whereConditions = append(whereConditions, fmt.Sprintf("position ILIKE $%d", argCount))
		args = append(args, "%"+req.Position+"%")
		argCount++
	}

	whereClause := ""
	if len(whereConditions) > 0 {
		whereClause = "WHERE " + whereConditions[0]
		for i := 1; i < len(whereConditions); i++ {
			whereClause += " AND " + whereConditions[i]
		}
	}

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM vacancies %s", whereClause)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("failed to count search results: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT
			id, title, description, position,
			requirements, status,
			published_at, archived_at, created_at, updated_at
		FROM vacancies
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argCount, argCount+1)

	args = append(args, req.Pagination.PageSize, req.Pagination.Offset())

	var models []vacancyModel
	err := r.db.SelectContext(ctx, &models, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search vacancies: %w", err)
	}

	entities := make([]vacancy.Vacancy, 0, len(models))
	for _, model := range models {
		entity, err := model.toEntity()
		if err != nil {
			return nil, err
		}
		entities = append(entities, *entity)
	}

	return kernel.NewPaginated(entities, req.Pagination, total), nil
}

// Exists checks if a vacancy exists by ID
func (r *PostgresVacancyRepository) Exists(ctx context.Context, id kernel.VacancyID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM vacancies WHERE id = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, string(id))
	if err != nil {
		return false, fmt.Errorf("failed to check vacancy existence: %w", err)
	}

	return exists, nil
}

// CountApplications counts applications for a specific vacancy
func (r *PostgresVacancyRepository) CountApplications(ctx context.Context, id kernel.VacancyID) (int64, error) {
	query := `SELECT COUNT(*) FROM applications WHERE vacancy_id = $1`

	var count int64
	err := r.db.GetContext(ctx, &count, query, string(id))
	if err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}

	return count, nil
}
