package applicationinfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/clarify-hr/clarify/hiring/application"
	"github.com/clarify-hr/clarify/pkg/kernel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// PostgresApplicationRepository implements application.Repository using PostgreSQL
type PostgresApplicationRepository struct {
	db *sqlx.DB
}

// NewPostgresApplicationRepository creates a new PostgreSQL application repository
func NewPostgresApplicationRepository(db *sqlx.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{
		db: db,
	}
}

// ============================================================================
// Database Models
// ============================================================================

type applicationModel struct {
	ID              string          `db:"id"`
	VacancyID       string          `db:"vacancy_id"`
	FirstName       string          `db:"first_name"`
	LastName        string          `db:"last_name"`
	Email           string          `db:"email"`
	ResumeText      string          `db:"resume_text"`
	ResumeEmbedding pgvector.Vector `db:"resume_embedding"`
	ResumeBucketUrl string          `db:"resume_bucket_url"`
	MatchReport     json.RawMessage `db:"match_report"`
	Status          string          `db:"status"`
	StatusChangedAt *time.Time      `db:"status_changed_at"`
	ArchivedAt      *time.Time      `db:"archived_at"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// toEntity converts database model to domain entity
func (m *applicationModel) toEntity() (*application.Application, error) {
	var report *application.MatchReport
	if len(m.MatchReport) > 0 && string(m.MatchReport) != "null" {
		report = &application.MatchReport{}
		if err := json.Unmarshal(m.MatchReport, report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal match report: %w", err)
		}
	}

	return &application.Application{
		ID:              kernel.ApplicationID(m.ID),
		VacancyID:       kernel.VacancyID(m.VacancyID),
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		Email:           kernel.Email(m.Email),
		ResumeText:      kernel.ResumeText(m.ResumeText),
		ResumeEmbedding: kernel.ResumeEmbedding(m.ResumeEmbedding.Slice()),
		ResumeBucketUrl: kernel.BucketURL(m.ResumeBucketUrl),
		MatchReport:     report,
		Status:          application.ApplicationStatus(m.Status),
		StatusChangedAt: m.StatusChangedAt,
		ArchivedAt:      m.ArchivedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}, nil
}

// fromEntity converts domain entity to database model
func fromEntity(app *application.Application) (*applicationModel, error) {
	report := json.RawMessage("null")
	if app.MatchReport != nil {
		data, err := json.Marshal(app.MatchReport)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal match report: %w", err)
		}
		report = data
	}

	return &applicationModel{
		ID:              string(app.ID),
		VacancyID:       string(app.VacancyID),
		FirstName:       app.FirstName,
		LastName:        app.LastName,
		Email:           string(app.Email),
		ResumeText:      string(app.ResumeText),
		ResumeEmbedding: pgvector.NewVector(app.ResumeEmbedding),
		ResumeBucketUrl: string(app.ResumeBucketUrl),
		MatchReport:     report,
		Status:          string(app.Status),
		StatusChangedAt: app.StatusChangedAt,
		ArchivedAt:      app.ArchivedAt,
		CreatedAt:       app.CreatedAt,
		UpdatedAt:       app.UpdatedAt,
	}, nil
}

// ============================================================================
// Repository Implementation
// ============================================================================

// Create creates a new application
func (r *PostgresApplicationRepository) Create(ctx context.Context, app *application.Application) error {
	model, err := fromEntity(app)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO applications (
			id, vacancy_id, first_name, last_name, email,
			resume_text, resume_embedding, resume_bucket_url, match_report,
			status, status_changed_at, archived_at, created_at, updated_at
		) VALUES (
			:id, :vacancy_id, :first_name, :last_name, :email,
			:resume_text, :resume_embedding, :resume_bucket_url, :match_report,
			:status, :status_changed_at, :archived_at, :created_at, :updated_at
		)
	`

	_, err = r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return application.ErrApplicationAlreadyExists()
			}
			if pqErr.Code == "23503" { // foreign_key_violation
				return fmt.Errorf("invalid vacancy reference: %w", err)
			}
		}
		return fmt.Errorf("failed to create application: %w", err)
	}

	return nil
}

// Update updates an existing application
func (r *PostgresApplicationRepository) Update(ctx context.Context, id kernel.ApplicationID, app *application.Application) error {
	model, err := fromEntity(app)
	if err != nil {
		return err
	}
	model.ID = string(id)

	query := `
		UPDATE applications SET
			resume_text = :resume_text,
			resume_embedding = :resume_embedding,
			resume_bucket_url = :resume_bucket_url,
			match_report = :match_report,
			status = :status,
			status_changed_at = :status_changed_at,
			archived_at = :archived_at,
			updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, model)
	if err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return application.ErrApplicationNotFound()
	}

	return nil
}

// GetByID retrieves an application by ID
func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id kernel.ApplicationID) (*application.Application, error) {
	query := `
		SELECT
			id, vacancy_id, first_name, last_name, email,
			resume_text, resume_embedding, resume_bucket_url, match_report,
			status, status_changed_at, archived_at, created_at, updated_at
		FROM applications
		WHERE id = $1
	`

	var model applicationModel
	err := r.db.GetContext(ctx, &model, query, string(id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, application.ErrApplicationNotFound()
		}
		return nil, fmt.Errorf("failed to get application by id: %w", err)
	}

	return model.toEntity()
}

// Delete deletes an application by ID
func (r *PostgresApplicationRepository) Delete(ctx context.Context, id kernel.ApplicationID) error {
	query := `DELETE FROM applications WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return application.ErrApplicationNotFound()
	}

	return nil
}

// List retrieves all applications with pagination
func (r *PostgresApplicationRepository) List(ctx context.Context, pagination kernel.PaginationOptions) (*kernel.Paginated[application.Application], error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM applications`
	if err := r.db.GetContext(ctx, &total, countQuery); err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}

	query := `
		SELECT
			id, vacancy_id, first_name, last_name, email,
			resume_text, resume_embedding, resume_bucket_url, match_report,
			status, status_changed_at, archived_at, created_at, updated_at
		FROM applications
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	var models []applicationModel
	err := r.db.SelectContext(ctx, &models, query, pagination.PageSize, pagination.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	entities := make([]application.Application, 0, len(models))
	for _, model := range models {
		entity, err := model.toEntity()
		if err != nil {
			return nil, err
		}
		entities = append(entities, *entity)
	}

	return kernel.NewPaginated(entities, pagination, total), nil
}

// ListByVacancyID retrieves applications for a specific vacancy
func (r *PostgresApplicationRepository) ListByVacancyID(ctx context.Context, vacancyID kernel.VacancyID, pagination kernel.PaginationOptions) (*kernel.Paginated[application.Application], error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM applications WHERE vacancy_id = $1`
	if err := r.db.GetContext(ctx, &total, countQuery, string(vacancyID)); err != nil {
		return nil, fmt.Errorf("failed to count vacancy applications: %w", err)
	}

	query := `
		SELECT
			id, vacancy_id, first_name, last_name, email,
			resume_text, resume_embedding, resume_bucket_url, match_report,
			status, status_changed_at, archived_at, created_at, updated_at
		FROM applications
		WHERE vacancy_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var models []applicationModel
	err := r.db.SelectContext(ctx, &models, query, string(vacancyID), pagination.PageSize, pagination.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list applications by vacancy: %w", err)
	}

	entities := make([]application.Application, 0, len(models))
	for _, model := range models {
		entity, err := model.toEntity()
		if err != nil {
			return nil, err
		}
		entities = append(entities, *entity)
	}

	return kernel.NewPaginated(entities, pagination, total), nil
}

// Exists checks if an application exists by ID
func (r *PostgresApplicationRepository) Exists(ctx context.Context, id kernel.ApplicationID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM applications WHERE id = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, string(id))
	if err != nil {
		return false, fmt.Errorf("failed to check application existence: %w", err)
	}

	return exists, nil
}

// ExistsByVacancyAndEmail checks for a prior application by the same applicant
func (r *PostgresApplicationRepository) ExistsByVacancyAndEmail(ctx context.Context, vacancyID kernel.VacancyID, email kernel.Email) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM applications WHERE vacancy_id = $1 AND email = $2)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, string(vacancyID), string(email))
	if err != nil {
		return false, fmt.Errorf("failed to check application existence: %w", err)
	}

	return exists, nil
}

// Archive archives an application
func (r *PostgresApplicationRepository) Archive(ctx context.Context, id kernel.ApplicationID) error {
	query := `
		UPDATE applications
		SET status = 'ARCHIVED',
		    archived_at = $1,
		    updated_at = $1
		WHERE id = $2
	`

	now := time.Now()
	result, err := r.db.ExecContext(ctx, query, now, string(id))
	if err != nil {
		return fmt.Errorf("failed to archive application: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return application.ErrApplicationNotFound()
	}

	return nil
}

// Unarchive unarchives an application
func (r *PostgresApplicationRepository) Unarchive(ctx context.Context, id kernel.ApplicationID) error {
	query := `
		UPDATE applications
		SET status = 'SUBMITTED',
		    archived_at = NULL,
		    updated_at = $1
		WHERE id = $2
	`

	now := time.Now()
	result, err := r.db.ExecContext(ctx, query, now, string(id))
	if err != nil {
		return fmt.Errorf("failed to unarchive application: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return application.ErrApplicationNotFound()
	}

	return nil
}
