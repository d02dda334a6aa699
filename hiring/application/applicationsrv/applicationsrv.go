package applicationsrv

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/clarify-hr/clarify/hiring/application"
	"github.com/clarify-hr/clarify/hiring/chat"
	"github.com/clarify-hr/clarify/hiring/vacancy"
	"github.com/clarify-hr/clarify/internal/ai/matcher"
	"github.com/clarify-hr/clarify/internal/pdf"
	"github.com/clarify-hr/clarify/pkg/errx"
	"github.com/clarify-hr/clarify/pkg/fsx"
	"github.com/clarify-hr/clarify/pkg/kernel"
	"github.com/clarify-hr/clarify/pkg/logx"
	"github.com/google/uuid"
)

const maxResumeFileSize = 10 * 1024 * 1024 // 10MB

// ResumeMatcher scores a resume against a vacancy.
type ResumeMatcher interface {
	Match(ctx context.Context, vacancyText, resumeText string, opts matcher.Options) (*matcher.Result, error)
}

// Embedder generates embedding vectors for resume text.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// ApplicationService provides business operations for applications
type ApplicationService struct {
	applicationRepo application.Repository
	vacancyRepo     vacancy.Repository
	fileSystem      fsx.FileSystem
	matcher         ResumeMatcher
	embedder        Embedder
	useRetrieval    bool
}

// NewApplicationService creates a new instance of the application service
func NewApplicationService(
	applicationRepo application.Repository,
	vacancyRepo vacancy.Repository,
	fileSystem fsx.FileSystem,
	resumeMatcher ResumeMatcher,
	embedder Embedder,
	useRetrieval bool,
) *ApplicationService {
	return &ApplicationService{
		applicationRepo: applicationRepo,
		vacancyRepo:     vacancyRepo,
		fileSystem:      fileSystem,
		matcher:         resumeMatcher,
		embedder:        embedder,
		useRetrieval:    useRetrieval,
	}
}

// SubmitApplication runs the full intake pipeline: validate the vacancy,
// extract resume text, score it against the requirements, embed it, store
// the file and persist the record. A failed matcher run does not reject
// the submission; the failure is stored on the match report instead.
func (s *ApplicationService) SubmitApplication(ctx context.Context, req application.SubmitApplicationRequest) (*application.SubmitApplicationResponse, error) {
	if req.FirstName == "" || req.LastName == "" || req.Email == "" {
		return nil, application.ErrInvalidRequest().WithDetail("reason", "first_name, last_name and email are required")
	}
	if len(req.FileData) == 0 {
		return nil, application.ErrInvalidRequest().WithDetail("reason", "resume file is required")
	}

	// Validate vacancy exists and accepts applications
	vacancyEntity, err := s.vacancyRepo.GetByID(ctx, req.VacancyID)
	if err != nil {
		return nil, err
	}

	if !vacancyEntity.AcceptsApplications() {
		return nil, application.ErrVacancyNotAccepting().
			WithDetail("vacancy_id", req.VacancyID.String()).
			WithDetail("status", vacancyEntity.Status)
	}

	// Business rule: one application per applicant per vacancy
	exists, err := s.applicationRepo.ExistsByVacancyAndEmail(ctx, req.VacancyID, req.Email)
	if err != nil {
		return nil, errx.Wrap(err, "failed to check duplicate application", errx.TypeInternal)
	}

	if exists {
		return nil, application.ErrApplicationAlreadyExists().
			WithDetail("vacancy_id", req.VacancyID.String()).
			WithDetail("email", string(req.Email))
	}

	if len(req.FileData) > maxResumeFileSize {
		return nil, application.ErrFileSizeTooLarge().
			WithDetail("file_size", len(req.FileData)).
			WithDetail("max_size", maxResumeFileSize)
	}

	if !pdf.IsPDF(req.FileData) {
		return nil, application.ErrInvalidFileType().
			WithDetail("content_type", req.ContentType).
			WithDetail("allowed_types", "pdf")
	}

	resumeText, err := pdf.ExtractText(req.FileData)
	if err != nil {
		return nil, application.ErrResumeUnreadable().WithCause(err)
	}

	report := s.scoreResume(ctx, vacancyEntity, resumeText)

	// Embedding is best effort: a missing vector only degrades search
	var embedding kernel.ResumeEmbedding
	if vec, err := s.embedder.GenerateEmbedding(ctx, resumeText); err != nil {
		logx.Warnf("failed to embed resume: %v", err)
	} else {
		embedding = vec
	}

	newApplication := &application.Application{
		ID:              kernel.NewApplicationID(uuid.NewString()),
		VacancyID:       req.VacancyID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		ResumeText:      kernel.ResumeText(resumeText),
		ResumeEmbedding: embedding,
		MatchReport:     report,
		Status:          application.ApplicationStatusSubmitted,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	fileName := req.FileName
	if fileName == "" {
		fileName = "resume.pdf"
	}
	storagePath := s.fileSystem.Join("resumes", newApplication.ID.String(), fileName)
	if err := s.fileSystem.WriteFile(ctx, storagePath, req.FileData); err != nil {
		return nil, errx.Wrap(err, "failed to upload resume", errx.TypeExternal).
			WithDetail("path", storagePath)
	}
	newApplication.ResumeBucketUrl = kernel.BucketURL(storagePath)

	if err := s.applicationRepo.Create(ctx, newApplication); err != nil {
		// Cleanup uploaded file on failure
		s.fileSystem.DeleteFile(context.Background(), storagePath)
		return nil, errx.Wrap(err, "failed to create application", errx.TypeInternal)
	}

	resp := &application.SubmitApplicationResponse{
		ApplicationID: newApplication.ID,
		Status:        newApplication.Status,
		FitScore:      report.FitScore,
		MatchError:    report.Error,
		SubmittedAt:   newApplication.CreatedAt,
	}
	return resp, nil
}

// scoreResume runs the matcher and folds any failure into the report.
func (s *ApplicationService) scoreResume(ctx context.Context, vacancyEntity *vacancy.Vacancy, resumeText string) *application.MatchReport {
	result, err := s.matcher.Match(ctx, VacancyMatchText(vacancyEntity), resumeText, matcher.Options{
		UseRetrieval: s.useRetrieval,
	})
	if err != nil {
		logx.Errorf("resume matching failed: %v", err)
		return &application.MatchReport{Error: fmt.Sprintf("matching failed: %v", err)}
	}

	if result.Err != "" {
		logx.Warnf("resume matching contract violation: %s", result.Err)
		return &application.MatchReport{Error: result.Err, Raw: result.Raw}
	}

	return &application.MatchReport{
		Requirements: result.Requirements,
		FitScore:     result.FitScore,
	}
}

// VacancyMatchText flattens a vacancy into the text the matcher scores
// against: title, position, description and the requirement list.
func VacancyMatchText(v *vacancy.Vacancy) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", v.Title)
	if v.Position != "" {
		fmt.Fprintf(&b, "Position: %s\n", v.Position)
	}
	fmt.Fprintf(&b, "Description: %s\n", v.Description)
	if len(v.Requirements) > 0 {
		b.WriteString("Requirements:\n")
		for _, req := range v.Requirements {
			fmt.Fprintf(&b, "- %s\n", req)
		}
	}
	return b.String()
}

// GetApplicationByID retrieves an application by ID
func (s *ApplicationService) GetApplicationByID(ctx context.Context, applicationID kernel.ApplicationID) (*application.ApplicationResponse, error) {
	app, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	resp := application.ToResponse(app)
	return &resp, nil
}

// ListApplications retrieves all applications with pagination
func (s *ApplicationService) ListApplications(ctx context.Context, pagination kernel.PaginationOptions) (*application.PaginatedApplicationsResponse, error) {
	applications, err := s.applicationRepo.List(ctx, pagination)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list applications", errx.TypeInternal)
	}

	return toPaginatedResponse(applications), nil
}

// ListApplicationsByVacancy retrieves applications for a specific vacancy
func (s *ApplicationService) ListApplicationsByVacancy(ctx context.Context, vacancyID kernel.VacancyID, pagination kernel.PaginationOptions) (*application.PaginatedApplicationsResponse, error) {
	exists, err := s.vacancyRepo.Exists(ctx, vacancyID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to validate vacancy existence", errx.TypeInternal)
	}
	if !exists {
		return nil, vacancy.ErrVacancyNotFound().WithDetail("vacancy_id", vacancyID.String())
	}

	applications, err := s.applicationRepo.ListByVacancyID(ctx, vacancyID, pagination)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list applications by vacancy", errx.TypeInternal)
	}

	return toPaginatedResponse(applications), nil
}

// DownloadResume streams the stored resume file for an application
func (s *ApplicationService) DownloadResume(ctx context.Context, applicationID kernel.ApplicationID) (io.ReadCloser, string, error) {
	app, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, "", err
	}

	if app.ResumeBucketUrl == "" {
		return nil, "", application.ErrResumeNotFound().WithDetail("application_id", applicationID.String())
	}

	stream, err := s.fileSystem.ReadFileStream(ctx, string(app.ResumeBucketUrl))
	if err != nil {
		return nil, "", errx.Wrap(err, "failed to download resume", errx.TypeExternal).
			WithDetail("bucket_url", app.ResumeBucketUrl)
	}

	return stream, extractFilename(string(app.ResumeBucketUrl)), nil
}

// UpdateApplicationStatus updates the status of an application
func (s *ApplicationService) UpdateApplicationStatus(ctx context.Context, applicationID kernel.ApplicationID, newStatus application.ApplicationStatus) error {
	app, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}

	if err := app.UpdateStatus(newStatus); err != nil {
		return err
	}

	if err := s.applicationRepo.Update(ctx, applicationID, app); err != nil {
		return errx.Wrap(err, "failed to update application status", errx.TypeInternal)
	}

	return nil
}

// ArchiveApplication archives an application
func (s *ApplicationService) ArchiveApplication(ctx context.Context, applicationID kernel.ApplicationID) error {
	if err := s.applicationRepo.Archive(ctx, applicationID); err != nil {
		return err
	}

	return nil
}

// UnarchiveApplication unarchives an application
func (s *ApplicationService) UnarchiveApplication(ctx context.Context, applicationID kernel.ApplicationID) error {
	if err := s.applicationRepo.Unarchive(ctx, applicationID); err != nil {
		return err
	}

	return nil
}

// DeleteApplication deletes an application and its stored resume
func (s *ApplicationService) DeleteApplication(ctx context.Context, applicationID kernel.ApplicationID) error {
	app, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return err
	}

	if app.ResumeBucketUrl != "" {
		if err := s.fileSystem.DeleteFile(ctx, string(app.ResumeBucketUrl)); err != nil {
			logx.Warnf("failed to delete resume file %s: %v", app.ResumeBucketUrl, err)
		}
	}

	if err := s.applicationRepo.Delete(ctx, applicationID); err != nil {
		return errx.Wrap(err, "failed to delete application", errx.TypeInternal)
	}

	return nil
}

// ============================================================================
// Standalone Analysis
// ============================================================================

// ParseResume extracts text from an uploaded resume without creating an
// application.
func (s *ApplicationService) ParseResume(ctx context.Context, fileData []byte) (string, error) {
	if len(fileData) > maxResumeFileSize {
		return "", application.ErrFileSizeTooLarge().
			WithDetail("file_size", len(fileData)).
			WithDetail("max_size", maxResumeFileSize)
	}
	if !pdf.IsPDF(fileData) {
		return "", application.ErrInvalidFileType().WithDetail("allowed_types", "pdf")
	}

	text, err := pdf.ExtractText(fileData)
	if err != nil {
		return "", application.ErrResumeUnreadable().WithCause(err)
	}

	return text, nil
}

// MatchResume scores an uploaded resume against a vacancy without
// creating an application.
func (s *ApplicationService) MatchResume(ctx context.Context, vacancyID kernel.VacancyID, fileData []byte) (*application.MatchReport, error) {
	vacancyEntity, err := s.vacancyRepo.GetByID(ctx, vacancyID)
	if err != nil {
		return nil, err
	}

	resumeText, err := s.ParseResume(ctx, fileData)
	if err != nil {
		return nil, err
	}

	return s.scoreResume(ctx, vacancyEntity, resumeText), nil
}

// ============================================================================
// Helper Methods
// ============================================================================

func toPaginatedResponse(applications *kernel.Paginated[application.Application]) *application.PaginatedApplicationsResponse {
	responses := make([]application.ApplicationResponse, 0, len(applications.Items))
	for _, app := range applications.Items {
		responses = append(responses, application.ToResponse(&app))
	}

	return &kernel.Paginated[application.ApplicationResponse]{
		Items: responses,
		Page:  applications.Page,
		Empty: applications.Empty,
	}
}

// extractFilename extracts filename from bucket URL path
func extractFilename(path string) string {
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// ============================================================================
// Chat Gateway
// ============================================================================

var _ chat.ApplicationGateway = (*ApplicationService)(nil)

// ChatContext loads the slice of an application a chat session needs.
func (s *ApplicationService) ChatContext(ctx context.Context, id kernel.ApplicationID) (*chat.ApplicationContext, error) {
	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &chat.ApplicationContext{
		ApplicationID: app.ID,
		FirstName:     app.FirstName,
		LastName:      app.LastName,
		FitScore:      app.FitScore(),
		Requirements:  app.Requirements(),
	}, nil
}

// MergeClarifications overwrites the application's clarification list.
func (s *ApplicationService) MergeClarifications(ctx context.Context, id kernel.ApplicationID, records []chat.ClarificationRecord) error {
	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := app.SetClarifications(records); err != nil {
		return err
	}

	if err := s.applicationRepo.Update(ctx, id, app); err != nil {
		return errx.Wrap(err, "failed to merge clarifications", errx.TypeInternal)
	}

	return nil
}
