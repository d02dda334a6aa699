package vacancy

import (
	"testing"

	"github.com/clarify-hr/clarify/pkg/errx"
	"github.com/clarify-hr/clarify/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draftVacancy() *Vacancy {
	return &Vacancy{
		ID:          "vac-1",
		Title:       "Backend Engineer",
		Description: "Build the hiring platform",
		Position:    "Senior",
		Status:      VacancyStatusDraft,
	}
}

func TestPublishLifecycle(t *testing.T) {
	v := draftVacancy()

	require.True(t, v.CanBePublished())
	require.NoError(t, v.Publish())

	assert.Equal(t, VacancyStatusPublished, v.Status)
	require.NotNil(t, v.PublishedAt)
	assert.True(t, v.AcceptsApplications())

	// Publishing twice is rejected.
	err := v.Publish()
	assert.Error(t, err)
}

func TestPublishFromClosed(t *testing.T) {
	v := draftVacancy()
	require.NoError(t, v.Publish())
	require.NoError(t, v.Close())

	assert.Equal(t, VacancyStatusClosed, v.Status)
	assert.False(t, v.AcceptsApplications())
	assert.Error(t, v.Publish())
}

func TestUnpublishReturnsToDraft(t *testing.T) {
	v := draftVacancy()
	require.NoError(t, v.Publish())

	require.NoError(t, v.Unpublish())

	assert.Equal(t, VacancyStatusDraft, v.Status)
	assert.False(t, v.AcceptsApplications())
}

func TestCloseRequiresPublished(t *testing.T) {
	v := draftVacancy()

	err := v.Close()
	var e *errx.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, CodeVacancyNotPublished, e.Code)
	assert.Equal(t, VacancyStatusDraft, v.Status)
}

func TestUnpublishRequiresPublished(t *testing.T) {
	v := draftVacancy()
	require.NoError(t, v.Publish())
	require.NoError(t, v.Close())

	err := v.Unpublish()
	var e *errx.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, CodeVacancyNotPublished, e.Code)
	assert.Equal(t, VacancyStatusClosed, v.Status)
}

func TestArchiveLifecycle(t *testing.T) {
	v := draftVacancy()

	require.NoError(t, v.Archive())
	assert.Equal(t, VacancyStatusArchived, v.Status)
	require.NotNil(t, v.ArchivedAt)
	assert.False(t, v.CanBeEdited())

	assert.Error(t, v.Archive())

	require.NoError(t, v.Unarchive())
	assert.Equal(t, VacancyStatusDraft, v.Status)
	assert.Nil(t, v.ArchivedAt)

	assert.Error(t, v.Unarchive())
}

func TestUpdateDetailsSkipsEmptyFields(t *testing.T) {
	v := draftVacancy()

	v.UpdateDetails("Platform Engineer", "", "")

	assert.Equal(t, "Platform Engineer", string(v.Title))
	assert.Equal(t, "Build the hiring platform", string(v.Description))
	assert.Equal(t, "Senior", string(v.Position))
}

func TestReplaceRequirements(t *testing.T) {
	v := draftVacancy()
	v.Requirements = []kernel.VacancyRequirement{"Go", "Postgres"}

	v.ReplaceRequirements([]kernel.VacancyRequirement{"Kubernetes"})

	require.Len(t, v.Requirements, 1)
	assert.Equal(t, "Kubernetes", string(v.Requirements[0]))
}
