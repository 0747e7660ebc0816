package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyforge/internal/app/model"
	"studyforge/internal/app/repository"
)

func newTestRepo(t *testing.T) *ProjectRepository {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewProjectRepository(db)
}

func createProject(t *testing.T, repo *ProjectRepository, id string) *model.Project {
	t.Helper()
	p := &model.Project{
		ID:        id,
		OwnerID:   "alice",
		SourceURL: "s3://uploads/" + id,
		FileName:  "lecture.mp3",
		FileSize:  1024,
		Kind:      model.KindAudio,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestCreate_DefaultsBothPhasesPending(t *testing.T) {
	repo := newTestRepo(t)
	createProject(t, repo, "p1")

	got, err := repo.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, model.ProjectUploaded, got.Status)
	assert.Equal(t, model.PhasePending, got.JobStatus.Transcription)
	assert.Equal(t, model.PhasePending, got.JobStatus.ContentGeneration)
	assert.Nil(t, got.Error)
}

func TestGetByID_UnknownID(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrProjectNotFound)
}

func TestUpdateJobStatus_MergeNotOverwrite(t *testing.T) {
	repo := newTestRepo(t)
	createProject(t, repo, "p1")
	ctx := context.Background()

	completed := model.PhaseCompleted
	require.NoError(t, repo.UpdateJobStatus(ctx, "p1", model.JobStatusPatch{Transcription: &completed}))

	// patching only contentGeneration must leave transcription untouched
	running := model.PhaseRunning
	require.NoError(t, repo.UpdateJobStatus(ctx, "p1", model.JobStatusPatch{ContentGeneration: &running}))

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, model.PhaseCompleted, got.JobStatus.Transcription)
	assert.Equal(t, model.PhaseRunning, got.JobStatus.ContentGeneration)
}

func TestUpdateJobStatus_PhaseOrderEnforced(t *testing.T) {
	repo := newTestRepo(t)
	createProject(t, repo, "p1")

	running := model.PhaseRunning
	err := repo.UpdateJobStatus(context.Background(), "p1",
		model.JobStatusPatch{ContentGeneration: &running})
	assert.ErrorIs(t, err, repository.ErrPhaseOrder)
}

func TestUpdateJobStatus_BothCompletedCompletesProject(t *testing.T) {
	repo := newTestRepo(t)
	createProject(t, repo, "p1")
	ctx := context.Background()

	completed := model.PhaseCompleted
	require.NoError(t, repo.UpdateJobStatus(ctx, "p1", model.JobStatusPatch{Transcription: &completed}))
	require.NoError(t, repo.UpdateJobStatus(ctx, "p1", model.JobStatusPatch{ContentGeneration: &completed}))

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, model.ProjectCompleted, got.Status)
}

func TestSaveContent_BatchWritesOnlyProducedSlots(t *testing.T) {
	repo := newTestRepo(t)
	createProject(t, repo, "p1")
	ctx := context.Background()

	summary := "the summary"
	titles := `["title one","title two"]`
	require.NoError(t, repo.SaveContent(ctx, "p1", &model.ContentPatch{
		Summary: &summary,
		Titles:  &titles,
	}))

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got.Content.Summary)
	require.NotNil(t, got.Content.Titles)
	assert.Equal(t, summary, *got.Content.Summary)
	assert.Nil(t, got.Content.Quiz)

	// a later partial re-run must not clear previously saved slots
	quiz := `{"questions":[]}`
	require.NoError(t, repo.SaveContent(ctx, "p1", &model.ContentPatch{Quiz: &quiz}))

	got, err = repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.NotNil(t, got.Content.Summary)
	assert.NotNil(t, got.Content.Titles)
	assert.NotNil(t, got.Content.Quiz)
}

func TestSaveContent_ClinicalScenariosRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	createProject(t, repo, "p1")
	ctx := context.Background()

	scenarios := []model.ClinicalScenario{
		{Title: "Chest pain", Difficulty: "medium", Body: "A 54-year-old presents with..."},
		{Title: "Dyspnea", Difficulty: "hard", Body: "A 71-year-old presents with..."},
	}
	require.NoError(t, repo.SaveContent(ctx, "p1", &model.ContentPatch{ClinicalScenarios: scenarios}))

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, scenarios, got.Content.ClinicalScenarios)
	assert.True(t, got.Content.Filled(model.FeatureClinicalScenarios))
}

func TestRecordError_FailsProjectAndKeepsContent(t *testing.T) {
	repo := newTestRepo(t)
	createProject(t, repo, "p1")
	ctx := context.Background()

	summary := "partial output"
	require.NoError(t, repo.SaveContent(ctx, "p1", &model.ContentPatch{Summary: &summary}))
	require.NoError(t, repo.RecordError(ctx, "p1", &model.ProcessingError{
		Message: "transcription provider unreachable",
		Step:    "transcription",
	}))

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, model.ProjectFailed, got.Status)
	require.NotNil(t, got.Error)
	assert.Equal(t, "transcription", got.Error.Step)
	assert.False(t, got.Error.OccurredAt.IsZero())
	// no rollback of already-written slots
	assert.NotNil(t, got.Content.Summary)
}

func TestSaveJobErrors_MergesSparseMap(t *testing.T) {
	repo := newTestRepo(t)
	createProject(t, repo, "p1")
	ctx := context.Background()

	require.NoError(t, repo.SaveJobErrors(ctx, "p1", map[string]string{"titles": "rate limited"}))
	require.NoError(t, repo.SaveJobErrors(ctx, "p1", map[string]string{"quiz": "context too long"}))

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"titles": "rate limited",
		"quiz":   "context too long",
	}, got.JobErrors)
}

func TestSoftDelete_HidesButStillCountsForLifetimeQuota(t *testing.T) {
	repo := newTestRepo(t)
	createProject(t, repo, "p1")
	createProject(t, repo, "p2")
	ctx := context.Background()

	require.NoError(t, repo.SoftDelete(ctx, "p1"))

	_, err := repo.GetByID(ctx, "p1")
	assert.ErrorIs(t, err, repository.ErrProjectNotFound)

	listed, err := repo.ListByOwners(ctx, []string{"alice"})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "p2", listed[0].ID)

	live, err := repo.CountByOwner(ctx, "alice", false)
	require.NoError(t, err)
	assert.Equal(t, 1, live)

	lifetime, err := repo.CountByOwner(ctx, "alice", true)
	require.NoError(t, err)
	assert.Equal(t, 2, lifetime)
}

func TestUpdateMetadata(t *testing.T) {
	repo := newTestRepo(t)
	createProject(t, repo, "p1")
	ctx := context.Background()

	require.NoError(t, repo.UpdateMetadata(ctx, "p1", "Cardiology Lecture 3", "medicine", "cardiology"))

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Cardiology Lecture 3", got.DisplayName)
	assert.Equal(t, "cardiology", got.Subcategory)
}
