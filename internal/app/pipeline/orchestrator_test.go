package pipeline

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyforge/internal/app/model"
	"studyforge/internal/app/plan"
	"studyforge/internal/app/repository"
)

// fakeProjects is an in-memory stand-in for the project store, mirroring its
// merge semantics closely enough to observe what the orchestrator writes.
type fakeProjects struct {
	repository.ProjectRepository
	project *model.Project
}

func (f *fakeProjects) GetByID(_ context.Context, id string) (*model.Project, error) {
	if f.project == nil || f.project.ID != id {
		return nil, repository.ErrProjectNotFound
	}
	copied := *f.project
	return &copied, nil
}

func (f *fakeProjects) UpdateJobStatus(_ context.Context, _ string, patch model.JobStatusPatch) error {
	if patch.Transcription != nil {
		f.project.JobStatus.Transcription = *patch.Transcription
	}
	if patch.ContentGeneration != nil {
		f.project.JobStatus.ContentGeneration = *patch.ContentGeneration
	}
	return nil
}

func (f *fakeProjects) UpdateStatus(_ context.Context, _ string, status model.ProjectStatus) error {
	f.project.Status = status
	return nil
}

// recordingDispatcher keeps every send and the set of unique dedupe keys, so
// tests can distinguish invocation count from logical run count.
type recordingDispatcher struct {
	events []string
	keys   map[string]int
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{keys: map[string]int{}}
}

func (d *recordingDispatcher) Send(_ context.Context, event, dedupeKey string, _ interface{}) error {
	d.events = append(d.events, event)
	d.keys[dedupeKey]++
	return nil
}

func audioProject() *model.Project {
	return &model.Project{
		ID:      "p1",
		OwnerID: "alice",
		Kind:    model.KindAudio,
		Status:  model.ProjectUploaded,
		JobStatus: model.JobStatus{
			Transcription:     model.PhasePending,
			ContentGeneration: model.PhasePending,
		},
	}
}

func newOrchestrator(p *model.Project) (*Orchestrator, *fakeProjects, *recordingDispatcher) {
	repo := &fakeProjects{project: p}
	disp := newRecordingDispatcher()
	return NewOrchestrator(repo, disp, slog.Default()), repo, disp
}

func TestTriggerPipeline_Idempotent(t *testing.T) {
	orch, repo, disp := newOrchestrator(audioProject())

	require.NoError(t, orch.TriggerPipeline(context.Background(), "p1", plan.Pro))
	require.NoError(t, orch.TriggerPipeline(context.Background(), "p1", plan.Pro))

	// two invocations, one logical run: a single dedupe key saw both sends
	assert.Len(t, disp.events, 2)
	assert.Len(t, disp.keys, 1)
	assert.Equal(t, 2, disp.keys["pipeline:p1"])
	assert.Equal(t, model.ProjectProcessing, repo.project.Status)
}

func TestTriggerPipeline_CompletedPhaseNotReset(t *testing.T) {
	p := audioProject()
	p.JobStatus.Transcription = model.PhaseCompleted
	orch, repo, _ := newOrchestrator(p)

	require.NoError(t, orch.TriggerPipeline(context.Background(), "p1", plan.Free))
	assert.Equal(t, model.PhaseCompleted, repo.project.JobStatus.Transcription)
	assert.Equal(t, model.PhasePending, repo.project.JobStatus.ContentGeneration)
}

func TestTriggerPipeline_UnknownProject(t *testing.T) {
	orch, _, disp := newOrchestrator(audioProject())
	err := orch.TriggerPipeline(context.Background(), "ghost", plan.Free)
	assert.ErrorIs(t, err, repository.ErrProjectNotFound)
	assert.Empty(t, disp.events)
}

func TestRetryJob_Validation(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(*model.Project)
		job        string
		difficulty string
		wantErr    error
	}{
		{
			name:    "unknown job name",
			setup:   func(p *model.Project) { p.JobStatus.Transcription = model.PhaseCompleted },
			job:     "wordCloud",
			wantErr: ErrUnknownJob,
		},
		{
			name: "audio-only job on a document",
			setup: func(p *model.Project) {
				p.Kind = model.KindDocument
				p.JobStatus.Transcription = model.PhaseCompleted
			},
			job:     "keyMoments",
			wantErr: ErrJobNotApplicable,
		},
		{
			name: "scenario cap reached",
			setup: func(p *model.Project) {
				p.JobStatus.Transcription = model.PhaseCompleted
				p.Content.ClinicalScenarios = make([]model.ClinicalScenario, MaxClinicalScenarios)
			},
			job:     "clinicalScenarios",
			wantErr: ErrScenarioCapReached,
		},
		{
			name: "bad difficulty",
			setup: func(p *model.Project) {
				p.JobStatus.Transcription = model.PhaseCompleted
			},
			job:        "clinicalScenarios",
			difficulty: "brutal",
			wantErr:    ErrBadDifficulty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := audioProject()
			tt.setup(p)
			orch, _, disp := newOrchestrator(p)

			err := orch.RetryJob(context.Background(), "p1", tt.job, tt.difficulty)
			assert.ErrorIs(t, err, tt.wantErr)
			// validation failures must not dispatch anything
			assert.Empty(t, disp.events)
		})
	}
}

func TestRetryJob_DispatchesTargetedEvent(t *testing.T) {
	p := audioProject()
	p.JobStatus.Transcription = model.PhaseCompleted
	orch, repo, disp := newOrchestrator(p)

	require.NoError(t, orch.RetryJob(context.Background(), "p1", "summary", ""))
	assert.Equal(t, []string{"RunGenerationJob"}, disp.events)
	assert.Equal(t, 1, disp.keys["job:p1:summary"])
	assert.Equal(t, model.PhaseRunning, repo.project.JobStatus.ContentGeneration)
}

func TestGenerateMissingFeatures_UpgradeBackfill(t *testing.T) {
	p := audioProject()
	p.JobStatus.Transcription = model.PhaseCompleted
	summary := "generated summary"
	keyMoments := "generated key moments"
	p.Content.Summary = &summary
	p.Content.KeyMoments = &keyMoments

	orch, _, disp := newOrchestrator(p)
	jobs, err := orch.GenerateMissingFeatures(context.Background(), "p1", plan.Pro)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"titles", "socialPosts", "hashtags", "slideOutline", "youtubeTimestamps",
	}, jobs)
	assert.Len(t, disp.events, len(jobs))
}

func TestGenerateMissingFeatures_DocumentSkipsAudioOnlyJobs(t *testing.T) {
	p := audioProject()
	p.Kind = model.KindDocument
	p.JobStatus.Transcription = model.PhaseCompleted

	orch, _, _ := newOrchestrator(p)
	jobs, err := orch.GenerateMissingFeatures(context.Background(), "p1", plan.Ultra)
	require.NoError(t, err)

	for _, banned := range []string{"keyMoments", "youtubeTimestamps", "socialPosts", "hashtags"} {
		assert.NotContains(t, jobs, banned)
	}
	assert.Contains(t, jobs, "summary")
	assert.Contains(t, jobs, "quiz")
	assert.Contains(t, jobs, "clinicalScenarios")
}

func TestGenerateMissingFeatures_EmptySetIsAnError(t *testing.T) {
	p := audioProject()
	p.JobStatus.Transcription = model.PhaseCompleted
	summary := "s"
	keyMoments := "k"
	p.Content.Summary = &summary
	p.Content.KeyMoments = &keyMoments

	orch, _, disp := newOrchestrator(p)
	_, err := orch.GenerateMissingFeatures(context.Background(), "p1", plan.Free)
	assert.ErrorIs(t, err, ErrNothingToGenerate)
	assert.Empty(t, disp.events)
}

func TestInferOriginalPlan(t *testing.T) {
	text := "generated"

	free := audioProject()
	free.Content.Summary = &text
	assert.Equal(t, plan.Free, InferOriginalPlan(free))

	pro := audioProject()
	pro.Content.Summary = &text
	pro.Content.Titles = &text
	assert.Equal(t, plan.Pro, InferOriginalPlan(pro))

	ultra := audioProject()
	ultra.Content.Quiz = &text
	assert.Equal(t, plan.Ultra, InferOriginalPlan(ultra))

	empty := audioProject()
	assert.Equal(t, plan.Free, InferOriginalPlan(empty))
}
