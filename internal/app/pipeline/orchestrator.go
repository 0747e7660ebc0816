// Package pipeline decides which generation jobs to run for a project given
// its processing state and the caller's plan, and issues idempotent triggers
// to the external dispatcher. It never executes jobs itself and never blocks
// on job completion.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"studyforge/internal/app/dispatch"
	"studyforge/internal/app/model"
	"studyforge/internal/app/plan"
	"studyforge/internal/app/repository"
)

// Validation errors surfaced synchronously to the caller. Retries and backoff
// are the external dispatcher's job, never the orchestrator's.
var (
	ErrUnknownJob         = errors.New("unknown job name")
	ErrJobNotApplicable   = errors.New("job does not apply to this content kind")
	ErrScenarioCapReached = fmt.Errorf("clinical scenario limit of %d reached", MaxClinicalScenarios)
	ErrBadDifficulty      = errors.New("difficulty must be one of easy, medium, hard")
	ErrNothingToGenerate  = errors.New("no missing features to generate for this plan")
)

// Orchestrator issues pipeline and single-job triggers against the dispatcher
// and keeps phase statuses in step.
type Orchestrator struct {
	projects   repository.ProjectRepository
	dispatcher dispatch.Dispatcher
	logger     *slog.Logger
}

// NewOrchestrator creates a job orchestrator.
func NewOrchestrator(projects repository.ProjectRepository, dispatcher dispatch.Dispatcher, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{projects: projects, dispatcher: dispatcher, logger: logger}
}

// TriggerPipeline starts (or restarts) the two-phase pipeline for a project.
// Safe to call more than once per upload: completed phases are left alone, and
// the dispatch is de-duplicated by project id, so at-least-once triggering
// cannot produce a second logical run.
func (o *Orchestrator) TriggerPipeline(ctx context.Context, projectID string, p plan.Plan) error {
	project, err := o.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}

	patch := model.JobStatusPatch{}
	if project.JobStatus.Transcription != model.PhaseCompleted {
		pending := model.PhasePending
		patch.Transcription = &pending
	}
	if project.JobStatus.ContentGeneration != model.PhaseCompleted {
		pending := model.PhasePending
		patch.ContentGeneration = &pending
	}
	if !patch.Empty() {
		if err := o.projects.UpdateJobStatus(ctx, projectID, patch); err != nil {
			return err
		}
	}
	if err := o.projects.UpdateStatus(ctx, projectID, model.ProjectProcessing); err != nil {
		return err
	}

	jobs := o.applicableJobs(project.Kind, p)
	payload := dispatch.PipelinePayload{
		ProjectID: projectID,
		Plan:      string(p),
		Jobs:      jobs,
	}
	if err := o.dispatcher.Send(ctx, dispatch.EventProcessProject, pipelineKey(projectID), payload); err != nil {
		return err
	}

	pipelineTriggers.WithLabelValues(string(p)).Inc()
	o.logger.Info("pipeline triggered",
		"project_id", projectID, "plan", p, "jobs", len(jobs))
	return nil
}

// RetryJob re-emits one targeted generation job. Sibling content slots are
// untouched. Jobs with bounded incremental output are rejected once the cap is
// reached, before anything is dispatched.
func (o *Orchestrator) RetryJob(ctx context.Context, projectID, jobName, difficulty string) error {
	job, ok := JobByName(jobName)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, jobName)
	}

	project, err := o.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if !job.AppliesTo(project.Kind) {
		return fmt.Errorf("%w: %s on %s", ErrJobNotApplicable, jobName, project.Kind)
	}
	if difficulty != "" {
		if !job.TakesDifficulty {
			return fmt.Errorf("job %s does not take a difficulty parameter", jobName)
		}
		if !Difficulties[difficulty] {
			return ErrBadDifficulty
		}
	}
	if job.Appends && len(project.Content.ClinicalScenarios) >= job.MaxItems {
		return ErrScenarioCapReached
	}

	running := model.PhaseRunning
	if err := o.projects.UpdateJobStatus(ctx, projectID, model.JobStatusPatch{ContentGeneration: &running}); err != nil {
		return err
	}

	payload := dispatch.JobPayload{ProjectID: projectID, Job: jobName, Difficulty: difficulty}
	if err := o.dispatcher.Send(ctx, dispatch.EventRunJob, jobKey(projectID, jobName), payload); err != nil {
		return err
	}

	jobTriggers.WithLabelValues(jobName).Inc()
	o.logger.Info("job retry dispatched", "project_id", projectID, "job", jobName)
	return nil
}

// GenerateMissingFeatures backfills jobs that the current plan unlocks but the
// project has never produced, firing one event per missing job. An empty
// missing set is reported as an error so callers can tell "nothing to do"
// apart from a dispatch failure.
func (o *Orchestrator) GenerateMissingFeatures(ctx context.Context, projectID string, current plan.Plan) ([]string, error) {
	project, err := o.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	available := plan.AvailableFeatures(current)
	present := project.Content.FilledFeatures()
	missing := lo.Filter(available, func(f model.FeatureName, _ int) bool {
		if lo.Contains(present, f) {
			return false
		}
		job, ok := JobByName(string(f))
		return ok && job.AppliesTo(project.Kind)
	})

	if len(missing) == 0 {
		original := InferOriginalPlan(project)
		return nil, fmt.Errorf("%w (plan %s, originally processed as %s)",
			ErrNothingToGenerate, current, original)
	}

	running := model.PhaseRunning
	if err := o.projects.UpdateJobStatus(ctx, projectID, model.JobStatusPatch{ContentGeneration: &running}); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(missing))
	for _, f := range missing {
		name := string(f)
		payload := dispatch.JobPayload{ProjectID: projectID, Job: name}
		if err := o.dispatcher.Send(ctx, dispatch.EventRunJob, jobKey(projectID, name), payload); err != nil {
			return names, err
		}
		jobTriggers.WithLabelValues(name).Inc()
		names = append(names, name)
	}

	o.logger.Info("backfill dispatched",
		"project_id", projectID, "plan", current, "jobs", names)
	return names, nil
}

// InferOriginalPlan reconstructs which plan was active when the project was
// processed, from which premium slots are populated. Best effort only: a
// higher-plan user who generated nothing beyond the overlapping tiers is
// indistinguishable from a lower-plan one.
func InferOriginalPlan(project *model.Project) plan.Plan {
	for _, f := range project.Content.FilledFeatures() {
		if min, ok := plan.MinimumPlanFor(f); ok && min == plan.Ultra {
			return plan.Ultra
		}
	}
	for _, f := range project.Content.FilledFeatures() {
		if min, ok := plan.MinimumPlanFor(f); ok && min == plan.Pro {
			return plan.Pro
		}
	}
	return plan.Free
}

func (o *Orchestrator) applicableJobs(kind model.ContentKind, p plan.Plan) []string {
	features := plan.AvailableFeatures(p)
	jobs := make([]string, 0, len(features))
	for _, f := range features {
		if job, ok := JobByName(string(f)); ok && job.AppliesTo(kind) {
			jobs = append(jobs, string(f))
		}
	}
	return jobs
}

func pipelineKey(projectID string) string {
	return "pipeline:" + projectID
}

func jobKey(projectID, jobName string) string {
	return "job:" + projectID + ":" + jobName
}
