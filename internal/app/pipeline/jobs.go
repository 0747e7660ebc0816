package pipeline

import (
	"studyforge/internal/app/model"
)

// MaxClinicalScenarios caps the append-only scenario list per project.
const MaxClinicalScenarios = 20

// Difficulties accepted by scenario generation.
var Difficulties = map[string]bool{
	"easy":   true,
	"medium": true,
	"hard":   true,
}

// Job describes one named content-generation unit within the
// content-generation phase.
type Job struct {
	Name model.FeatureName
	// AudioOnly jobs are skipped for document uploads.
	AudioOnly bool
	// Appends marks jobs whose output accumulates rather than replaces,
	// bounded by MaxItems.
	Appends  bool
	MaxItems int
	// TakesDifficulty marks jobs that accept a difficulty parameter.
	TakesDifficulty bool
}

var catalog = []Job{
	{Name: model.FeatureSummary},
	{Name: model.FeatureKeyMoments, AudioOnly: true},
	{Name: model.FeatureTitles},
	{Name: model.FeatureSocialPosts, AudioOnly: true},
	{Name: model.FeatureHashtags, AudioOnly: true},
	{Name: model.FeatureSlideOutline},
	{Name: model.FeatureYouTubeTimestamps, AudioOnly: true},
	{Name: model.FeatureQuiz},
	{Name: model.FeatureFlashcards},
	{Name: model.FeatureEngagementPack},
	{Name: model.FeatureClinicalScenarios, Appends: true, MaxItems: MaxClinicalScenarios, TakesDifficulty: true},
}

// Jobs returns the full catalog.
func Jobs() []Job {
	return catalog
}

// JobByName looks up a catalog entry; the second return is false for unknown
// job names.
func JobByName(name string) (Job, bool) {
	for _, j := range catalog {
		if string(j.Name) == name {
			return j, true
		}
	}
	return Job{}, false
}

// AppliesTo reports whether the job can run against the given content kind.
func (j Job) AppliesTo(kind model.ContentKind) bool {
	if j.AudioOnly {
		return kind == model.KindAudio
	}
	return true
}
