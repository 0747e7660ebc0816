package model

// FeatureName identifies one user-facing generated-content feature. Each
// feature is backed by exactly one generation job of the same name.
type FeatureName string

const (
	FeatureSummary           FeatureName = "summary"
	FeatureKeyMoments        FeatureName = "keyMoments"
	FeatureTitles            FeatureName = "titles"
	FeatureSocialPosts       FeatureName = "socialPosts"
	FeatureHashtags          FeatureName = "hashtags"
	FeatureSlideOutline      FeatureName = "slideOutline"
	FeatureYouTubeTimestamps FeatureName = "youtubeTimestamps"
	FeatureQuiz              FeatureName = "quiz"
	FeatureFlashcards        FeatureName = "flashcards"
	FeatureEngagementPack    FeatureName = "engagementPack"
	FeatureClinicalScenarios FeatureName = "clinicalScenarios"
)

// ClinicalScenario is one generated case study. Scenario generation appends to
// the existing list rather than replacing it, up to a fixed cap.
type ClinicalScenario struct {
	Title      string `json:"title"`
	Difficulty string `json:"difficulty,omitempty"`
	Body       string `json:"body"`
}

// Content holds one optional slot per feature. A nil slot means the job has not
// produced output yet; a filled slot is written exactly once per successful job
// run and overwritten wholesale on regeneration, never partially merged.
type Content struct {
	Transcript        *string            `json:"transcript,omitempty" db:"transcript"`
	Summary           *string            `json:"summary,omitempty" db:"summary"`
	KeyMoments        *string            `json:"key_moments,omitempty" db:"key_moments"`
	Titles            *string            `json:"titles,omitempty" db:"titles"`
	SocialPosts       *string            `json:"social_posts,omitempty" db:"social_posts"`
	Hashtags          *string            `json:"hashtags,omitempty" db:"hashtags"`
	SlideOutline      *string            `json:"slide_outline,omitempty" db:"slide_outline"`
	YouTubeTimestamps *string            `json:"youtube_timestamps,omitempty" db:"youtube_timestamps"`
	Quiz              *string            `json:"quiz,omitempty" db:"quiz"`
	FlashcardSetID    *string            `json:"flashcard_set_id,omitempty" db:"flashcard_set_id"`
	EngagementPack    *string            `json:"engagement_pack,omitempty" db:"engagement_pack"`
	ClinicalScenarios []ClinicalScenario `json:"clinical_scenarios,omitempty" db:"clinical_scenarios"`
}

// ContentPatch mirrors Content for batched saves. Nil fields are left
// untouched in the store, which is what makes partial re-runs safe.
type ContentPatch struct {
	Transcript        *string            `json:"transcript,omitempty"`
	Summary           *string            `json:"summary,omitempty"`
	KeyMoments        *string            `json:"key_moments,omitempty"`
	Titles            *string            `json:"titles,omitempty"`
	SocialPosts       *string            `json:"social_posts,omitempty"`
	Hashtags          *string            `json:"hashtags,omitempty"`
	SlideOutline      *string            `json:"slide_outline,omitempty"`
	YouTubeTimestamps *string            `json:"youtube_timestamps,omitempty"`
	Quiz              *string            `json:"quiz,omitempty"`
	FlashcardSetID    *string            `json:"flashcard_set_id,omitempty"`
	EngagementPack    *string            `json:"engagement_pack,omitempty"`
	ClinicalScenarios []ClinicalScenario `json:"clinical_scenarios,omitempty"`
}

// Empty reports whether the patch carries no slots at all.
func (p *ContentPatch) Empty() bool {
	return p.Transcript == nil && p.Summary == nil && p.KeyMoments == nil &&
		p.Titles == nil && p.SocialPosts == nil && p.Hashtags == nil &&
		p.SlideOutline == nil && p.YouTubeTimestamps == nil && p.Quiz == nil &&
		p.FlashcardSetID == nil && p.EngagementPack == nil &&
		p.ClinicalScenarios == nil
}

// Filled reports whether the slot backing the given feature holds output.
// Explicit predicate rather than truthiness of nested values.
func (c *Content) Filled(feature FeatureName) bool {
	switch feature {
	case FeatureSummary:
		return c.Summary != nil
	case FeatureKeyMoments:
		return c.KeyMoments != nil
	case FeatureTitles:
		return c.Titles != nil
	case FeatureSocialPosts:
		return c.SocialPosts != nil
	case FeatureHashtags:
		return c.Hashtags != nil
	case FeatureSlideOutline:
		return c.SlideOutline != nil
	case FeatureYouTubeTimestamps:
		return c.YouTubeTimestamps != nil
	case FeatureQuiz:
		return c.Quiz != nil
	case FeatureFlashcards:
		return c.FlashcardSetID != nil
	case FeatureEngagementPack:
		return c.EngagementPack != nil
	case FeatureClinicalScenarios:
		return len(c.ClinicalScenarios) > 0
	default:
		return false
	}
}

// FilledFeatures returns every feature whose slot currently holds output.
func (c *Content) FilledFeatures() []FeatureName {
	all := []FeatureName{
		FeatureSummary, FeatureKeyMoments, FeatureTitles, FeatureSocialPosts,
		FeatureHashtags, FeatureSlideOutline, FeatureYouTubeTimestamps,
		FeatureQuiz, FeatureFlashcards, FeatureEngagementPack,
		FeatureClinicalScenarios,
	}
	filled := make([]FeatureName, 0, len(all))
	for _, f := range all {
		if c.Filled(f) {
			filled = append(filled, f)
		}
	}
	return filled
}
