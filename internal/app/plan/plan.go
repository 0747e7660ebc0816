// Package plan maps subscription tiers to the content features they unlock.
// The mapping is a fixed table: every higher tier is a strict superset of the
// tiers below it, and MinimumPlanFor is the inverse lookup used for upsell
// messaging.
package plan

import (
	"github.com/samber/lo"

	"studyforge/internal/app/model"
)

// Plan is a subscription tier, ordered free < pro < ultra.
type Plan string

const (
	Free  Plan = "free"
	Pro   Plan = "pro"
	Ultra Plan = "ultra"
)

// freeFeatures through ultraExtras define the tier ladder. Order matters:
// AvailableFeatures returns features in presentation order.
var (
	freeFeatures = []model.FeatureName{
		model.FeatureSummary,
		model.FeatureKeyMoments,
	}
	proExtras = []model.FeatureName{
		model.FeatureTitles,
		model.FeatureSocialPosts,
		model.FeatureHashtags,
		model.FeatureSlideOutline,
		model.FeatureYouTubeTimestamps,
	}
	ultraExtras = []model.FeatureName{
		model.FeatureQuiz,
		model.FeatureFlashcards,
		model.FeatureEngagementPack,
		model.FeatureClinicalScenarios,
	}
)

// Valid reports whether p is a known tier.
func Valid(p Plan) bool {
	return p == Free || p == Pro || p == Ultra
}

// Rank orders plans for comparison. Unknown plans rank below free.
func Rank(p Plan) int {
	switch p {
	case Free:
		return 1
	case Pro:
		return 2
	case Ultra:
		return 3
	default:
		return 0
	}
}

// AvailableFeatures returns the ordered feature set a tier unlocks. Each tier
// includes everything from the tiers below it.
func AvailableFeatures(p Plan) []model.FeatureName {
	switch p {
	case Ultra:
		return lo.Flatten([][]model.FeatureName{freeFeatures, proExtras, ultraExtras})
	case Pro:
		return lo.Flatten([][]model.FeatureName{freeFeatures, proExtras})
	case Free:
		return append([]model.FeatureName{}, freeFeatures...)
	default:
		return nil
	}
}

// MinimumPlanFor returns the lowest tier that unlocks the feature. The second
// return is false for unknown features.
func MinimumPlanFor(feature model.FeatureName) (Plan, bool) {
	switch {
	case lo.Contains(freeFeatures, feature):
		return Free, true
	case lo.Contains(proExtras, feature):
		return Pro, true
	case lo.Contains(ultraExtras, feature):
		return Ultra, true
	default:
		return "", false
	}
}

// Includes reports whether the tier unlocks the feature.
func Includes(p Plan, feature model.FeatureName) bool {
	return lo.Contains(AvailableFeatures(p), feature)
}

// Effective resolves the tier used for read/generate gating. The application
// owner role short-circuits to the highest tier; this must never substitute
// for the access evaluator's ownership check on mutations.
func Effective(p Plan, role model.Role) Plan {
	if role == model.RoleOwner {
		return Ultra
	}
	return p
}

// ProjectQuota returns the lifetime project quota for a tier, or -1 for
// unlimited. Free-tier quotas count soft-deleted projects.
func ProjectQuota(p Plan) int {
	if p == Free {
		return 3
	}
	return -1
}
