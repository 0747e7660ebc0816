package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyforge/internal/app/model"
)

func TestAvailableFeatures_MonotonicSupersets(t *testing.T) {
	free := AvailableFeatures(Free)
	pro := AvailableFeatures(Pro)
	ultra := AvailableFeatures(Ultra)

	require.NotEmpty(t, free)
	require.Greater(t, len(pro), len(free))
	require.Greater(t, len(ultra), len(pro))

	for _, f := range free {
		assert.Contains(t, pro, f, "pro must include free feature %s", f)
		assert.Contains(t, ultra, f, "ultra must include free feature %s", f)
	}
	for _, f := range pro {
		assert.Contains(t, ultra, f, "ultra must include pro feature %s", f)
	}
}

func TestMinimumPlanFor_RoundTrip(t *testing.T) {
	for _, p := range []Plan{Free, Pro, Ultra} {
		for _, f := range AvailableFeatures(p) {
			min, ok := MinimumPlanFor(f)
			require.True(t, ok, "feature %s has no minimum plan", f)
			assert.LessOrEqual(t, Rank(min), Rank(p),
				"feature %s available on %s but minimum plan is %s", f, p, min)
		}
	}
}

func TestMinimumPlanFor_UnknownFeature(t *testing.T) {
	_, ok := MinimumPlanFor(model.FeatureName("holograms"))
	assert.False(t, ok)
}

func TestAvailableFeatures_NoDuplicates(t *testing.T) {
	for _, p := range []Plan{Free, Pro, Ultra} {
		seen := map[model.FeatureName]bool{}
		for _, f := range AvailableFeatures(p) {
			assert.False(t, seen[f], "duplicate feature %s in %s", f, p)
			seen[f] = true
		}
	}
}

func TestEffective_OwnerRoleShortCircuit(t *testing.T) {
	assert.Equal(t, Ultra, Effective(Free, model.RoleOwner))
	assert.Equal(t, Ultra, Effective(Pro, model.RoleOwner))
	assert.Equal(t, Free, Effective(Free, model.RoleAdmin))
	assert.Equal(t, Pro, Effective(Pro, model.RoleUser))
}

func TestRank_Ordering(t *testing.T) {
	assert.Less(t, Rank(Free), Rank(Pro))
	assert.Less(t, Rank(Pro), Rank(Ultra))
	assert.Zero(t, Rank(Plan("enterprise")))
}

func TestProjectQuota(t *testing.T) {
	assert.Equal(t, 3, ProjectQuota(Free))
	assert.Equal(t, -1, ProjectQuota(Pro))
	assert.Equal(t, -1, ProjectQuota(Ultra))
}
