package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyforge/internal/app/plan"
)

func writePlansFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plans.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPlansConfig(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := LoadPlansConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)

		caps := cfg.MemberCapsFor()
		assert.Equal(t, 2, caps[plan.Free])
		assert.Equal(t, 10, caps[plan.Pro])
		assert.Equal(t, 50, caps[plan.Ultra])
	})

	t.Run("overrides merge over defaults", func(t *testing.T) {
		path := writePlansFile(t, "member_caps:\n  pro: 25\n")
		cfg, err := LoadPlansConfig(path)
		require.NoError(t, err)

		caps := cfg.MemberCapsFor()
		assert.Equal(t, 25, caps[plan.Pro])
		assert.Equal(t, 2, caps[plan.Free])
		assert.Equal(t, 50, caps[plan.Ultra])
	})

	t.Run("unknown plan name is rejected", func(t *testing.T) {
		path := writePlansFile(t, "member_caps:\n  platinum: 100\n")
		_, err := LoadPlansConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown plan")
	})

	t.Run("malformed yaml is rejected", func(t *testing.T) {
		path := writePlansFile(t, "member_caps: [not a map")
		_, err := LoadPlansConfig(path)
		require.Error(t, err)
	})
}
