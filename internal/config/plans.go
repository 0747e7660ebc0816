package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"studyforge/internal/app/plan"
	"studyforge/internal/app/sharing"
)

// PlansConfig allows operators to tune per-tier limits without a rebuild.
type PlansConfig struct {
	MemberCaps map[string]int `yaml:"member_caps"`
}

// LoadPlansConfig reads the plans YAML file at path. A missing file is not
// an error; defaults apply.
func LoadPlansConfig(path string) (*PlansConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &PlansConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read plans config %s: %w", path, err)
	}

	var cfg PlansConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse plans config %s: %w", path, err)
	}

	for name := range cfg.MemberCaps {
		if !plan.Valid(plan.Plan(name)) {
			return nil, fmt.Errorf("plans config %s: unknown plan %q", path, name)
		}
	}
	return &cfg, nil
}

// MemberCapsFor merges the configured overrides over the built-in defaults.
func (c *PlansConfig) MemberCapsFor() sharing.MemberCaps {
	caps := sharing.DefaultMemberCaps()
	for name, cap := range c.MemberCaps {
		caps[plan.Plan(name)] = cap
	}
	return caps
}
