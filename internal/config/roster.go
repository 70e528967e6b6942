package config

import (
	"fmt"
	"net/mail"
	"os"

	"gopkg.in/yaml.v3"

	"grantdesk/internal/model"
)

// RosterConfig is the root configuration for roster.yaml. The roster is
// read-only for the scheduling core; changing it means editing the file.
type RosterConfig struct {
	Interviewers []model.Interviewer `yaml:"interviewers"`
}

// LoadRosterConfig loads and validates the interviewer roster from a YAML
// file. Roster order matters: workload ties break toward earlier entries.
func LoadRosterConfig(path string) (*RosterConfig, error) {
	if path == "" {
		path = "configs/roster.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster config: %w", err)
	}

	var cfg RosterConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse roster config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate roster config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the roster for errors. An empty roster is allowed; the
// balancer then assigns no interviewer.
func (c *RosterConfig) Validate() error {
	ids := make(map[string]bool)

	for i, iv := range c.Interviewers {
		if iv.ID == "" {
			return fmt.Errorf("interviewer[%d]: id is required", i)
		}
		if ids[iv.ID] {
			return fmt.Errorf("interviewer[%d]: duplicate id %q", i, iv.ID)
		}
		ids[iv.ID] = true

		if iv.Name == "" {
			return fmt.Errorf("interviewer[%d]: name is required", i)
		}
		if iv.Email != "" {
			if _, err := mail.ParseAddress(iv.Email); err != nil {
				return fmt.Errorf("interviewer[%d]: invalid email %q", i, iv.Email)
			}
		}
	}
	return nil
}
