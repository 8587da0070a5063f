package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/repscan"
	"gopkg.in/yaml.v3"
)

// DefaultPolicy is used when no policy file is configured.
func DefaultPolicy() *repscan.Policy {
	return &repscan.Policy{Language: "Brazilian Portuguese"}
}

// LoadPolicy reads a classification policy from a YAML file.
// An empty path returns DefaultPolicy.
func LoadPolicy(path string) (*repscan.Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy: %w", err)
	}
	return ParsePolicy(data)
}

// ParsePolicy decodes and validates a YAML policy.
func ParsePolicy(data []byte) (*repscan.Policy, error) {
	policy := DefaultPolicy()
	if err := yaml.Unmarshal(data, policy); err != nil {
		return nil, repscan.Errorf(repscan.EINVALID, "invalid policy: %v", err)
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return policy, nil
}
