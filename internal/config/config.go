// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the declarative test plan the CLI runs.
package config

import (
	"errors"
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// Plan describes one test run: the controller to talk to and the ports to
// reserve.
type Plan struct {
	// Controller is the base URL of the controller's API.
	Controller string `json:"controller"`

	// APIKey authenticates against the controller. Optional.
	APIKey string `json:"apiKey,omitempty"`

	// ForceReserve revokes foreign port reservations.
	ForceReserve bool `json:"forceReserve,omitempty"`

	// LinkTimeout is the number of 1 Hz link polls per port before a
	// reservation gives up. Zero means the built-in default.
	LinkTimeout int `json:"linkTimeout,omitempty"`

	Ports []PortPlan `json:"ports"`
}

// PortPlan describes one port of the plan.
type PortPlan struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

var errInvalid = errors.New("config: invalid plan")

// Load reads and validates a plan from a YAML file.
func Load(path string) (*Plan, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read plan: %w", err)
	}
	var p Plan
	if err := yaml.UnmarshalStrict(b, &p); err != nil {
		return nil, fmt.Errorf("config: failed to parse plan %s: %w", path, err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Plan) validate() error {
	if p.Controller == "" {
		return fmt.Errorf("%w: controller URL is missing", errInvalid)
	}
	if len(p.Ports) == 0 {
		return fmt.Errorf("%w: no ports declared", errInvalid)
	}
	for i, pp := range p.Ports {
		if pp.Name == "" {
			return fmt.Errorf("%w: port %d has no name", errInvalid, i)
		}
		if pp.Location == "" {
			return fmt.Errorf("%w: port %q has no location", errInvalid, pp.Name)
		}
	}
	return nil
}
