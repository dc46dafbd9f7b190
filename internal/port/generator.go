// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package port

import (
	"context"

	"github.com/ironcore-dev/tgen-client/internal/object"
)

// Generator is the traffic generator of a port. Its tunable attributes
// (duration, load, scheduling mode) live on a configuration child on the
// controller; the proxy forwards attribute access there so callers deal with
// one object. State queries still go to the generator itself.
type Generator struct {
	*object.Object

	config *object.Object
}

// Config exposes the underlying configuration child.
func (g *Generator) Config() *object.Object {
	return g.config
}

// Attribute reads a configuration attribute.
func (g *Generator) Attribute(ctx context.Context, name string) (string, error) {
	return g.config.Attribute(ctx, name)
}

// Attributes reads all configuration attributes.
func (g *Generator) Attributes(ctx context.Context) (map[string]string, error) {
	return g.config.Attributes(ctx)
}

// SetAttributes stages configuration writes, flushing them when apply is set.
func (g *Generator) SetAttributes(ctx context.Context, apply bool, attrs map[string]string) error {
	return g.config.SetAttributes(ctx, apply, attrs)
}

// Flush commits buffered configuration writes.
func (g *Generator) Flush(ctx context.Context) error {
	return g.config.Flush(ctx)
}

// State returns the generator's run state, e.g. "RUNNING" or "STOPPED".
// This is the one attribute that lives on the generator, not its config.
func (g *Generator) State(ctx context.Context) (string, error) {
	return g.Object.Attribute(ctx, "state")
}
