// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

// Package session implements the transport to the traffic-generator
// controller. The controller owns the true object state; everything above
// this package is a client-side mirror of it.
package session

import (
	"context"
	"errors"
)

//go:generate go tool moq -out mock.go . Session

// Session is the remote object-manipulation API of the controller. All calls
// are blocking round trips; no call is retried by this layer.
type Session interface {
	// Create creates a new object of the given type under parentRef and
	// returns the reference assigned by the controller.
	Create(ctx context.Context, objType, parentRef string, attrs map[string]string) (string, error)

	// Get retrieves a single scalar attribute of the referenced object.
	Get(ctx context.Context, ref, attr string) (string, error)

	// GetAll retrieves all attributes of the referenced object.
	GetAll(ctx context.Context, ref string) (map[string]string, error)

	// Set stages attribute writes on the referenced object. Staged writes
	// become visible on the hardware only after Apply.
	Set(ctx context.Context, ref string, attrs map[string]string) error

	// Apply commits all staged configuration to the chassis.
	Apply(ctx context.Context) error

	// Perform executes a controller command with named arguments and returns
	// the command's result attributes.
	Perform(ctx context.Context, command string, args map[string]string) (map[string]string, error)

	// Children returns the references of the direct children of the given
	// object, filtered by object type.
	Children(ctx context.Context, ref, objType string) ([]string, error)
}

var (
	// ErrNotFound indicates that the referenced object or attribute does not
	// exist on the controller.
	ErrNotFound = errors.New("session: not found")

	// ErrUnavailable indicates that the controller is not reachable.
	ErrUnavailable = errors.New("session: controller is not reachable")

	// ErrSession indicates a failure to establish or decode the controller
	// session itself, e.g. an unsupported API version.
	ErrSession = errors.New("session: invalid controller session")
)
