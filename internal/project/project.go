// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

// Package project models the configuration root of a controller session. The
// project owns all ports and, on the controller side, all emulated devices;
// it also drives traffic across port sets.
package project

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/ironcore-dev/tgen-client/internal/object"
	"github.com/ironcore-dev/tgen-client/internal/port"
	"github.com/ironcore-dev/tgen-client/internal/session"
)

// DefaultTrafficTimeout is the default number of 1 Hz generator polls a
// traffic wait spends before giving up.
const DefaultTrafficTimeout = 120

// systemRef is the fixed reference of the controller's system root, under
// which the one project of a session lives.
const systemRef = "system1"

var _ port.Project = (*Project)(nil)

// Project is the proxy for the session's project root.
type Project struct {
	*object.Object

	logger         logr.Logger
	trafficTimeout int
	pollInterval   time.Duration

	// devices indexes all emulated devices by their owning port. Built
	// lazily on first use and enumerated remotely at most once.
	devices map[object.Handle][]*port.EmulatedDevice
}

type Option func(*Project)

// WithLogger sets a custom logger for the project.
func WithLogger(logger logr.Logger) Option {
	return func(p *Project) {
		p.logger = logger
	}
}

// WithTrafficTimeout sets the number of 1 Hz generator polls a traffic wait
// spends per port before giving up.
func WithTrafficTimeout(polls int) Option {
	return func(p *Project) {
		p.trafficTimeout = polls
	}
}

// WithPollInterval overrides the 1 Hz traffic poll cadence.
func WithPollInterval(d time.Duration) Option {
	return func(p *Project) {
		p.pollInterval = d
	}
}

// New returns the session's project, reusing the one the controller created
// with the session or creating it when the configuration is empty.
func New(ctx context.Context, sess session.Session, opts ...Option) (*Project, error) {
	refs, err := sess.Children(ctx, systemRef, "project")
	if err != nil {
		return nil, fmt.Errorf("project: failed to discover project root: %w", err)
	}
	var ref string
	if len(refs) > 0 {
		ref = refs[0]
	} else if ref, err = sess.Create(ctx, "project", systemRef, nil); err != nil {
		return nil, fmt.Errorf("project: failed to create project root: %w", err)
	}

	p := &Project{
		Object:         object.Adopt(sess, nil, object.Handle{Type: "project", Ref: ref}),
		logger:         logr.FromSlogHandler(slog.Default().Handler()),
		trafficTimeout: DefaultTrafficTimeout,
		pollInterval:   time.Second,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// AddPort creates a new port under the project.
func (p *Project) AddPort(ctx context.Context, opts ...port.Option) (*port.Port, error) {
	return port.New(ctx, p.Session(), p.Object, p, opts...)
}

// AdoptPort wraps a port that already exists under the project.
func (p *Project) AdoptPort(ctx context.Context, handle object.Handle, opts ...port.Option) (*port.Port, error) {
	return port.Adopt(ctx, p.Session(), p.Object, handle, p, opts...)
}

// AddLag creates a new link aggregation group under the project.
func (p *Project) AddLag(ctx context.Context, name string, opts ...port.Option) (*port.Lag, error) {
	return port.NewLag(ctx, p.Session(), p.Object, p, name, opts...)
}

// Ports returns the project's ports. Synthetic LAG ports are included, they
// are regular ports on the controller.
func (p *Project) Ports(ctx context.Context, opts ...port.Option) ([]*port.Port, error) {
	children, err := p.Children(ctx, "port")
	if err != nil {
		return nil, err
	}
	ports := make([]*port.Port, 0, len(children))
	for _, c := range children {
		pt, err := port.Adopt(ctx, p.Session(), p.Object, c.Handle(), p, opts...)
		if err != nil {
			return nil, err
		}
		ports = append(ports, pt)
	}
	return ports, nil
}

// DevicesOwnedBy returns the emulated devices affiliated with the given
// port. The project-wide device set is enumerated remotely at most once;
// InvalidateDevices drops the index after out-of-band topology changes.
func (p *Project) DevicesOwnedBy(ctx context.Context, owner object.Handle) ([]*port.EmulatedDevice, error) {
	if p.devices == nil {
		if err := p.buildDeviceIndex(ctx); err != nil {
			return nil, err
		}
	}
	return p.devices[owner], nil
}

// InvalidateDevices drops the device ownership index so the next lookup
// re-enumerates the controller's device set.
func (p *Project) InvalidateDevices() {
	p.devices = nil
}

func (p *Project) buildDeviceIndex(ctx context.Context) error {
	children, err := p.Children(ctx, "emulateddevice")
	if err != nil {
		return err
	}
	index := make(map[object.Handle][]*port.EmulatedDevice)
	for _, c := range children {
		d := port.AsDevice(c)
		ownerRef, err := d.OwnerRef(ctx)
		if err != nil {
			return fmt.Errorf("project: failed to resolve owner of %s: %w", d.Ref(), err)
		}
		owner := object.Handle{Type: object.TypeFromRef(ownerRef), Ref: ownerRef}
		index[owner] = append(index[owner], d)
	}
	p.devices = index
	p.logger.V(1).Info("Built device ownership index", "devices", len(children), "owners", len(index))
	return nil
}

// StartPorts starts traffic on the given ports. With blocking the call
// returns only once all generators finished.
func (p *Project) StartPorts(ctx context.Context, blocking bool, ports ...*port.Port) error {
	if len(ports) == 0 {
		return nil
	}
	args := map[string]string{"GeneratorList": generatorList(ports)}
	if _, err := p.Session().Perform(ctx, "GeneratorStart", args); err != nil {
		return fmt.Errorf("project: failed to start traffic: %w", err)
	}
	if !blocking {
		return nil
	}
	return p.WaitTraffic(ctx, ports...)
}

// StopPorts stops traffic on the given ports.
func (p *Project) StopPorts(ctx context.Context, ports ...*port.Port) error {
	if len(ports) == 0 {
		return nil
	}
	args := map[string]string{"GeneratorList": generatorList(ports)}
	if _, err := p.Session().Perform(ctx, "GeneratorStop", args); err != nil {
		return fmt.Errorf("project: failed to stop traffic: %w", err)
	}
	return nil
}

// WaitTraffic polls the generators of the given ports once per second until
// each reports the stopped state.
func (p *Project) WaitTraffic(ctx context.Context, ports ...*port.Port) error {
	for _, pt := range ports {
		var last string
		stopped := false
		for i := 0; i < p.trafficTimeout; i++ {
			state, err := pt.Generator().State(ctx)
			if err != nil {
				return err
			}
			last = state
			if state == "STOPPED" {
				stopped = true
				break
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.pollInterval):
			}
		}
		if !stopped {
			return fmt.Errorf("project: traffic on %s still %q after %d seconds", pt.Ref(), last, p.trafficTimeout)
		}
	}
	return nil
}

// ClearResults resets all result counters of the given ports.
func (p *Project) ClearResults(ctx context.Context, ports ...*port.Port) error {
	if len(ports) == 0 {
		return nil
	}
	refs := make([]string, 0, len(ports))
	for _, pt := range ports {
		refs = append(refs, pt.Ref())
	}
	args := map[string]string{"PortList": strings.Join(refs, " ")}
	if _, err := p.Session().Perform(ctx, "ResultsClearAll", args); err != nil {
		return fmt.Errorf("project: failed to clear results: %w", err)
	}
	return nil
}

func generatorList(ports []*port.Port) string {
	refs := make([]string, 0, len(ports))
	for _, pt := range ports {
		refs = append(refs, pt.Generator().Ref())
	}
	return strings.Join(refs, " ")
}
