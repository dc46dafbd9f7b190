// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

// Package port models test ports of the traffic generator: reservation of
// physical locations, link supervision, traffic control and the emulated
// devices and stream blocks living on a port.
package port

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ironcore-dev/tgen-client/internal/hostutil"
	"github.com/ironcore-dev/tgen-client/internal/object"
	"github.com/ironcore-dev/tgen-client/internal/session"
)

// DefaultLinkTimeout is the default number of 1 Hz link polls a reservation
// waits for the link to come up.
const DefaultLinkTimeout = 40

var (
	// ErrNoActivePhy indicates a physical-layer operation on a port whose
	// reservation never bound an active phy.
	ErrNoActivePhy = errors.New("port: no active phy, port is not reserved")

	offlineSuffix = regexp.MustCompile(` \(offline\)$`)
)

// Project is the cross-port collaborator a port delegates to: traffic
// commands operate on port sets, and emulated devices are owned by the
// project on the controller even though they logically belong to a port.
type Project interface {
	StartPorts(ctx context.Context, blocking bool, ports ...*Port) error
	StopPorts(ctx context.Context, ports ...*Port) error
	WaitTraffic(ctx context.Context, ports ...*Port) error
	ClearResults(ctx context.Context, ports ...*Port) error
	DevicesOwnedBy(ctx context.Context, owner object.Handle) ([]*EmulatedDevice, error)
}

// Port is a proxy for one test port. A freshly created port is unreserved;
// Reserve attaches it to a physical location and binds the active phy.
type Port struct {
	*object.Object

	project   Project
	generator *Generator
	activePhy *object.Object
	location  string

	pollInterval time.Duration
}

type config struct {
	name         string
	attrs        map[string]string
	pollInterval time.Duration
}

type Option func(*config)

// WithName sets the port's Name attribute on creation.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithAttributes sets additional initial attributes on creation.
func WithAttributes(attrs map[string]string) Option {
	return func(c *config) {
		c.attrs = attrs
	}
}

// WithPollInterval overrides the 1 Hz link and traffic poll cadence.
func WithPollInterval(d time.Duration) Option {
	return func(c *config) {
		c.pollInterval = d
	}
}

// New creates a port under parent and wires up its generator. The generator
// and its configuration child exist implicitly on the controller; missing
// ones are created so the proxy tree is complete either way.
func New(ctx context.Context, sess session.Session, parent *object.Object, project Project, opts ...Option) (*Port, error) {
	cfg := config{pollInterval: time.Second}
	for _, opt := range opts {
		opt(&cfg)
	}

	attrs := map[string]string{}
	for k, v := range cfg.attrs {
		attrs[k] = v
	}
	if cfg.name != "" {
		attrs["Name"] = cfg.name
	}

	obj, err := object.New(ctx, sess, parent, "port", attrs)
	if err != nil {
		return nil, err
	}
	return wrap(ctx, obj, project, cfg.pollInterval)
}

// Adopt wraps a port that already exists on the controller.
func Adopt(ctx context.Context, sess session.Session, parent *object.Object, handle object.Handle, project Project, opts ...Option) (*Port, error) {
	cfg := config{pollInterval: time.Second}
	for _, opt := range opts {
		opt(&cfg)
	}
	return wrap(ctx, object.Adopt(sess, parent, handle), project, cfg.pollInterval)
}

func wrap(ctx context.Context, obj *object.Object, project Project, pollInterval time.Duration) (*Port, error) {
	p := &Port{
		Object:       obj,
		project:      project,
		pollInterval: pollInterval,
	}

	gens, err := obj.Children(ctx, "generator")
	if err != nil {
		return nil, err
	}
	var gen *object.Object
	if len(gens) > 0 {
		gen = gens[0]
	} else if gen, err = object.New(ctx, obj.Session(), obj, "generator", nil); err != nil {
		return nil, err
	}

	cfgs, err := gen.Children(ctx, "generatorconfig")
	if err != nil {
		return nil, err
	}
	var genCfg *object.Object
	if len(cfgs) > 0 {
		genCfg = cfgs[0]
	} else if genCfg, err = object.New(ctx, obj.Session(), gen, "generatorconfig", nil); err != nil {
		return nil, err
	}

	p.generator = &Generator{Object: gen, config: genCfg}
	return p, nil
}

type reserveConfig struct {
	location string
	force    bool
	wait     bool
	timeout  int
}

type ReserveOption func(*reserveConfig)

// WithLocation sets the physical location to reserve, e.g. "10.0.0.1/1/1".
// Without it the port's already configured Location attribute is used.
func WithLocation(location string) ReserveOption {
	return func(c *reserveConfig) {
		c.location = location
	}
}

// WithForce revokes a foreign ownership of the location.
func WithForce() ReserveOption {
	return func(c *reserveConfig) {
		c.force = true
	}
}

// WithoutWait skips the link-up wait after attaching.
func WithoutWait() ReserveOption {
	return func(c *reserveConfig) {
		c.wait = false
	}
}

// WithTimeout sets the number of 1 Hz link polls before giving up.
func WithTimeout(polls int) ReserveOption {
	return func(c *reserveConfig) {
		c.timeout = polls
	}
}

// Reserve attaches the port to its physical location and waits for the link
// to come up. Offline and loopback locations are configuration-only: the
// location is recorded but no hardware is attached and no phy is bound.
// Reserving an already reserved location fails unless WithForce is given.
func (p *Port) Reserve(ctx context.Context, opts ...ReserveOption) error {
	cfg := reserveConfig{wait: true, timeout: DefaultLinkTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.location != "" {
		p.location = cfg.location
		if err := p.SetAttributes(ctx, false, map[string]string{"Location": cfg.location}); err != nil {
			return err
		}
	} else {
		loc, err := p.Attribute(ctx, "Location")
		if err != nil {
			return err
		}
		p.location = loc
	}

	if hostutil.IsLocalHost(p.location) {
		return nil
	}

	if err := p.Flush(ctx); err != nil {
		return err
	}
	args := map[string]string{
		"PortList":    p.Ref(),
		"AutoConnect": "true",
		"RevokeOwner": strconv.FormatBool(cfg.force),
	}
	if _, err := p.Session().Perform(ctx, "AttachPorts", args); err != nil {
		return fmt.Errorf("port: failed to attach %s to %s: %w", p.Ref(), p.location, err)
	}
	if err := p.Session().Apply(ctx); err != nil {
		return err
	}

	phyRef, err := p.Attribute(ctx, "activephy-Targets")
	if err != nil {
		return err
	}
	phy := object.Adopt(p.Session(), p.Object, object.Handle{Ref: phyRef})
	if _, err := phy.Attributes(ctx); err != nil {
		return err
	}
	p.activePhy = phy

	if !cfg.wait {
		return nil
	}
	return p.WaitForStates(ctx, cfg.timeout, "UP")
}

// Release gives the physical location back. Releasing an unreserved or
// offline port is a no-op.
func (p *Port) Release(ctx context.Context) error {
	if hostutil.IsLocalHost(p.location) {
		return nil
	}
	if _, err := p.Session().Perform(ctx, "ReleasePort", map[string]string{"PortList": p.Ref()}); err != nil {
		return fmt.Errorf("port: failed to release %s: %w", p.Ref(), err)
	}
	p.activePhy = nil
	return nil
}

// LinkStateTimeoutError reports that the link never reached one of the
// wanted states before the poll count ran out.
type LinkStateTimeoutError struct {
	States    []string
	LastState string
	Timeout   int
}

func (e *LinkStateTimeoutError) Error() string {
	return fmt.Sprintf("port: link state is %q, not one of %v after %d seconds",
		e.LastState, e.States, e.Timeout)
}

// WaitForStates polls the active phy's LinkStatus once per second until it
// matches one of the given states, for at most timeout polls.
func (p *Port) WaitForStates(ctx context.Context, timeout int, states ...string) error {
	if p.activePhy == nil {
		return ErrNoActivePhy
	}
	var last string
	for i := 0; i < timeout; i++ {
		status, err := p.activePhy.Attribute(ctx, "LinkStatus")
		if err != nil {
			return err
		}
		last = status
		for _, s := range states {
			if status == s {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.pollInterval):
		}
	}
	return &LinkStateTimeoutError{States: states, LastState: last, Timeout: timeout}
}

// IsOnline reports whether the link is up. The comparison ignores case, the
// chassis reports dialect-dependent casing.
func (p *Port) IsOnline(ctx context.Context) (bool, error) {
	if p.activePhy == nil {
		return false, ErrNoActivePhy
	}
	status, err := p.activePhy.Attribute(ctx, "LinkStatus")
	if err != nil {
		return false, err
	}
	return strings.EqualFold(status, "up"), nil
}

// IsRunning reports whether the port's generator is transmitting.
func (p *Port) IsRunning(ctx context.Context) (bool, error) {
	state, err := p.generator.State(ctx)
	if err != nil {
		return false, err
	}
	return state == "RUNNING", nil
}

// SetMediaType swaps the port's active phy, e.g. from "ethernetcopper" to
// "ethernetfiber". A matching phy type is a no-op. The previous phy object
// stays behind on the controller; only the binding moves.
func (p *Port) SetMediaType(ctx context.Context, mediaType string) error {
	if p.activePhy == nil {
		return ErrNoActivePhy
	}
	mediaType = strings.ToLower(mediaType)
	if p.activePhy.Type() == mediaType {
		return nil
	}
	phy, err := object.New(ctx, p.Session(), p.Object, mediaType, nil)
	if err != nil {
		return err
	}
	if err := p.SetAttributes(ctx, true, map[string]string{"ActivePhy-targets": phy.Ref()}); err != nil {
		return err
	}
	p.activePhy = phy
	return nil
}

// Location returns the physical location the port is configured for.
func (p *Port) Location() string {
	return p.location
}

// Generator returns the port's traffic generator.
func (p *Port) Generator() *Generator {
	return p.generator
}

// Name returns the port's name. The controller decorates names of detached
// ports with an " (offline)" suffix; that suffix is stripped.
func (p *Port) Name(ctx context.Context) (string, error) {
	name, err := p.Object.Name(ctx)
	if err != nil {
		return "", err
	}
	return offlineSuffix.ReplaceAllString(name, ""), nil
}

// Children returns the port's children, folding in the emulated devices that
// the controller parents under the project but that logically belong here.
func (p *Port) Children(ctx context.Context, types ...string) ([]*object.Object, error) {
	children, err := p.Object.Children(ctx, types...)
	if err != nil {
		return nil, err
	}
	wantDevices := len(types) == 0
	for _, t := range types {
		if strings.EqualFold(t, "emulateddevice") {
			wantDevices = true
		}
	}
	if !wantDevices {
		return children, nil
	}
	devices, err := p.project.DevicesOwnedBy(ctx, p.Handle())
	if err != nil {
		return nil, err
	}
	for _, d := range devices {
		children = append(children, d.Object)
	}
	return children, nil
}

// Devices returns the emulated devices of this port, keyed by device name.
func (p *Port) Devices(ctx context.Context) (map[string]*EmulatedDevice, error) {
	devices, err := p.project.DevicesOwnedBy(ctx, p.Handle())
	if err != nil {
		return nil, err
	}
	out := make(map[string]*EmulatedDevice, len(devices))
	for _, d := range devices {
		name, err := d.Name(ctx)
		if err != nil {
			return nil, err
		}
		out[name] = d
	}
	return out, nil
}

// StreamBlocks returns the port's stream blocks, keyed by name.
func (p *Port) StreamBlocks(ctx context.Context) (map[string]*object.Object, error) {
	blocks, err := p.ObjectsOrChildrenByType(ctx, "streamblock")
	if err != nil {
		return nil, err
	}
	out := make(map[string]*object.Object, len(blocks))
	for _, b := range blocks {
		name, err := b.Name(ctx)
		if err != nil {
			return nil, err
		}
		out[name] = b
	}
	return out, nil
}

// Start starts traffic on this port. With blocking the call returns only
// once the generator finished.
func (p *Port) Start(ctx context.Context, blocking bool) error {
	return p.project.StartPorts(ctx, blocking, p)
}

// Stop stops traffic on this port.
func (p *Port) Stop(ctx context.Context) error {
	return p.project.StopPorts(ctx, p)
}

// WaitTraffic blocks until the generator finished transmitting.
func (p *Port) WaitTraffic(ctx context.Context) error {
	return p.project.WaitTraffic(ctx, p)
}

// ClearResults resets all result counters of this port.
func (p *Port) ClearResults(ctx context.Context) error {
	return p.project.ClearResults(ctx, p)
}
