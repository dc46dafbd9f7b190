// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package port

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ironcore-dev/tgen-client/internal/object"
	"github.com/ironcore-dev/tgen-client/internal/session"
)

// fakeController backs a SessionMock with a small in-memory object tree:
// creates allocate sequential references per type, children and attributes
// are tracked, commands succeed without side effects.
type fakeController struct {
	*session.SessionMock

	mu      sync.Mutex
	counts  map[string]int
	parents map[string]string
	types   map[string]string
	attrs   map[string]map[string]string
}

func newFakeController() *fakeController {
	f := &fakeController{
		SessionMock: &session.SessionMock{},
		counts:      map[string]int{},
		parents:     map[string]string{},
		types:       map[string]string{},
		attrs:       map[string]map[string]string{},
	}
	f.CreateFunc = func(ctx context.Context, objType, parentRef string, attrs map[string]string) (string, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.counts[objType]++
		ref := fmt.Sprintf("%s%d", objType, f.counts[objType])
		f.parents[ref] = parentRef
		f.types[ref] = objType
		f.attrs[ref] = map[string]string{}
		for k, v := range attrs {
			f.attrs[ref][k] = v
		}
		return ref, nil
	}
	f.GetFunc = func(ctx context.Context, ref, attr string) (string, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		v, ok := f.attrs[ref][attr]
		if !ok {
			return "", session.ErrNotFound
		}
		return v, nil
	}
	f.GetAllFunc = func(ctx context.Context, ref string) (map[string]string, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		out := map[string]string{}
		for k, v := range f.attrs[ref] {
			out[k] = v
		}
		return out, nil
	}
	f.SetFunc = func(ctx context.Context, ref string, attrs map[string]string) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.attrs[ref] == nil {
			f.attrs[ref] = map[string]string{}
		}
		for k, v := range attrs {
			f.attrs[ref][k] = v
		}
		return nil
	}
	f.ApplyFunc = func(ctx context.Context) error { return nil }
	f.PerformFunc = func(ctx context.Context, command string, args map[string]string) (map[string]string, error) {
		return map[string]string{}, nil
	}
	f.ChildrenFunc = func(ctx context.Context, ref, objType string) ([]string, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var refs []string
		for r, p := range f.parents {
			if p == ref && (objType == "" || f.types[r] == objType) {
				refs = append(refs, r)
			}
		}
		return refs, nil
	}
	return f
}

func (f *fakeController) setAttr(ref, name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attrs[ref] == nil {
		f.attrs[ref] = map[string]string{}
	}
	f.attrs[ref][name] = value
}

type stubProject struct {
	devices []*EmulatedDevice

	started, stopped, waited, cleared int
}

func (s *stubProject) StartPorts(ctx context.Context, blocking bool, ports ...*Port) error {
	s.started += len(ports)
	return nil
}

func (s *stubProject) StopPorts(ctx context.Context, ports ...*Port) error {
	s.stopped += len(ports)
	return nil
}

func (s *stubProject) WaitTraffic(ctx context.Context, ports ...*Port) error {
	s.waited += len(ports)
	return nil
}

func (s *stubProject) ClearResults(ctx context.Context, ports ...*Port) error {
	s.cleared += len(ports)
	return nil
}

func (s *stubProject) DevicesOwnedBy(ctx context.Context, owner object.Handle) ([]*EmulatedDevice, error) {
	return s.devices, nil
}

func newTestPort(t *testing.T, f *fakeController, proj Project) *Port {
	t.Helper()
	root := object.Adopt(f.SessionMock, nil, object.Handle{Ref: "project1"})
	p, err := New(context.Background(), f.SessionMock, root, proj, WithName("P1"), WithPollInterval(time.Millisecond))
	if err != nil {
		t.Fatalf("failed to create port: %v", err)
	}
	return p
}

func TestNew_WiresGenerator(t *testing.T) {
	f := newFakeController()
	p := newTestPort(t, f, &stubProject{})

	if p.Generator() == nil || p.Generator().Config() == nil {
		t.Fatal("port is missing its generator wiring")
	}
	if p.Generator().Ref() != "generator1" {
		t.Fatalf("unexpected generator ref: %q", p.Generator().Ref())
	}
	if p.Generator().Config().Ref() != "generatorconfig1" {
		t.Fatalf("unexpected generator config ref: %q", p.Generator().Config().Ref())
	}
}

func TestReserve(t *testing.T) {
	f := newFakeController()
	p := newTestPort(t, f, &stubProject{})
	f.setAttr("port1", "activephy-Targets", "ethernetcopper1")
	f.setAttr("ethernetcopper1", "LinkStatus", "UP")

	if err := p.Reserve(context.Background(), WithLocation("10.0.0.1/1/1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	performs := f.PerformCalls()
	if len(performs) != 1 || performs[0].Command != "AttachPorts" {
		t.Fatalf("unexpected perform calls: %+v", performs)
	}
	args := performs[0].Args
	if args["PortList"] != "port1" || args["AutoConnect"] != "true" || args["RevokeOwner"] != "false" {
		t.Fatalf("unexpected attach arguments: %v", args)
	}
	// the location write must be committed before the attach
	if got := f.attrs["port1"]["Location"]; got != "10.0.0.1/1/1" {
		t.Fatalf("unexpected location: %q", got)
	}
	if p.Location() != "10.0.0.1/1/1" {
		t.Fatalf("unexpected cached location: %q", p.Location())
	}
}

func TestReserve_Force(t *testing.T) {
	f := newFakeController()
	p := newTestPort(t, f, &stubProject{})
	f.setAttr("port1", "activephy-Targets", "ethernetcopper1")
	f.setAttr("ethernetcopper1", "LinkStatus", "UP")

	if err := p.Reserve(context.Background(), WithLocation("10.0.0.1/1/1"), WithForce()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.PerformCalls()[0].Args["RevokeOwner"]; got != "true" {
		t.Fatalf("unexpected RevokeOwner: %q", got)
	}
}

func TestReserve_Offline(t *testing.T) {
	f := newFakeController()
	p := newTestPort(t, f, &stubProject{})

	if err := p.Reserve(context.Background(), WithLocation("Offline(1)/1/1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.PerformCalls()) != 0 || len(f.ApplyCalls()) != 0 || len(f.SetCalls()) != 0 {
		t.Fatal("offline reservation must not touch the controller")
	}
	if _, err := p.IsOnline(context.Background()); !errors.Is(err, ErrNoActivePhy) {
		t.Fatalf("unexpected error: got %v, want %v", err, ErrNoActivePhy)
	}
}

func TestReserve_ConfiguredLocation(t *testing.T) {
	f := newFakeController()
	p := newTestPort(t, f, &stubProject{})
	f.setAttr("port1", "Location", "10.0.0.9/2/3")
	f.setAttr("port1", "activephy-Targets", "ethernetcopper1")
	f.setAttr("ethernetcopper1", "LinkStatus", "UP")

	if err := p.Reserve(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Location() != "10.0.0.9/2/3" {
		t.Fatalf("unexpected location: %q", p.Location())
	}
}

func TestReserve_WaitsForLink(t *testing.T) {
	f := newFakeController()
	p := newTestPort(t, f, &stubProject{})
	f.setAttr("port1", "activephy-Targets", "ethernetcopper1")
	f.setAttr("ethernetcopper1", "LinkStatus", "DOWN")

	base := f.GetFunc
	polls := 0
	f.GetFunc = func(ctx context.Context, ref, attr string) (string, error) {
		if ref == "ethernetcopper1" && attr == "LinkStatus" {
			polls++
			if polls >= 3 {
				return "UP", nil
			}
			return "DOWN", nil
		}
		return base(ctx, ref, attr)
	}

	if err := p.Reserve(context.Background(), WithLocation("10.0.0.1/1/1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if polls != 3 {
		t.Fatalf("unexpected poll count: got %d, want 3", polls)
	}
}

func TestReserve_LinkTimeout(t *testing.T) {
	f := newFakeController()
	p := newTestPort(t, f, &stubProject{})
	f.setAttr("port1", "activephy-Targets", "ethernetcopper1")
	f.setAttr("ethernetcopper1", "LinkStatus", "ADMIN_DOWN")

	err := p.Reserve(context.Background(), WithLocation("10.0.0.1/1/1"), WithTimeout(3))
	var timeoutErr *LinkStateTimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("unexpected error: got %v, want LinkStateTimeoutError", err)
	}
	if timeoutErr.LastState != "ADMIN_DOWN" || timeoutErr.Timeout != 3 {
		t.Fatalf("unexpected timeout error: %+v", timeoutErr)
	}
}

func TestReserve_WithoutWait(t *testing.T) {
	f := newFakeController()
	p := newTestPort(t, f, &stubProject{})
	f.setAttr("port1", "activephy-Targets", "ethernetcopper1")
	f.setAttr("ethernetcopper1", "LinkStatus", "DOWN")

	if err := p.Reserve(context.Background(), WithLocation("10.0.0.1/1/1"), WithoutWait()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	online, err := p.IsOnline(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if online {
		t.Fatal("expected port to be offline")
	}
}

func TestRelease(t *testing.T) {
	f := newFakeController()
	p := newTestPort(t, f, &stubProject{})
	f.setAttr("port1", "activephy-Targets", "ethernetcopper1")
	f.setAttr("ethernetcopper1", "LinkStatus", "UP")

	if err := p.Reserve(context.Background(), WithLocation("10.0.0.1/1/1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Release(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	performs := f.PerformCalls()
	last := performs[len(performs)-1]
	if last.Command != "ReleasePort" || last.Args["PortList"] != "port1" {
		t.Fatalf("unexpected release call: %+v", last)
	}
	if _, err := p.IsOnline(context.Background()); !errors.Is(err, ErrNoActivePhy) {
		t.Fatal("release must unbind the active phy")
	}
}

func TestRelease_Offline(t *testing.T) {
	f := newFakeController()
	p := newTestPort(t, f, &stubProject{})

	if err := p.Reserve(context.Background(), WithLocation("Offline(1)/1/1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Release(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.PerformCalls()) != 0 {
		t.Fatal("offline release must not touch the controller")
	}
}

func TestIsOnline_IgnoresCase(t *testing.T) {
	f := newFakeController()
	p := newTestPort(t, f, &stubProject{})
	f.setAttr("port1", "activephy-Targets", "ethernetcopper1")
	f.setAttr("ethernetcopper1", "LinkStatus", "UP")

	if err := p.Reserve(context.Background(), WithLocation("10.0.0.1/1/1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, status := range []string{"UP", "Up", "up"} {
		f.setAttr("ethernetcopper1", "LinkStatus", status)
		online, err := p.IsOnline(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !online {
			t.Errorf("status %q: expected online", status)
		}
	}
	f.setAttr("ethernetcopper1", "LinkStatus", "DOWN")
	if online, _ := p.IsOnline(context.Background()); online {
		t.Error("status DOWN: expected offline")
	}
}

func TestIsRunning(t *testing.T) {
	f := newFakeController()
	p := newTestPort(t, f, &stubProject{})

	f.setAttr("generator1", "state", "RUNNING")
	running, err := p.IsRunning(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !running {
		t.Fatal("expected generator to be running")
	}

	f.setAttr("generator1", "state", "STOPPED")
	if running, _ := p.IsRunning(context.Background()); running {
		t.Fatal("expected generator to be stopped")
	}
}

func TestSetMediaType(t *testing.T) {
	f := newFakeController()
	p := newTestPort(t, f, &stubProject{})
	f.setAttr("port1", "activephy-Targets", "ethernetcopper1")
	f.setAttr("ethernetcopper1", "LinkStatus", "UP")

	if err := p.Reserve(context.Background(), WithLocation("10.0.0.1/1/1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// matching media type is a no-op
	creates := len(f.CreateCalls())
	if err := p.SetMediaType(context.Background(), "EthernetCopper"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.CreateCalls()) != creates {
		t.Fatal("matching media type must not create a phy")
	}

	if err := p.SetMediaType(context.Background(), "ethernetfiber"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.attrs["port1"]["ActivePhy-targets"]; got != "ethernetfiber1" {
		t.Fatalf("unexpected phy binding: %q", got)
	}
}

func TestSetMediaType_Unreserved(t *testing.T) {
	f := newFakeController()
	p := newTestPort(t, f, &stubProject{})

	if err := p.SetMediaType(context.Background(), "ethernetfiber"); !errors.Is(err, ErrNoActivePhy) {
		t.Fatalf("unexpected error: got %v, want %v", err, ErrNoActivePhy)
	}
}

func TestName_StripsOfflineSuffix(t *testing.T) {
	f := newFakeController()
	p := newTestPort(t, f, &stubProject{})

	tests := []struct {
		raw  string
		want string
	}{
		{"Port //1/1 (offline)", "Port //1/1"},
		{"Port //1/1", "Port //1/1"},
		{"(offline) Port", "(offline) Port"},
	}
	for _, tt := range tests {
		f.setAttr("port1", "Name", tt.raw)
		got, err := p.Name(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != tt.want {
			t.Errorf("Name(%q): got %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestChildren_MergesEmulatedDevices(t *testing.T) {
	f := newFakeController()
	proj := &stubProject{}
	p := newTestPort(t, f, proj)

	dev := AsDevice(object.Adopt(f.SessionMock, nil, object.Handle{Ref: "emulateddevice1"}))
	proj.devices = []*EmulatedDevice{dev}

	children, err := p.Children(context.Background(), "emulateddevice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(children) != 1 || children[0].Ref() != "emulateddevice1" {
		t.Fatalf("unexpected children: %v", children)
	}

	// other types bypass the project entirely
	blocks, err := p.Children(context.Background(), "streamblock")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 0 {
		t.Fatalf("unexpected stream blocks: %v", blocks)
	}
}

func TestDevices(t *testing.T) {
	f := newFakeController()
	proj := &stubProject{}
	p := newTestPort(t, f, proj)

	f.setAttr("emulateddevice1", "Name", "Device 1")
	dev := AsDevice(object.Adopt(f.SessionMock, nil, object.Handle{Ref: "emulateddevice1"}))
	proj.devices = []*EmulatedDevice{dev}

	devices, err := p.Devices(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(devices) != 1 || devices["Device 1"] != dev {
		t.Fatalf("unexpected devices: %v", devices)
	}
}

func TestStreamBlocks(t *testing.T) {
	f := newFakeController()
	p := newTestPort(t, f, &stubProject{})

	if _, err := f.CreateFunc(context.Background(), "streamblock", "port1", map[string]string{"Name": "SB1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	blocks, err := p.StreamBlocks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blocks) != 1 || blocks["SB1"] == nil {
		t.Fatalf("unexpected stream blocks: %v", blocks)
	}
}

func TestTrafficDelegation(t *testing.T) {
	f := newFakeController()
	proj := &stubProject{}
	p := newTestPort(t, f, proj)

	if err := p.Start(context.Background(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.WaitTraffic(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.ClearResults(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proj.started != 1 || proj.stopped != 1 || proj.waited != 1 || proj.cleared != 1 {
		t.Fatalf("unexpected delegation counts: %+v", proj)
	}
}

func TestGenerator_ForwardsConfig(t *testing.T) {
	f := newFakeController()
	p := newTestPort(t, f, &stubProject{})

	gen := p.Generator()
	if err := gen.SetAttributes(context.Background(), true, map[string]string{"DurationMode": "SECONDS", "Duration": "10"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.attrs["generatorconfig1"]["DurationMode"]; got != "SECONDS" {
		t.Fatalf("unexpected config attribute: %q", got)
	}
	if _, ok := f.attrs["generator1"]["DurationMode"]; ok {
		t.Fatal("config write leaked onto the generator itself")
	}

	f.setAttr("generator1", "state", "STOPPED")
	state, err := gen.State(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state != "STOPPED" {
		t.Fatalf("unexpected state: %q", state)
	}
}
