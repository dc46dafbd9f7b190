// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

// Package object implements the client-side proxy for remote controller
// objects: reference identity, cached attributes with two-phase buffered
// writes, and parent/child graph bookkeeping.
package object

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	cp "github.com/felix-kaestner/copy"
	"github.com/go-logr/logr"

	"github.com/ironcore-dev/tgen-client/internal/session"
)

// Handle identifies one remote object: its type tag plus the opaque
// reference assigned by the controller. Handles are the equality and map key
// for proxies everywhere; attribute content never takes part in identity.
type Handle struct {
	Type string
	Ref  string
}

func (h Handle) String() string {
	return h.Ref
}

// TypeFromRef derives the object type from a controller reference.
// References are the lowercase type name followed by a numeric suffix,
// e.g. "port1" or "ethernetcopper3".
func TypeFromRef(ref string) string {
	return strings.ToLower(strings.TrimRight(ref, "0123456789"))
}

// Object is a proxy for one remote object. Attribute reads go to the
// controller and refresh a last-known cache; writes are buffered locally
// until flushed. Child proxies are owned by their parent for as long as the
// parent lives; there is no teardown besides whatever the remote side does.
type Object struct {
	handle Handle
	sess   session.Session
	parent *Object
	logger logr.Logger

	// last-known attribute values, may be stale
	attrs map[string]string
	// buffered writes, invisible remotely until Flush
	pending map[string]string

	children   []*Object
	childRefs  map[string]struct{}
	byType     map[string][]*Object
	fetched    map[string]bool
	fetchedAll bool
}

type Option func(*Object)

// WithLogger sets a custom logger for the proxy.
func WithLogger(logger logr.Logger) Option {
	return func(o *Object) {
		o.logger = logger
	}
}

// New creates a new remote object of the given type under parent and returns
// its proxy. A nil parent creates a root object. The initial attributes are
// sent with the create call and seed the local cache.
func New(ctx context.Context, sess session.Session, parent *Object, objType string, attrs map[string]string, opts ...Option) (*Object, error) {
	parentRef := ""
	if parent != nil {
		parentRef = parent.Ref()
	}
	ref, err := sess.Create(ctx, objType, parentRef, attrs)
	if err != nil {
		return nil, fmt.Errorf("object: failed to create %s under %q: %w", objType, parentRef, err)
	}
	o := Adopt(sess, parent, Handle{Type: strings.ToLower(objType), Ref: ref}, opts...)
	for k, v := range attrs {
		o.attrs[k] = v
	}
	return o, nil
}

// Adopt wraps a pre-existing remote object without any remote call. The
// handle's reference must already be valid on the controller.
func Adopt(sess session.Session, parent *Object, handle Handle, opts ...Option) *Object {
	if handle.Type == "" {
		handle.Type = TypeFromRef(handle.Ref)
	}
	handle.Type = strings.ToLower(handle.Type)

	o := &Object{
		handle:    handle,
		sess:      sess,
		parent:    parent,
		logger:    logr.FromSlogHandler(slog.Default().Handler()),
		attrs:     make(map[string]string),
		pending:   make(map[string]string),
		childRefs: make(map[string]struct{}),
		byType:    make(map[string][]*Object),
		fetched:   make(map[string]bool),
	}
	if parent != nil {
		o.logger = parent.logger
	}
	for _, opt := range opts {
		opt(o)
	}
	if parent != nil {
		parent.register(o)
	}
	return o
}

// register records a child and indexes it by type on every ancestor, so that
// subtree-wide type lookups work from any level of the tree.
func (o *Object) register(child *Object) {
	if _, ok := o.childRefs[child.Ref()]; ok {
		return
	}
	o.children = append(o.children, child)
	o.childRefs[child.Ref()] = struct{}{}
	for a := o; a != nil; a = a.parent {
		a.byType[child.Type()] = append(a.byType[child.Type()], child)
	}
}

func (o *Object) Handle() Handle           { return o.handle }
func (o *Object) Type() string             { return o.handle.Type }
func (o *Object) Ref() string              { return o.handle.Ref }
func (o *Object) Parent() *Object          { return o.parent }
func (o *Object) Session() session.Session { return o.sess }

// Attribute fetches a single scalar attribute from the controller and
// refreshes the local cache entry.
func (o *Object) Attribute(ctx context.Context, name string) (string, error) {
	v, err := o.sess.Get(ctx, o.Ref(), name)
	if err != nil {
		return "", fmt.Errorf("object: failed to read %s of %s: %w", name, o.Ref(), err)
	}
	o.attrs[name] = v
	return v, nil
}

// Attributes fetches all attributes from the controller, replaces the local
// cache and returns a deep copy of it so callers cannot alias the cache.
func (o *Object) Attributes(ctx context.Context) (map[string]string, error) {
	attrs, err := o.sess.GetAll(ctx, o.Ref())
	if err != nil {
		return nil, fmt.Errorf("object: failed to read attributes of %s: %w", o.Ref(), err)
	}
	o.attrs = attrs
	return cp.Deep(attrs), nil
}

// SetAttributes stages attribute writes. When apply is true the staged
// writes, including any previously buffered ones, are flushed immediately.
// Otherwise they stay invisible to the controller until Flush is called.
// Within a batch the last write per attribute name wins.
func (o *Object) SetAttributes(ctx context.Context, apply bool, attrs map[string]string) error {
	for k, v := range attrs {
		o.pending[k] = v
	}
	if !apply {
		return nil
	}
	return o.Flush(ctx)
}

// AppendAttribute appends a value to an accumulating, space-separated list
// attribute. The append is buffered like any other write; a missing remote
// attribute counts as an empty list.
func (o *Object) AppendAttribute(ctx context.Context, name, value string) error {
	current, ok := o.pending[name]
	if !ok {
		v, err := o.Attribute(ctx, name)
		if err != nil && !errors.Is(err, session.ErrNotFound) {
			return err
		}
		current = v
	}
	if current == "" {
		o.pending[name] = value
	} else {
		o.pending[name] = current + " " + value
	}
	return nil
}

// Flush commits the buffered writes with a single set followed by an apply.
// It is a no-op when nothing is buffered.
func (o *Object) Flush(ctx context.Context) error {
	if len(o.pending) == 0 {
		return nil
	}
	if err := o.sess.Set(ctx, o.Ref(), o.pending); err != nil {
		return fmt.Errorf("object: failed to flush attributes of %s: %w", o.Ref(), err)
	}
	if err := o.sess.Apply(ctx); err != nil {
		return fmt.Errorf("object: failed to apply attributes of %s: %w", o.Ref(), err)
	}
	o.logger.V(1).Info("Flushed attributes", "ref", o.Ref(), "attrs", o.pending)
	for k, v := range o.pending {
		o.attrs[k] = v
	}
	o.pending = make(map[string]string)
	return nil
}

// Children returns the owned children filtered by the given types, querying
// the remote tree for each type not fetched before. Without type arguments
// all remote children are fetched and returned.
func (o *Object) Children(ctx context.Context, types ...string) ([]*Object, error) {
	if len(types) == 0 {
		if !o.fetchedAll {
			if err := o.fetchChildren(ctx, ""); err != nil {
				return nil, err
			}
			o.fetchedAll = true
		}
		return append([]*Object(nil), o.children...), nil
	}

	var out []*Object
	for _, t := range types {
		t = strings.ToLower(t)
		if !o.fetched[t] && !o.fetchedAll {
			if err := o.fetchChildren(ctx, t); err != nil {
				return nil, err
			}
			o.fetched[t] = true
		}
		for _, c := range o.children {
			if c.Type() == t {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (o *Object) fetchChildren(ctx context.Context, objType string) error {
	refs, err := o.sess.Children(ctx, o.Ref(), objType)
	if err != nil {
		return fmt.Errorf("object: failed to list %s children of %s: %w", objType, o.Ref(), err)
	}
	for _, ref := range refs {
		h := Handle{Type: objType, Ref: ref}
		if objType == "" {
			h.Type = TypeFromRef(ref)
		}
		Adopt(o.sess, o, h)
	}
	return nil
}

// ObjectsByType returns the locally known descendants of the given type, in
// registration order. It never queries the controller.
func (o *Object) ObjectsByType(objType string) []*Object {
	return append([]*Object(nil), o.byType[strings.ToLower(objType)]...)
}

// ObjectsOrChildrenByType returns the locally known descendants of the given
// type, falling back to a remote child query when none are known yet.
func (o *Object) ObjectsOrChildrenByType(ctx context.Context, objType string) ([]*Object, error) {
	if objs := o.ObjectsByType(objType); len(objs) > 0 {
		return objs, nil
	}
	return o.Children(ctx, objType)
}

// Name returns the object's Name attribute.
func (o *Object) Name(ctx context.Context) (string, error) {
	return o.Attribute(ctx, "Name")
}

// SendArpNS triggers ARP/ND resolution for the object.
func (o *Object) SendArpNS(ctx context.Context) error {
	if _, err := o.sess.Perform(ctx, "ArpNdStart", map[string]string{"HandleList": o.Ref()}); err != nil {
		return fmt.Errorf("object: failed to start ARP/ND on %s: %w", o.Ref(), err)
	}
	return nil
}

// ArpCache refreshes and returns the object's ARP/ND cache entries.
func (o *Object) ArpCache(ctx context.Context) ([]string, error) {
	if _, err := o.sess.Perform(ctx, "ArpNdUpdateArpCache", map[string]string{"HandleList": o.Ref()}); err != nil {
		return nil, fmt.Errorf("object: failed to refresh ARP/ND cache of %s: %w", o.Ref(), err)
	}
	caches, err := o.ObjectsOrChildrenByType(ctx, "arpcache")
	if err != nil {
		return nil, err
	}
	var entries []string
	for _, c := range caches {
		data, err := c.Attribute(ctx, "ArpCacheData")
		if err != nil {
			return nil, err
		}
		for _, line := range strings.Split(data, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				entries = append(entries, line)
			}
		}
	}
	return entries, nil
}
