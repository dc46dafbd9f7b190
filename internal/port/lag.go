// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package port

import (
	"context"

	"github.com/ironcore-dev/tgen-client/internal/object"
	"github.com/ironcore-dev/tgen-client/internal/session"
)

// Lag is a link aggregation group. It is a composite: a synthetic port that
// carries the aggregate traffic, a lag object beneath it holding the member
// set, and an LACP group configuration.
type Lag struct {
	*Port

	lag *object.Object
}

// NewLag creates a LAG with the given name under parent. Member ports are
// added separately with AddPorts.
func NewLag(ctx context.Context, sess session.Session, parent *object.Object, project Project, name string, opts ...Option) (*Lag, error) {
	p, err := New(ctx, sess, parent, project, append(opts, WithName(name))...)
	if err != nil {
		return nil, err
	}
	lag, err := object.New(ctx, sess, p.Object, "lag", nil)
	if err != nil {
		return nil, err
	}
	if _, err := object.New(ctx, sess, lag, "lacpgroupconfig", nil); err != nil {
		return nil, err
	}
	return &Lag{Port: p, lag: lag}, nil
}

// Lag exposes the underlying lag object holding the member set.
func (l *Lag) Lag() *object.Object {
	return l.lag
}

// AddPorts appends member ports to the group and gives each an LACP port
// configuration. The member set accumulates across calls; all appends of one
// call are committed with a single flush.
func (l *Lag) AddPorts(ctx context.Context, ports ...*Port) error {
	for _, p := range ports {
		if err := l.lag.AppendAttribute(ctx, "PortSetMember-targets", p.Ref()); err != nil {
			return err
		}
		if _, err := object.New(ctx, l.Session(), p.Object, "lacpportconfig", nil); err != nil {
			return err
		}
	}
	return l.lag.Flush(ctx)
}
