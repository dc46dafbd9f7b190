// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package port

import (
	"context"

	"github.com/ironcore-dev/tgen-client/internal/object"
)

// EmulatedDevice is a protocol endpoint emulated on a test port. On the
// controller these are children of the project; the owning port is recorded
// as a relation attribute instead.
type EmulatedDevice struct {
	*object.Object
}

// AsDevice wraps an already adopted emulateddevice proxy.
func AsDevice(o *object.Object) *EmulatedDevice {
	return &EmulatedDevice{Object: o}
}

// OwnerRef returns the reference of the port this device is affiliated with.
func (d *EmulatedDevice) OwnerRef(ctx context.Context) (string, error) {
	return d.Attribute(ctx, "AffiliationPort-targets")
}
