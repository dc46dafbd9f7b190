// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

// Package hostutil decides whether a port location addresses a local
// (loopback/offline) resource. Local locations never need a chassis
// reservation round trip.
package hostutil

import (
	"net"
	"strings"
)

// IsLocalHost reports whether the given port location names a local resource.
// Locations have the form "host/slot/port"; a bare host string is accepted as
// well. Empty locations, offline chassis placeholders and loopback addresses
// all count as local.
func IsLocalHost(location string) bool {
	if location == "" {
		return true
	}

	l := strings.ToLower(location)
	if strings.Contains(l, "offline") || strings.Contains(l, "null") {
		return true
	}

	host := l
	if i := strings.IndexByte(l, '/'); i >= 0 {
		host = l[:i]
	}
	if host == "" || host == "localhost" {
		return true
	}

	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback()
	}
	return false
}
