// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ips parses listen and peer endpoints. Unlike a naive
// strings.Cut(s, ":"), netip.ParseAddrPort already understands bracketed
// IPv6 literals like "[::1]:8080", which is what state-history-endpoint
// and incoming connections' remote addresses both need.
package ips

import "net/netip"

// ParseAddrPort returns the IP:port address from the provided string. If the
// string represents an IPv4 address in an IPv6 address, the IPv4 address is
// returned.
func ParseAddrPort(s string) (netip.AddrPort, error) {
	addrPort, err := netip.ParseAddrPort(s)
	if err != nil {
		return netip.AddrPort{}, err
	}
	addr := addrPort.Addr()
	if addr.Is4In6() {
		addrPort = netip.AddrPortFrom(
			addr.Unmap(),
			addrPort.Port(),
		)
	}
	return addrPort, nil
}
