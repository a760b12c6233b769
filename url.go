// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wtransport

import (
	"context"
	"net"
	"net/url"
)

// lookupIPAddr is a package-level seam so tests can stub DNS resolution
// without touching the network, the same pattern used throughout the
// pack's quic-go-based HTTP/3 clients to swap out dial/listen functions in
// tests.
var lookupIPAddr = net.DefaultResolver.LookupIPAddr

// resolvedTarget is the outcome of resolving a WebTransport URL: the socket
// address to dial and the server name to present over TLS.
type resolvedTarget struct {
	addr       *net.UDPAddr
	serverName string
}

// parseWebTransportURL validates rawURL per specification §6: it must parse
// and carry the "https" scheme.
func parseWebTransportURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &InvalidURLError{Detail: err.Error()}
	}
	if u.Scheme != "https" {
		return nil, &InvalidURLError{Detail: "WebTransport URL scheme must be 'https'"}
	}
	if u.Hostname() == "" {
		return nil, &InvalidURLError{Detail: "WebTransport URL must have a host"}
	}
	return u, nil
}

// resolveTarget resolves a parsed WebTransport URL to a dial address and TLS
// server name, per specification §4.3 step "Resolve".
func resolveTarget(ctx context.Context, u *url.URL) (*resolvedTarget, error) {
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "443"
	}

	if ip := net.ParseIP(host); ip != nil {
		addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(host, port))
		if err != nil {
			return nil, &DNSLookupError{Err: err}
		}
		return &resolvedTarget{addr: addr, serverName: host}, nil
	}

	addrs, err := lookupIPAddr(ctx, host)
	if err != nil {
		return nil, &DNSLookupError{Err: err}
	}
	if len(addrs) == 0 {
		return nil, ErrDNSNotFound
	}

	portNum, err := net.LookupPort("udp", port)
	if err != nil {
		return nil, &DNSLookupError{Err: err}
	}

	return &resolvedTarget{
		addr:       &net.UDPAddr{IP: addrs[0].IP, Port: portNum, Zone: addrs[0].Zone},
		serverName: host,
	}, nil
}
