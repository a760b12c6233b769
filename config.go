// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wtransport

import (
	"crypto/tls"
	"net"

	"github.com/quic-go/quic-go"
)

// DualStackConfig selects how a bound socket handles the IPV6_V6ONLY flag.
// It only has an effect when binding an IPv6 address; applying it to an
// IPv4 bind address is still attempted and its effect is platform-defined.
type DualStackConfig int

const (
	// DualStackOsDefault leaves the IPV6_V6ONLY flag untouched.
	DualStackOsDefault DualStackConfig = iota
	// DualStackDeny sets IPV6_V6ONLY, rejecting IPv4-mapped traffic.
	DualStackDeny
	// DualStackAllow clears IPV6_V6ONLY, accepting IPv4-mapped traffic.
	DualStackAllow
)

// ServerConfig configures a ServerEndpoint.
type ServerConfig struct {
	// BindAddress is the local address the endpoint's UDP socket binds to.
	BindAddress *net.UDPAddr
	// DualStack selects the IPV6_V6ONLY policy applied to BindAddress.
	DualStack DualStackConfig
	// QUICConfig is passed verbatim to the QUIC transport.
	QUICConfig *quic.Config
	// TLSCert is the server's certificate (CRT file, path or bytes).
	TLSCert CertFile
	// TLSKey is the server certificate's private key (KEY file, path or
	// bytes).
	TLSKey CertFile
}

// ClientConfig configures a ClientEndpoint.
type ClientConfig struct {
	// BindAddress is the local address the endpoint's UDP socket binds to.
	// The zero value binds an OS-chosen ephemeral port on all interfaces.
	BindAddress *net.UDPAddr
	// DualStack selects the IPV6_V6ONLY policy applied to BindAddress.
	DualStack DualStackConfig
	// QUICConfig is applied as the default per-connection QUIC
	// configuration for every Connect call.
	QUICConfig *quic.Config
	// TLSClientConfig configures the client's view of the peer's
	// certificate. If its NextProtos is empty, Connect fills in this
	// package's HTTP/3 ALPN list. The Connect call always sets ServerName
	// from the URL's host, so a ServerName set here is not used.
	TLSClientConfig *tls.Config
}
