// Copyright 2025 Kirill Scherba <kirill@scherba.ru>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wtransport

import (
	"context"
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// bindSocket creates a UDP socket bound to bindAddress, applying the given
// IPv6 dual-stack policy. See specification §4.1.
func bindSocket(bindAddress *net.UDPAddr, dualStack DualStackConfig) (*net.UDPConn, error) {
	if bindAddress == nil {
		bindAddress = &net.UDPAddr{}
	}

	lc := net.ListenConfig{}
	if dualStack != DualStackOsDefault {
		onlyV6 := dualStack == DualStackDeny
		lc.Control = func(_, _ string, c syscall.RawConn) error {
			var sockErr error
			if err := c.Control(func(fd uintptr) {
				sockErr = unix.SetsockoptInt(int(fd), unix.IPPROTO_IPV6, unix.IPV6_V6ONLY, boolToInt(onlyV6))
			}); err != nil {
				return err
			}
			return sockErr
		}
	}

	network := "udp4"
	if bindAddress.IP == nil || bindAddress.IP.To4() == nil {
		network = "udp"
	}
	if bindAddress.IP != nil && bindAddress.IP.To4() == nil {
		network = "udp6"
	}

	pc, err := lc.ListenPacket(context.Background(), network, bindAddress.String())
	if err != nil {
		return nil, err
	}

	return pc.(*net.UDPConn), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
