package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/codencytech/smartdesk-mirror/pkg/protocol"
)

// BroadcastAddr returns the all-hosts broadcast target for a discovery port.
func BroadcastAddr(port int) string {
	return fmt.Sprintf("255.255.255.255:%d", port)
}

// Probe sends the discovery sentinel to addr (normally BroadcastAddr) and
// collects announcements until the timeout elapses or ctx is cancelled.
// It returns whatever arrived, possibly nothing; it never blocks past the
// timeout.
func Probe(ctx context.Context, addr string, timeout time.Duration) ([]protocol.Announcement, error) {
	target, err := net.ResolveUDPAddr("udp4", addr)
	if err != nil {
		return nil, fmt.Errorf("discovery: resolve %s: %w", addr, err)
	}

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{})
	if err != nil {
		return nil, fmt.Errorf("discovery: listen: %w", err)
	}
	defer conn.Close()

	if ctx.Done() != nil {
		stop := context.AfterFunc(ctx, func() { conn.Close() })
		defer stop()
	}

	if _, err := conn.WriteToUDP([]byte(protocol.DiscoveryProbe), target); err != nil {
		return nil, fmt.Errorf("discovery: send probe: %w", err)
	}

	deadline := time.Now().Add(timeout)
	conn.SetReadDeadline(deadline)

	var found []protocol.Announcement
	buf := make([]byte, 2048)
	for {
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			// Deadline or cancellation ends collection; whatever arrived
			// so far is the result.
			if ctx.Err() != nil {
				return found, ctx.Err()
			}
			return found, nil
		}

		var ann protocol.Announcement
		if err := json.Unmarshal(buf[:n], &ann); err != nil {
			continue
		}
		if ann.Type != protocol.AnnouncementType {
			continue
		}
		found = append(found, ann)
	}
}

// LocalIP returns the primary outbound IPv4 address of this machine, or
// 127.0.0.1 when it cannot be determined. No packets are sent; the dial
// only resolves which interface would route externally.
func LocalIP() string {
	conn, err := net.Dial("udp4", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}
