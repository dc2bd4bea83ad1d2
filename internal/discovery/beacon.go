// Package discovery implements LAN auto-discovery: a UDP beacon on the
// host answering probe broadcasts, and the client-side probe that finds
// hosts. The exchange runs on its own port, separate from the HTTP API.
package discovery

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/codencytech/smartdesk-mirror/pkg/protocol"
)

// readPollInterval bounds how long a blocked read outlives Stop even if
// closing the socket were delayed.
const readPollInterval = time.Second

// CodeSource supplies the currently advertised pairing code ("" if none).
type CodeSource func() string

// Beacon answers discovery probes with the host identity and the currently
// active pairing code. Stopped -> Running -> Stopped.
type Beacon struct {
	port        int
	servicePort int
	hostName    string
	code        CodeSource

	mu      sync.Mutex
	running bool
	conn    *net.UDPConn
	done    chan struct{}
}

// NewBeacon creates a beacon listening on port (0 picks an ephemeral port,
// used by tests). servicePort and hostName are advertised in replies.
func NewBeacon(port, servicePort int, hostName string, code CodeSource) *Beacon {
	return &Beacon{
		port:        port,
		servicePort: servicePort,
		hostName:    hostName,
		code:        code,
	}
}

// Start begins answering probes in a background goroutine.
func (b *Beacon) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.running {
		return nil
	}

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: b.port})
	if err != nil {
		return err
	}

	b.conn = conn
	b.done = make(chan struct{})
	b.running = true

	go b.serve(conn, b.done)
	slog.Info("discovery beacon started", "addr", conn.LocalAddr())
	return nil
}

// Stop closes the listening socket, which unblocks the receive loop
// immediately, and waits for the loop to exit.
func (b *Beacon) Stop() {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return
	}
	b.running = false
	conn, done := b.conn, b.done
	b.conn = nil
	b.mu.Unlock()

	conn.Close()
	<-done
	slog.Info("discovery beacon stopped")
}

// Running reports whether the beacon is answering probes.
func (b *Beacon) Running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.running
}

// Addr returns the bound listen address, or nil when stopped.
func (b *Beacon) Addr() net.Addr {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == nil {
		return nil
	}
	return b.conn.LocalAddr()
}

func (b *Beacon) serve(conn *net.UDPConn, done chan struct{}) {
	defer close(done)

	buf := make([]byte, 1024)
	for {
		conn.SetReadDeadline(time.Now().Add(readPollInterval))
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			slog.Warn("discovery read failed", "error", err)
			continue
		}

		if string(buf[:n]) != protocol.DiscoveryProbe {
			continue
		}

		// Reply off the read loop so a slow peer cannot delay later probes.
		go b.reply(conn, addr)
	}
}

func (b *Beacon) reply(conn *net.UDPConn, addr *net.UDPAddr) {
	ann := protocol.Announcement{
		Type: protocol.AnnouncementType,
		IP:   LocalIP(),
		Port: b.servicePort,
		Code: b.code(),
		Name: b.hostName,
	}

	data, err := json.Marshal(ann)
	if err != nil {
		slog.Warn("discovery reply marshal failed", "error", err)
		return
	}
	if _, err := conn.WriteToUDP(data, addr); err != nil {
		slog.Warn("discovery reply send failed", "peer", addr, "error", err)
		return
	}
	slog.Debug("discovery probe answered", "peer", addr)
}
