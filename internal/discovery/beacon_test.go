package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/codencytech/smartdesk-mirror/pkg/protocol"
)

func startTestBeacon(t *testing.T, code string) (*Beacon, string) {
	t.Helper()
	b := NewBeacon(0, 8000, "testhost", func() string { return code })
	if err := b.Start(); err != nil {
		t.Fatalf("start beacon: %v", err)
	}
	t.Cleanup(b.Stop)

	port := b.Addr().(*net.UDPAddr).Port
	return b, fmt.Sprintf("127.0.0.1:%d", port)
}

func dialBeacon(t *testing.T, addr string) *net.UDPConn {
	t.Helper()
	target, err := net.ResolveUDPAddr("udp4", addr)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	conn, err := net.DialUDP("udp4", nil, target)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBeaconAnswersProbe(t *testing.T) {
	_, addr := startTestBeacon(t, "048213")
	conn := dialBeacon(t, addr)

	if _, err := conn.Write([]byte(protocol.DiscoveryProbe)); err != nil {
		t.Fatalf("send probe: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 2048)
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}

	var ann protocol.Announcement
	if err := json.Unmarshal(buf[:n], &ann); err != nil {
		t.Fatalf("unmarshal reply: %v", err)
	}
	if ann.Type != protocol.AnnouncementType {
		t.Errorf("type = %q, want %q", ann.Type, protocol.AnnouncementType)
	}
	if ann.Code != "048213" {
		t.Errorf("code = %q, want the currently live code", ann.Code)
	}
	if ann.Name != "testhost" || ann.Port != 8000 {
		t.Errorf("host identity wrong: %+v", ann)
	}
}

func TestBeaconIgnoresWrongPayload(t *testing.T) {
	_, addr := startTestBeacon(t, "048213")
	conn := dialBeacon(t, addr)

	if _, err := conn.Write([]byte("NOT_THE_SENTINEL")); err != nil {
		t.Fatalf("send: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	buf := make([]byte, 2048)
	if n, err := conn.Read(buf); err == nil {
		t.Errorf("unexpected reply to wrong payload: %q", buf[:n])
	}
}

func TestBeaconStopIsPrompt(t *testing.T) {
	b, _ := startTestBeacon(t, "")

	start := time.Now()
	b.Stop()
	if elapsed := time.Since(start); elapsed > readPollInterval {
		t.Errorf("stop took %v, want well under the poll interval", elapsed)
	}
	if b.Running() {
		t.Error("beacon must report stopped")
	}

	// Stop is idempotent.
	b.Stop()
}

func TestProbeCollectsAnnouncements(t *testing.T) {
	_, addr := startTestBeacon(t, "314159")

	found, err := Probe(context.Background(), addr, 500*time.Millisecond)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("expected 1 announcement, got %d", len(found))
	}
	if found[0].Code != "314159" {
		t.Errorf("code = %q, want %q", found[0].Code, "314159")
	}
}

func TestProbeTimesOutEmpty(t *testing.T) {
	// Nothing listens on this address; the probe must return empty at the
	// timeout, not block.
	start := time.Now()
	found, err := Probe(context.Background(), "127.0.0.1:1", 300*time.Millisecond)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if len(found) != 0 {
		t.Errorf("expected no announcements, got %d", len(found))
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("probe blocked for %v past its timeout", elapsed)
	}
}
