// Package gateway is the authorization boundary between the HTTP surface
// and the platform providers. Every privileged operation passes through
// Authorize before any provider is invoked; provider results are returned
// verbatim, never reinterpreted.
package gateway

import (
	"encoding/json"
	"errors"

	"github.com/codencytech/smartdesk-mirror/internal/sessions"
	"github.com/codencytech/smartdesk-mirror/pkg/protocol"
)

// ErrUnauthorized is returned when no active session exists for the
// supplied code. The provider behind the call must not have run.
var ErrUnauthorized = errors.New("no active connection for code")

// FrameSource captures the screen as an image data URL.
type FrameSource interface {
	Capture() (string, error)
}

// Automation executes remote-control commands on the host.
type Automation interface {
	Execute(cmdType string, data json.RawMessage) (protocol.CommandResult, error)
	SystemInfo() (protocol.CommandResult, error)
}

// Metrics samples realtime system metrics.
type Metrics interface {
	Snapshot() (protocol.MetricsSnapshot, error)
}

// Gateway gates provider access on session state.
type Gateway struct {
	store      *sessions.Store
	frames     FrameSource
	automation Automation
	metrics    Metrics
}

// New creates a gateway over the given session store and providers.
func New(store *sessions.Store, frames FrameSource, automation Automation, metrics Metrics) *Gateway {
	return &Gateway{
		store:      store,
		frames:     frames,
		automation: automation,
		metrics:    metrics,
	}
}

// Authorize reports whether the code belongs to an active session.
func (g *Gateway) Authorize(code string) bool {
	return code != "" && g.store.IsActive(code)
}

// Screen captures one frame for an authorized session.
func (g *Gateway) Screen(code string) (string, error) {
	if !g.Authorize(code) {
		return "", ErrUnauthorized
	}
	return g.frames.Capture()
}

// Execute runs a remote-control command for an authorized session.
func (g *Gateway) Execute(code, cmdType string, data json.RawMessage) (protocol.CommandResult, error) {
	if !g.Authorize(code) {
		return protocol.CommandResult{}, ErrUnauthorized
	}
	return g.automation.Execute(cmdType, data)
}

// SystemInfo returns detailed host information for an authorized session.
func (g *Gateway) SystemInfo(code string) (protocol.CommandResult, error) {
	if !g.Authorize(code) {
		return protocol.CommandResult{}, ErrUnauthorized
	}
	return g.automation.SystemInfo()
}

// Metrics samples realtime metrics. The desktop UI calls this without a
// session, so it is deliberately not gated.
func (g *Gateway) Metrics() (protocol.MetricsSnapshot, error) {
	return g.metrics.Snapshot()
}
