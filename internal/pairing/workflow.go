package pairing

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/codencytech/smartdesk-mirror/internal/sessions"
)

// Request statuses. A request transitions exactly once,
// pending → accepted or pending → rejected; terminal states are immutable.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Request is one pairing attempt from a mobile device.
type Request struct {
	ID         int64     `json:"id"`
	Code       string    `json:"code"`
	DeviceInfo string    `json:"device_info"`
	Timestamp  time.Time `json:"timestamp"`
	Status     string    `json:"status"`
}

// Workflow turns submitted codes into connection requests and operator
// decisions into sessions.
type Workflow struct {
	registry *Registry
	store    *sessions.Store

	mu       sync.Mutex
	requests []*Request
	nextID   atomic.Int64
}

// NewWorkflow creates a workflow backed by the given registry and session store.
func NewWorkflow(registry *Registry, store *sessions.Store) *Workflow {
	return &Workflow{
		registry: registry,
		store:    store,
	}
}

// Submit validates the code and queues a pending connection request.
// Returns the allocated request ID, or ErrInvalidCode.
func (w *Workflow) Submit(code, deviceInfo string) (int64, error) {
	if !w.registry.Validate(code) {
		return 0, ErrInvalidCode
	}

	req := &Request{
		ID:         w.nextID.Add(1) - 1,
		Code:       code,
		DeviceInfo: deviceInfo,
		Timestamp:  time.Now(),
		Status:     StatusPending,
	}

	w.mu.Lock()
	w.requests = append(w.requests, req)
	w.mu.Unlock()

	slog.Info("connection request queued", "id", req.ID, "device", deviceInfo)
	return req.ID, nil
}

// Decide resolves a pending request. On acceptance the bound code is marked
// used and a session is created; on rejection the code stays usable until
// its TTL, so the device may submit again.
//
// A second decision on the same request is an error: re-applying the accept
// side effects would mint a duplicate session.
func (w *Workflow) Decide(id int64, accepted bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	req := w.findLocked(id)
	if req == nil {
		return fmt.Errorf("%w: %d", ErrRequestNotFound, id)
	}
	if req.Status != StatusPending {
		return fmt.Errorf("%w: %d is %s", ErrAlreadyDecided, id, req.Status)
	}

	if !accepted {
		req.Status = StatusRejected
		slog.Info("connection rejected", "id", id, "device", req.DeviceInfo)
		return nil
	}

	req.Status = StatusAccepted
	w.registry.MarkUsed(req.Code, req.DeviceInfo)
	w.store.Add(sessions.Session{
		DeviceInfo:  req.DeviceInfo,
		Code:        req.Code,
		ConnectedAt: time.Now(),
	})
	slog.Info("connection accepted", "id", id, "device", req.DeviceInfo)
	return nil
}

// Pending returns all requests still awaiting a decision, in insertion order.
func (w *Workflow) Pending() []Request {
	w.mu.Lock()
	defer w.mu.Unlock()

	var out []Request
	for _, req := range w.requests {
		if req.Status == StatusPending {
			out = append(out, *req)
		}
	}
	return out
}

func (w *Workflow) findLocked(id int64) *Request {
	for _, req := range w.requests {
		if req.ID == id {
			return req
		}
	}
	return nil
}
