// Package pairing implements the device pairing protocol.
//
// A mobile client pairs with the host in three steps:
//  1. The host generates a short numeric code (shown as text and QR)
//  2. The client submits the code together with its device info, which
//     queues a connection request
//  3. The desktop operator accepts or rejects the request; acceptance
//     creates an active session
//
// Codes are 6 decimal digits and expire after 10 minutes. Expired codes are
// swept lazily: on every Generate, and on Validate when the checked code
// itself has expired.
package pairing

import (
	"crypto/rand"
	"log/slog"
	"sync"
	"time"
)

const (
	// CodeAlphabet is the set of characters a pairing code is drawn from.
	CodeAlphabet = "0123456789"
	// CodeLength is the number of characters in a pairing code.
	CodeLength = 6
	// CodeTTL is how long a pairing code remains valid.
	CodeTTL = 10 * time.Minute

	// generateAttempts bounds the redraws when a fresh code collides with a
	// live one. With a 10^6 space and a handful of live codes the loop
	// practically never retries.
	generateAttempts = 100
)

// Code is a stored pairing code.
type Code struct {
	Value       string    `json:"value"`
	CreatedAt   time.Time `json:"created_at"`
	Used        bool      `json:"used"`
	BoundDevice string    `json:"bound_device,omitempty"`
}

// Registry issues, stores and expires pairing codes.
//
// Several non-expired codes may be live at once; exactly one of them is the
// "current" code advertised by the discovery beacon.
type Registry struct {
	mu      sync.Mutex
	codes   map[string]*Code
	current string
	now     func() time.Time // overridable in tests
}

// NewRegistry creates an empty code registry.
func NewRegistry() *Registry {
	return &Registry{
		codes: make(map[string]*Code),
		now:   time.Now,
	}
}

// Generate draws a fresh code, stores it and makes it the current code.
// Codes that collide with a live entry are redrawn rather than overwriting
// it: the live code may already be on someone's screen.
// As a side effect, any other expired codes are evicted.
func (r *Registry) Generate() (Code, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweepLocked(now)

	var value string
	for i := 0; ; i++ {
		if i == generateAttempts {
			return Code{}, ErrCodeSpaceExhausted
		}
		value = randomCode()
		if _, taken := r.codes[value]; !taken {
			break
		}
	}

	c := &Code{Value: value, CreatedAt: now}
	r.codes[value] = c
	r.current = value

	slog.Info("pairing code generated", "code", value, "ttl", CodeTTL)
	return *c, nil
}

// Validate reports whether the code exists and has not expired.
// A found-but-expired code is evicted; a live code is left untouched.
func (r *Registry) Validate(value string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.codes[value]
	if !ok {
		return false
	}
	if r.now().Sub(c.CreatedAt) > CodeTTL {
		r.evictLocked(value)
		return false
	}
	return true
}

// Status returns a snapshot of the stored code, if present.
func (r *Registry) Status(value string) (Code, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.codes[value]
	if !ok {
		return Code{}, false
	}
	return *c, true
}

// Current returns the most recently generated code if it is still live,
// otherwise "". The discovery beacon advertises this value.
func (r *Registry) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.codes[r.current]
	if !ok || r.now().Sub(c.CreatedAt) > CodeTTL {
		return ""
	}
	return r.current
}

// MarkUsed records that a code backed an accepted connection request.
// The code stays validatable until its TTL: the operator may approve a
// second device with the same code before it expires.
func (r *Registry) MarkUsed(value, device string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.codes[value]; ok {
		c.Used = true
		c.BoundDevice = device
	}
}

// --- Internal ---

func (r *Registry) sweepLocked(now time.Time) {
	for value, c := range r.codes {
		if now.Sub(c.CreatedAt) > CodeTTL {
			r.evictLocked(value)
		}
	}
}

func (r *Registry) evictLocked(value string) {
	delete(r.codes, value)
	if r.current == value {
		r.current = ""
	}
}

func randomCode() string {
	b := make([]byte, CodeLength)
	rand.Read(b)
	code := make([]byte, CodeLength)
	for i := range code {
		code[i] = CodeAlphabet[int(b[i])%len(CodeAlphabet)]
	}
	return string(code)
}
