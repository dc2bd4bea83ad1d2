package pairing

import (
	"testing"
	"time"
)

// fixedClock returns a registry whose clock the test controls.
func fixedClock(r *Registry) *time.Time {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }
	return &now
}

func TestGenerateProducesDecimalCode(t *testing.T) {
	r := NewRegistry()
	code, err := r.Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(code.Value) != CodeLength {
		t.Errorf("expected %d digits, got %q", CodeLength, code.Value)
	}
	for _, c := range code.Value {
		if c < '0' || c > '9' {
			t.Errorf("non-decimal character in code %q", code.Value)
		}
	}
	if code.Used {
		t.Error("fresh code must not be marked used")
	}
}

func TestValidateWithinTTL(t *testing.T) {
	r := NewRegistry()
	now := fixedClock(r)

	code, err := r.Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !r.Validate(code.Value) {
		t.Error("fresh code must validate")
	}

	*now = now.Add(CodeTTL) // exactly at the boundary is still valid
	if !r.Validate(code.Value) {
		t.Error("code at exactly TTL must still validate")
	}

	*now = now.Add(time.Second)
	if r.Validate(code.Value) {
		t.Error("code past TTL must not validate")
	}
}

func TestValidateIsIdempotentOnLiveCode(t *testing.T) {
	r := NewRegistry()
	fixedClock(r)

	code, _ := r.Generate()
	for i := 0; i < 3; i++ {
		if !r.Validate(code.Value) {
			t.Fatalf("validate #%d failed on live code", i)
		}
	}
	if _, ok := r.Status(code.Value); !ok {
		t.Error("live code must remain stored after repeated validation")
	}
}

func TestValidateEvictsExpiredCode(t *testing.T) {
	r := NewRegistry()
	now := fixedClock(r)

	code, _ := r.Generate()
	*now = now.Add(CodeTTL + time.Minute)

	if r.Validate(code.Value) {
		t.Fatal("expired code validated")
	}
	if _, ok := r.Status(code.Value); ok {
		t.Error("expired code must be evicted after validation")
	}
}

func TestGenerateSweepsExpiredCodes(t *testing.T) {
	r := NewRegistry()
	now := fixedClock(r)

	old, _ := r.Generate()
	*now = now.Add(CodeTTL + time.Minute)

	fresh, _ := r.Generate()
	if _, ok := r.Status(old.Value); ok {
		t.Error("expired code must be swept by generate")
	}
	if _, ok := r.Status(fresh.Value); !ok {
		t.Error("fresh code must be stored")
	}
}

func TestGenerateNeverOverwritesLiveCode(t *testing.T) {
	r := NewRegistry()
	fixedClock(r)

	// With collisions resolved by redrawing, n generates leave n live codes.
	const n = 200
	for i := 0; i < n; i++ {
		if _, err := r.Generate(); err != nil {
			t.Fatalf("generate #%d: %v", i, err)
		}
	}
	if got := len(r.codes); got != n {
		t.Errorf("expected %d live codes, got %d", n, got)
	}
}

func TestCurrentFollowsLatestLiveCode(t *testing.T) {
	r := NewRegistry()
	now := fixedClock(r)

	if r.Current() != "" {
		t.Error("empty registry must have no current code")
	}

	first, _ := r.Generate()
	if r.Current() != first.Value {
		t.Errorf("current = %q, want %q", r.Current(), first.Value)
	}

	second, _ := r.Generate()
	if r.Current() != second.Value {
		t.Errorf("current = %q, want %q", r.Current(), second.Value)
	}

	*now = now.Add(CodeTTL + time.Second)
	if r.Current() != "" {
		t.Error("current must be empty once the latest code expired")
	}
}

func TestMarkUsedKeepsCodeValid(t *testing.T) {
	r := NewRegistry()
	fixedClock(r)

	code, _ := r.Generate()
	r.MarkUsed(code.Value, "Android Phone (phoneA)")

	status, ok := r.Status(code.Value)
	if !ok {
		t.Fatal("used code must remain stored")
	}
	if !status.Used || status.BoundDevice != "Android Phone (phoneA)" {
		t.Errorf("unexpected status after MarkUsed: %+v", status)
	}
	// Reuse before expiry is permitted; the used flag is informational.
	if !r.Validate(code.Value) {
		t.Error("used code must stay valid until TTL")
	}
}
