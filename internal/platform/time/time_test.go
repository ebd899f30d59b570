package time

import (
	"testing"
	"time"
)

func TestPtrDeref(t *testing.T) {
	if Ptr(time.Time{}) != nil {
		t.Fatalf("Ptr(zero) should be nil")
	}
	now := time.Date(2025, 3, 1, 9, 5, 0, 0, time.UTC)
	p := Ptr(now)
	if p == nil || !p.Equal(now) {
		t.Fatalf("Ptr(now) = %v", p)
	}
	if !Deref(p).Equal(now) {
		t.Fatalf("Deref mismatch")
	}
	if !Deref(nil).IsZero() {
		t.Fatalf("Deref(nil) should be zero")
	}
}
