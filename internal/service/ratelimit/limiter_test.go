package ratelimit

import "testing"

func TestAllowConsumesTokens(t *testing.T) {
	l := New()

	if !l.Allow("SPY", 1, 0) {
		t.Fatal("first request should pass with a full bucket")
	}
	if l.Allow("SPY", 1, 0) {
		t.Fatal("second request should be denied, bucket is empty")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := New()

	if !l.Allow("SPY", 1, 0) {
		t.Fatal("SPY should pass")
	}
	if !l.Allow("QQQ", 1, 0) {
		t.Fatal("QQQ has its own bucket and should pass")
	}
}

func TestResetRestoresCapacity(t *testing.T) {
	l := New()

	l.Allow("SPY", 1, 0)
	if l.Allow("SPY", 1, 0) {
		t.Fatal("bucket should be empty before reset")
	}
	l.Reset("SPY")
	if !l.Allow("SPY", 1, 0) {
		t.Fatal("reset should restore a full bucket")
	}
}

func TestCapacityBoundsBurst(t *testing.T) {
	l := New()

	for i := 0; i < 3; i++ {
		if !l.Allow("SPY", 3, 0) {
			t.Fatalf("request %d should pass within capacity", i+1)
		}
	}
	if l.Allow("SPY", 3, 0) {
		t.Fatal("burst beyond capacity should be denied")
	}
}
