package cache

import (
	"bytes"
	"testing"
	"time"
)

func TestMemoryCacheSetGet(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	if err := mc.SetBytes("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := mc.GetBytes("k")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if !bytes.Equal(got, []byte("v")) {
		t.Fatalf("value = %q", got)
	}

	_, ok, _ = mc.GetBytes("missing")
	if ok {
		t.Fatal("missing key should miss")
	}
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	if err := mc.SetBytes("k", []byte("v"), 20*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(40 * time.Millisecond)

	if _, ok, _ := mc.GetBytes("k"); ok {
		t.Fatal("expired entry should miss")
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	_ = mc.SetBytes("a", []byte("1"), time.Minute)
	_ = mc.SetBytes("b", []byte("2"), time.Minute)

	if err := mc.Delete("a", "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := mc.GetBytes("a"); ok {
		t.Fatal("a should be gone")
	}
	if _, ok, _ := mc.GetBytes("b"); ok {
		t.Fatal("b should be gone")
	}
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()

	_ = mc.SetBytes("old", []byte("1"), time.Minute)
	time.Sleep(2 * time.Millisecond)
	_ = mc.SetBytes("mid", []byte("2"), time.Minute)
	time.Sleep(2 * time.Millisecond)

	// touch "old" so "mid" becomes least recently used
	if _, ok, _ := mc.GetBytes("old"); !ok {
		t.Fatal("old should still be cached")
	}
	time.Sleep(2 * time.Millisecond)

	_ = mc.SetBytes("new", []byte("3"), time.Minute)

	if _, ok, _ := mc.GetBytes("mid"); ok {
		t.Fatal("mid should have been evicted as LRU")
	}
	if _, ok, _ := mc.GetBytes("old"); !ok {
		t.Fatal("old was recently used and should survive")
	}
	if _, ok, _ := mc.GetBytes("new"); !ok {
		t.Fatal("new entry should be cached")
	}
}

func TestGenerateKeys(t *testing.T) {
	if got := GenerateKey("drift", "SPY"); got != "drift:SPY" {
		t.Fatalf("key = %q", got)
	}
	if got := GenerateKeyWithParams("timeline", "SPY", 30); got != "timeline:SPY:30" {
		t.Fatalf("key = %q", got)
	}
}
