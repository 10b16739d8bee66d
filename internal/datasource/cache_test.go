package datasource

import (
	"errors"
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	cache := NewCache(t.TempDir())

	if err := cache.Set("statements:AAPL", []byte("payload")); err != nil {
		t.Fatal(err)
	}

	data, ok := cache.Get("statements:AAPL", time.Minute)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(data) != "payload" {
		t.Errorf("got %q", data)
	}
}

func TestCacheExpiry(t *testing.T) {
	cache := NewCache(t.TempDir())

	if err := cache.Set("quote:AAPL", []byte("stale")); err != nil {
		t.Fatal(err)
	}

	// Zero TTL: anything already written is expired.
	if _, ok := cache.Get("quote:AAPL", 0); ok {
		t.Fatal("expected expired entry to miss")
	}
	// The expired file is removed, so a fresh lookup still misses.
	if _, ok := cache.Get("quote:AAPL", time.Minute); ok {
		t.Fatal("expected entry to be gone after expiry")
	}
}

func TestCacheGetOrFetch(t *testing.T) {
	cache := NewCache(t.TempDir())

	calls := 0
	fetch := func() ([]byte, error) {
		calls++
		return []byte("fresh"), nil
	}

	for i := 0; i < 2; i++ {
		data, err := cache.GetOrFetch("bars:AAPL:5", time.Minute, fetch)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "fresh" {
			t.Errorf("got %q", data)
		}
	}
	if calls != 1 {
		t.Errorf("fetch must run once, ran %d times", calls)
	}
}

func TestCacheGetOrFetchError(t *testing.T) {
	cache := NewCache(t.TempDir())

	wantErr := errors.New("provider down")
	_, err := cache.GetOrFetch("quote:X", time.Minute, func() ([]byte, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected fetch error, got %v", err)
	}
}

func TestCacheDelete(t *testing.T) {
	cache := NewCache(t.TempDir())

	cache.Set("dividends:AAPL", []byte("x"))
	if err := cache.Delete("dividends:AAPL"); err != nil {
		t.Fatal(err)
	}
	if _, ok := cache.Get("dividends:AAPL", time.Minute); ok {
		t.Fatal("expected miss after delete")
	}
}
