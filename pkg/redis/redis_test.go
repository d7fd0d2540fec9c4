package redis

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	"vvf-listone/config"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewClient(&config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestClient_KeyValue(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	if _, found, err := c.Get(ctx, "ns:events"); err != nil || found {
		t.Fatalf("expected missing key, found=%v err=%v", found, err)
	}

	if err := c.Set(ctx, "ns:events", `[{"id":"a"}]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, found, err := c.Get(ctx, "ns:events")
	if err != nil || !found || v != `[{"id":"a"}]` {
		t.Fatalf("unexpected Get result: %q %v %v", v, found, err)
	}
	if mr.TTL("ns:events") != 0 {
		t.Error("stored snapshots must not expire")
	}

	if err := c.Delete(ctx, "ns:events", "ns:missing"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if mr.Exists("ns:events") {
		t.Error("expected key to be deleted")
	}
	if err := c.Delete(ctx); err != nil {
		t.Errorf("Delete with no keys should be a no-op: %v", err)
	}
}

func TestClient_GetUnavailable(t *testing.T) {
	c, mr := newTestClient(t)
	mr.Close()

	if _, _, err := c.Get(context.Background(), "k"); err == nil {
		t.Error("expected error when the server is gone")
	}
}

func TestClient_CheckRateLimit(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := c.CheckRateLimit(ctx, "1.2.3.4:/generate-document", 3, time.Minute)
		if err != nil {
			t.Fatalf("CheckRateLimit failed: %v", err)
		}
		if !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	ok, err := c.CheckRateLimit(ctx, "1.2.3.4:/generate-document", 3, time.Minute)
	if err != nil {
		t.Fatalf("CheckRateLimit failed: %v", err)
	}
	if ok {
		t.Error("fourth request should be rejected")
	}

	ok, _ = c.CheckRateLimit(ctx, "5.6.7.8:/generate-document", 3, time.Minute)
	if !ok {
		t.Error("other clients have their own window")
	}
}

func TestClient_CheckRateLimit_Concurrent(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()
	const limit, callers = 5, 20

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := c.CheckRateLimit(ctx, "1.2.3.4:/api/generate-pdf", limit, time.Minute)
			if err != nil {
				t.Errorf("CheckRateLimit failed: %v", err)
				return
			}
			if ok {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := allowed.Load(); got != limit {
		t.Errorf("expected exactly %d requests through, got %d", limit, got)
	}
	members, err := mr.ZMembers(rateLimitPrefix + "1.2.3.4:/api/generate-pdf")
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != limit {
		t.Errorf("rejected requests must not stay in the window, got %d entries", len(members))
	}
}

func TestNewClient_ConnectFailure(t *testing.T) {
	_, err := NewClient(&config.RedisConfig{Addr: "127.0.0.1:1"}, zap.NewNop())
	if err == nil {
		t.Error("expected connection error")
	}
}
