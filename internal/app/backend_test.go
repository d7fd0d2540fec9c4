package app

import (
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	"vvf-listone/config"
	"vvf-listone/internal/storage"
)

func TestOpenBackend_Memory(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.DriverMemory, Namespace: "t"}}

	b, err := OpenBackend(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("OpenBackend failed: %v", err)
	}
	defer b.Close()

	if _, ok := b.Store.(*storage.MemoryStore); !ok {
		t.Errorf("expected memory store, got %T", b.Store)
	}
	if b.Redis != nil || b.KV != nil {
		t.Error("memory driver must not open other connections")
	}
}

func TestOpenBackend_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: config.DriverRedis, Namespace: "t"},
		Redis:   config.RedisConfig{Addr: mr.Addr()},
	}

	b, err := OpenBackend(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("OpenBackend failed: %v", err)
	}
	defer b.Close()

	if b.Redis == nil || b.Store == nil {
		t.Fatal("expected redis-backed store")
	}
}

func TestOpenBackend_RateLimitWithoutRedisDegrades(t *testing.T) {
	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: config.DriverMemory, Namespace: "t"},
		Redis:   config.RedisConfig{Addr: "127.0.0.1:1"},
		Export:  config.ExportConfig{RateLimit: 5},
	}

	b, err := OpenBackend(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("rate limiting is optional, got %v", err)
	}
	defer b.Close()
	if b.Redis != nil {
		t.Error("expected rate limiting disabled")
	}
}

func TestOpenBackend_RedisUnreachable(t *testing.T) {
	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: config.DriverRedis, Namespace: "t"},
		Redis:   config.RedisConfig{Addr: "127.0.0.1:1"},
	}

	_, err := OpenBackend(cfg, zap.NewNop())
	if !errors.Is(err, storage.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestOpenBackend_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "sqlite"}}
	if _, err := OpenBackend(cfg, zap.NewNop()); err == nil {
		t.Error("expected error for unknown driver")
	}
}
