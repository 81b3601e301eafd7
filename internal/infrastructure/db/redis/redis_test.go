package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestConfigOptions_AppliesTimeout(t *testing.T) {
	opts := Config{Addr: "cache:6379", Password: "pw", DB: 2, Timeout: time.Second}.options()

	if opts.Addr != "cache:6379" || opts.Password != "pw" || opts.DB != 2 {
		t.Errorf("unexpected connection options: %+v", opts)
	}
	if opts.DialTimeout != time.Second || opts.ReadTimeout != time.Second || opts.WriteTimeout != time.Second {
		t.Errorf("expected 1s timeouts, got dial=%s read=%s write=%s", opts.DialTimeout, opts.ReadTimeout, opts.WriteTimeout)
	}
	if !opts.ContextTimeoutEnabled {
		t.Error("expected context deadlines to be honoured")
	}
}

func TestConfigOptions_DefaultTimeout(t *testing.T) {
	if got := (Config{}).options().DialTimeout; got != defaultTimeout {
		t.Errorf("expected default timeout %s, got %s", defaultTimeout, got)
	}
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), Config{Addr: mr.Addr(), Timeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	if err := client.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got, _ := mr.Get("k"); got != "v" {
		t.Errorf("expected the write to reach the server, got %q", got)
	}
}

func TestConnect_WrongPassword(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")

	if _, err := Connect(context.Background(), Config{Addr: mr.Addr(), Password: "nope", Timeout: time.Second}); err == nil {
		t.Fatal("expected the ping to be rejected")
	}
}

func TestConnect_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := Connect(context.Background(), Config{Addr: addr, Timeout: 200 * time.Millisecond}); err == nil {
		t.Fatal("expected connect to fail")
	}
}
