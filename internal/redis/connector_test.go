package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/easylaunch/internal/logger"
)

func validOptions() ConnectOptions {
	return ConnectOptions{
		Addr:           "127.0.0.1:1",
		DialTimeout:    50 * time.Millisecond,
		ReadTimeout:    50 * time.Millisecond,
		WriteTimeout:   50 * time.Millisecond,
		PoolSize:       1,
		ConnectTimeout: 200 * time.Millisecond,
		RetryInterval:  5 * time.Millisecond,
		MaxWait:        20 * time.Millisecond,
		PingTimeout:    50 * time.Millisecond,
		WarnThreshold:  1,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ConnectOptions)
		wantErr bool
	}{
		{name: "valid", mutate: func(*ConnectOptions) {}},
		{name: "zero connect timeout", mutate: func(o *ConnectOptions) { o.ConnectTimeout = 0 }, wantErr: true},
		{name: "zero retry interval", mutate: func(o *ConnectOptions) { o.RetryInterval = 0 }, wantErr: true},
		{name: "zero max wait", mutate: func(o *ConnectOptions) { o.MaxWait = 0 }, wantErr: true},
		{name: "zero ping timeout", mutate: func(o *ConnectOptions) { o.PingTimeout = 0 }, wantErr: true},
		{name: "negative warn threshold", mutate: func(o *ConnectOptions) { o.WarnThreshold = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := validOptions()
			tt.mutate(&opts)
			err := opts.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBackoff(t *testing.T) {
	b := backoff{next: 2 * time.Second, max: 10 * time.Second}
	want := []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second, 10 * time.Second, 10 * time.Second}
	for i, w := range want {
		if got := b.wait(); got != w {
			t.Errorf("wait() #%d = %v, want %v", i, got, w)
		}
	}
}

// flakyPinger fails until it has been pinged okAfter times.
type flakyPinger struct {
	calls   int
	okAfter int
}

func (p *flakyPinger) Ping(ctx context.Context) *redis.StatusCmd {
	p.calls++
	cmd := redis.NewStatusCmd(ctx, "ping")
	if p.calls < p.okAfter {
		cmd.SetErr(errors.New("connection refused"))
		return cmd
	}
	cmd.SetVal("PONG")
	return cmd
}

func TestWaitReady_RetriesUntilPong(t *testing.T) {
	p := &flakyPinger{okAfter: 3}
	if err := waitReady(context.Background(), p, validOptions(), logger.Nop()); err != nil {
		t.Fatalf("waitReady() error = %v", err)
	}
	if p.calls != 3 {
		t.Errorf("pinged %d times, want 3", p.calls)
	}
}

func TestWaitReady_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := waitReady(ctx, &flakyPinger{okAfter: 100}, validOptions(), logger.Nop())
	if err == nil {
		t.Fatal("waitReady() should fail once the context is done")
	}
}

func TestNew_GivesUpAfterTimeout(t *testing.T) {
	start := time.Now()
	client, err := New(context.Background(), validOptions(), logger.Nop())
	if err == nil {
		_ = client.Close()
		t.Fatal("New() should fail when nothing listens")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("New() took %v, should give up after ConnectTimeout", elapsed)
	}
}
