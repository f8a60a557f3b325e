// Package redis builds the go-redis client used by the redis favorites backend.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/easylaunch/internal/logger"
)

// ConnectOptions configures the client and how long New keeps trying.
type ConnectOptions struct {
	Addr         string // ex: "localhost:6379"
	User         string
	Password     string
	RedisDB      int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	ClientName   string // CLIENT SETNAME value

	ConnectTimeout time.Duration // total budget for the first successful ping
	RetryInterval  time.Duration // first wait between pings, doubled after each failure
	MaxWait        time.Duration // cap on the wait between pings
	PingTimeout    time.Duration // budget of a single ping
	WarnThreshold  int           // failures logged as warnings before switching to errors
}

func (o ConnectOptions) validate() error {
	var errs []error
	positive := func(name string, d time.Duration) {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be > 0, got %v", name, d))
		}
	}
	positive("ConnectTimeout", o.ConnectTimeout)
	positive("RetryInterval", o.RetryInterval)
	positive("MaxWait", o.MaxWait)
	positive("PingTimeout", o.PingTimeout)
	if o.WarnThreshold < 0 {
		errs = append(errs, fmt.Errorf("WarnThreshold must be >= 0, got %d", o.WarnThreshold))
	}
	return errors.Join(errs...)
}

// backoff doubles the wait up to a cap.
type backoff struct {
	next, max time.Duration
}

func (b *backoff) wait() time.Duration {
	d := b.next
	b.next = min(b.next*2, b.max)
	return d
}

type pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// New creates a client and pings it until it answers, ConnectTimeout
// elapses or ctx is done.
func New(ctx context.Context, opts ConnectOptions, log logger.Logger) (*redis.Client, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid redis options: %w", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Username:     opts.User,
		Password:     opts.Password,
		DB:           opts.RedisDB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolSize:     opts.PoolSize,
		ClientName:   opts.ClientName,
	})

	if err := waitReady(ctx, client, opts, log.With(logger.String("addr", opts.Addr))); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func waitReady(parent context.Context, p pinger, opts ConnectOptions, log logger.Logger) error {
	ctx, cancel := context.WithTimeout(parent, opts.ConnectTimeout)
	defer cancel()

	log.Info("connecting to redis favorites backend", logger.Duration("timeout", opts.ConnectTimeout))
	start := time.Now()
	b := backoff{next: opts.RetryInterval, max: opts.MaxWait}

	for attempt := 1; ; attempt++ {
		pingCtx, pingCancel := context.WithTimeout(ctx, opts.PingTimeout)
		err := p.Ping(pingCtx).Err()
		pingCancel()

		if err == nil {
			fields := []logger.Field{logger.Int("attempts", attempt), logger.Duration("elapsed", time.Since(start))}
			if attempt > 1 {
				log.Warn("connected to redis after retry", fields...)
			} else {
				log.Info("connected to redis", fields...)
			}
			return nil
		}

		wait := b.wait()
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Error("redis unavailable", logger.Int("attempts", attempt), logger.Error(err))
			return fmt.Errorf("redis unavailable at %s after %d attempts (timeout: %v): %w",
				opts.Addr, attempt, opts.ConnectTimeout, err)
		case <-timer.C:
		}

		fields := []logger.Field{logger.Int("attempt", attempt), logger.Duration("next_retry_in", wait), logger.Error(err)}
		if attempt <= opts.WarnThreshold {
			log.Warn("redis connection failed, retrying", fields...)
		} else {
			log.Error("redis still unavailable, retrying", fields...)
		}
	}
}
