package backend

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrBackendUnavailable is returned when the readiness poll exhausts its
// attempts without the client appearing in the slot. It is permanent for
// the process lifetime: later callers get the same error without
// re-polling, since the cause is a misconfiguration rather than a
// transient fault.
var ErrBackendUnavailable = errors.New("backend client not available after readiness poll")

const (
	// DefaultPollInterval is how often the gate re-checks the slot.
	DefaultPollInterval = 100 * time.Millisecond
	// DefaultMaxAttempts bounds the poll at 50 checks (5s at the default
	// interval).
	DefaultMaxAttempts = 50
)

// Gate is a process-wide readiness handshake. Any number of callers can
// await the same single initialization attempt; none of them trigger a
// second one.
type Gate struct {
	slot        *Slot
	interval    time.Duration
	maxAttempts int
	probe       func(context.Context, *Client) error
	log         *logrus.Logger

	initOnce sync.Once
	done     chan struct{}
	client   *Client
	err      error
}

// Option customizes a Gate.
type Option func(*Gate)

// WithPollInterval overrides the slot poll interval.
func WithPollInterval(interval time.Duration) Option {
	return func(g *Gate) {
		if interval > 0 {
			g.interval = interval
		}
	}
}

// WithMaxAttempts overrides the poll attempt bound.
func WithMaxAttempts(attempts int) Option {
	return func(g *Gate) {
		if attempts > 0 {
			g.maxAttempts = attempts
		}
	}
}

// WithProbe overrides the connectivity probe run once after the client is
// obtained.
func WithProbe(probe func(context.Context, *Client) error) Option {
	return func(g *Gate) {
		if probe != nil {
			g.probe = probe
		}
	}
}

// WithLogger overrides the logger used for poll progress and probe
// warnings.
func WithLogger(log *logrus.Logger) Option {
	return func(g *Gate) {
		if log != nil {
			g.log = log
		}
	}
}

// NewGate creates a gate over the given slot. The gate does not start
// polling until Initialize or WaitForReady is called.
func NewGate(slot *Slot, opts ...Option) *Gate {
	g := &Gate{
		slot:        slot,
		interval:    DefaultPollInterval,
		maxAttempts: DefaultMaxAttempts,
		probe:       func(ctx context.Context, c *Client) error { return c.Probe(ctx) },
		log:         logrus.StandardLogger(),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Initialize starts the single initialization attempt. Calling it again,
// from any goroutine, joins the in-flight attempt instead of starting a
// new one.
func (g *Gate) Initialize() {
	g.initOnce.Do(func() {
		go g.run()
	})
}

func (g *Gate) run() {
	defer close(g.done)

	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		if client := g.slot.Load(); client != nil {
			g.client = client
			g.runProbe(client)
			return
		}
		time.Sleep(g.interval)
	}

	g.log.WithField("attempts", g.maxAttempts).Error("backend client never appeared in slot")
	g.err = ErrBackendUnavailable
}

// runProbe attempts one lightweight read. Failure is logged as a warning
// and does not affect readiness.
func (g *Gate) runProbe(client *Client) {
	ctx, cancel := context.WithTimeout(context.Background(), g.interval*time.Duration(g.maxAttempts))
	defer cancel()

	if err := g.probe(ctx, client); err != nil {
		g.log.WithError(err).Warn("backend connectivity probe failed")
		return
	}
	g.log.Debug("backend client ready")
}

// WaitForReady returns the client once initialization resolves. When the
// gate is already settled it returns immediately without suspending. After
// a failed initialization it keeps returning ErrBackendUnavailable.
func (g *Gate) WaitForReady(ctx context.Context) (*Client, error) {
	g.Initialize()

	select {
	case <-g.done:
		return g.client, g.err
	default:
	}

	select {
	case <-g.done:
		return g.client, g.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Handle is the non-blocking accessor: it returns the client only when the
// gate has already resolved successfully.
func (g *Gate) Handle() (*Client, bool) {
	select {
	case <-g.done:
		if g.err != nil {
			return nil, false
		}
		return g.client, true
	default:
		return nil, false
	}
}
