package backend

import (
	"context"
	"sync/atomic"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Client is the live handle to the backing store. It is constructed
// asynchronously at startup and published into a Slot once usable.
type Client struct {
	Pool *pgxpool.Pool
}

// Probe runs a minimal read against the primary table to confirm
// connectivity. It is advisory: callers log failures instead of tearing
// the client down.
func (c *Client) Probe(ctx context.Context) error {
	rows, err := c.Pool.Query(ctx, "SELECT id FROM properties LIMIT 1")
	if err != nil {
		return err
	}
	rows.Close()
	return rows.Err()
}

// Slot is the well-known location the startup goroutine publishes the
// client into. The gate polls it until populated.
type Slot struct {
	client atomic.Pointer[Client]
}

// Publish makes the client visible to pollers. Publishing twice keeps the
// latest value; the gate only ever observes one.
func (s *Slot) Publish(c *Client) {
	s.client.Store(c)
}

// Load returns the published client, or nil while still loading.
func (s *Slot) Load() *Client {
	return s.client.Load()
}
