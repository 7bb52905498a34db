package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vistahogar/listings/internal/backend"
	"github.com/vistahogar/listings/internal/domain"
)

type agentRepository struct {
	gate *backend.Gate
}

// NewAgentRepository creates a new agent repository
func NewAgentRepository(gate *backend.Gate) AgentRepository {
	return &agentRepository{gate: gate}
}

// GetByID retrieves the agent shown on a property detail page.
func (r *agentRepository) GetByID(ctx context.Context, id int64) (domain.Agent, error) {
	client, err := r.gate.WaitForReady(ctx)
	if err != nil {
		return domain.Agent{}, err
	}

	row := client.Pool.QueryRow(ctx,
		"SELECT id, name, email, phone, photo_url, created_at FROM agents WHERE id = $1", id)

	var agent domain.Agent
	err = row.Scan(&agent.ID, &agent.Name, &agent.Email, &agent.Phone, &agent.PhotoURL, &agent.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Agent{}, domain.ErrNotFound
		}
		return domain.Agent{}, fmt.Errorf("get agent %d: %w", id, err)
	}
	return agent, nil
}
