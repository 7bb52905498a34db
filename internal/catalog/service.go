// Package catalog exposes the public property search surface. Every
// operation resolves to a tagged success/failure result: remote errors are
// converted, never re-thrown, so the page layer can render a notification
// instead of handling faults.
package catalog

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/vistahogar/listings/internal/domain"
	"github.com/vistahogar/listings/internal/repository"
)

// Result is the uniform outcome envelope for list operations.
type Result struct {
	Success bool              `json:"success"`
	Data    []domain.Property `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// SingleResult is the outcome envelope for single-row operations.
type SingleResult struct {
	Success bool             `json:"success"`
	Data    *domain.Property `json:"data,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// Service composes filter requests into catalog queries.
type Service struct {
	properties repository.PropertyRepository
	log        *logrus.Logger
}

// NewService creates a catalog service over the property repository.
func NewService(properties repository.PropertyRepository, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{properties: properties, log: log}
}

// Search normalizes the raw filter, composes the query and executes it.
// Normalization and composition happen synchronously before the round
// trip, so the query shape is fixed once the call starts.
func (s *Service) Search(ctx context.Context, req domain.FilterRequest) Result {
	query, err := req.Normalize()
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}

	properties, err := s.properties.List(ctx, query)
	if err != nil {
		s.log.WithError(err).Warn("catalog search failed")
		return Result{Success: false, Error: err.Error()}
	}
	return Result{Success: true, Data: properties}
}

// GetByID fetches one listing; zero matches surface as a failure result.
func (s *Service) GetByID(ctx context.Context, id int64) SingleResult {
	property, err := s.properties.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.WithError(err).WithField("id", id).Warn("property fetch failed")
		}
		return SingleResult{Success: false, Error: err.Error()}
	}
	return SingleResult{Success: true, Data: &property}
}

// Featured returns the homepage highlight set.
func (s *Service) Featured(ctx context.Context, limit int) Result {
	properties, err := s.properties.Featured(ctx, limit)
	if err != nil {
		s.log.WithError(err).Warn("featured properties fetch failed")
		return Result{Success: false, Error: err.Error()}
	}
	return Result{Success: true, Data: properties}
}

// Similar returns related listings for a detail page. The excluded id is
// never part of the result, even when it matches both predicates.
func (s *Service) Similar(ctx context.Context, excludeID int64, propertyType, district string, limit int) Result {
	properties, err := s.properties.Similar(ctx, excludeID, propertyType, district, limit)
	if err != nil {
		s.log.WithError(err).Warn("similar properties fetch failed")
		return Result{Success: false, Error: err.Error()}
	}
	return Result{Success: true, Data: properties}
}
