package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/vistahogar/listings/internal/domain"
)

// PropertyRepository defines the interface for listing operations
type PropertyRepository interface {
	List(ctx context.Context, query domain.PropertyQuery) ([]domain.Property, error)
	GetByID(ctx context.Context, id int64) (domain.Property, error)
	Featured(ctx context.Context, limit int) ([]domain.Property, error)
	Similar(ctx context.Context, excludeID int64, propertyType, district string, limit int) ([]domain.Property, error)
	Create(ctx context.Context, property domain.Property) (domain.Property, error)
	Update(ctx context.Context, property domain.Property) (domain.Property, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (domain.PropertyStats, error)
}

// InquiryRepository defines the interface for contact request operations
type InquiryRepository interface {
	Create(ctx context.Context, inquiry domain.Inquiry) (domain.Inquiry, error)
	List(ctx context.Context, filter domain.InquiryFilter) ([]domain.Inquiry, error)
	UpdateStatus(ctx context.Context, id int64, status domain.InquiryStatus) error
}

// AgentRepository defines the interface for agent lookups
type AgentRepository interface {
	GetByID(ctx context.Context, id int64) (domain.Agent, error)
}

// UserRepository defines the interface for account and session operations
type UserRepository interface {
	CreateUser(ctx context.Context, user domain.User) (domain.User, error)
	CountUsers(ctx context.Context) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error

	CreateSession(ctx context.Context, session domain.Session) error
	GetSession(ctx context.Context, token string) (domain.Session, error)
	DeleteSession(ctx context.Context, token string) error

	CreatePasswordReset(ctx context.Context, token string, userID uuid.UUID) error
	ConsumePasswordReset(ctx context.Context, token string) (uuid.UUID, error)
}
