package auth

import (
	"context"
	"fmt"

	"github.com/vistahogar/listings/internal/domain"
)

type contextKey string

const userKey contextKey = "authenticatedUser"

// ContextWithUser returns a new context carrying the authenticated user.
func ContextWithUser(ctx context.Context, user domain.User) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext retrieves the authenticated user from the context, if any.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	if ctx == nil {
		return domain.User{}, false
	}
	value := ctx.Value(userKey)
	if value == nil {
		return domain.User{}, false
	}
	user, ok := value.(domain.User)
	if !ok {
		return domain.User{}, false
	}
	return user, true
}

// RequireAdmin ensures the context carries an authenticated admin account.
func RequireAdmin(ctx context.Context) (domain.User, error) {
	user, ok := UserFromContext(ctx)
	if !ok {
		return domain.User{}, fmt.Errorf("authentication required")
	}
	if user.Role != domain.UserRoleAdmin {
		return domain.User{}, fmt.Errorf("admin role required")
	}
	return user, nil
}
