package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vistahogar/listings/internal/domain"
)

type memoryUserRepo struct {
	users    map[uuid.UUID]domain.User
	sessions map[string]domain.Session
	resets   map[string]uuid.UUID
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{
		users:    make(map[uuid.UUID]domain.User),
		sessions: make(map[string]domain.Session),
		resets:   make(map[string]uuid.UUID),
	}
}

func (m *memoryUserRepo) CreateUser(_ context.Context, user domain.User) (domain.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return user, nil
}

func (m *memoryUserRepo) CountUsers(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

func (m *memoryUserRepo) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (m *memoryUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (m *memoryUserRepo) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	user, ok := m.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	user.PasswordHash = hash
	m.users[id] = user
	return nil
}

func (m *memoryUserRepo) CreateSession(_ context.Context, session domain.Session) error {
	m.sessions[session.Token] = session
	return nil
}

func (m *memoryUserRepo) GetSession(_ context.Context, token string) (domain.Session, error) {
	session, ok := m.sessions[token]
	if !ok {
		return domain.Session{}, domain.ErrNotFound
	}
	return session, nil
}

func (m *memoryUserRepo) DeleteSession(_ context.Context, token string) error {
	delete(m.sessions, token)
	return nil
}

func (m *memoryUserRepo) CreatePasswordReset(_ context.Context, token string, userID uuid.UUID) error {
	m.resets[token] = userID
	return nil
}

func (m *memoryUserRepo) ConsumePasswordReset(_ context.Context, token string) (uuid.UUID, error) {
	userID, ok := m.resets[token]
	if !ok {
		return uuid.Nil, domain.ErrNotFound
	}
	delete(m.resets, token)
	return userID, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestFirstAccountBecomesAdmin(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := NewService(repo, time.Hour, quietLogger())
	ctx := context.Background()

	first, err := svc.SignUp(ctx, "owner@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("sign up failed: %v", err)
	}
	if first.Role != domain.UserRoleAdmin {
		t.Fatalf("expected first account to be admin, got %q", first.Role)
	}

	second, err := svc.SignUp(ctx, "staff@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("sign up failed: %v", err)
	}
	if second.Role != domain.UserRoleViewer {
		t.Fatalf("expected later accounts to be viewers, got %q", second.Role)
	}
}

func TestSignUpAndSignIn(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := NewService(repo, time.Hour, quietLogger())
	ctx := context.Background()

	user, err := svc.SignUp(ctx, "Admin@Example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("sign up failed: %v", err)
	}
	if user.Email != "admin@example.com" {
		t.Fatalf("expected lowercased email, got %q", user.Email)
	}
	if user.PasswordHash == "s3cret-pass" {
		t.Fatal("password must not be stored in the clear")
	}

	session, signedIn, err := svc.SignIn(ctx, "admin@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected a session token")
	}
	if signedIn.ID != user.ID {
		t.Fatal("sign in resolved the wrong account")
	}
}

func TestSignIn_WrongPassword(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := NewService(repo, time.Hour, quietLogger())
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "a@b.com", "correct-horse"); err != nil {
		t.Fatalf("sign up failed: %v", err)
	}

	_, _, err := svc.SignIn(ctx, "a@b.com", "battery-staple")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	_, _, err = svc.SignIn(ctx, "nobody@b.com", "whatever-pass")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email must fail the same way, got %v", err)
	}
}

func TestSession_Expiry(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := NewService(repo, time.Hour, quietLogger())
	ctx := context.Background()

	user, err := svc.SignUp(ctx, "a@b.com", "correct-horse")
	if err != nil {
		t.Fatalf("sign up failed: %v", err)
	}

	expired := domain.Session{Token: "stale", UserID: user.ID, ExpiresAt: time.Now().Add(-time.Minute)}
	if err := repo.CreateSession(ctx, expired); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	if _, err := svc.Session(ctx, "stale"); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if _, ok := repo.sessions["stale"]; ok {
		t.Fatal("expired session must be removed")
	}
}

func TestPasswordResetFlow(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := NewService(repo, time.Hour, quietLogger())
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "a@b.com", "old-password"); err != nil {
		t.Fatalf("sign up failed: %v", err)
	}

	token, err := svc.RequestPasswordReset(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("request reset failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a reset token for a known email")
	}

	if err := svc.ResetPassword(ctx, token, "new-password-1"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	if _, _, err := svc.SignIn(ctx, "a@b.com", "old-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatal("old password must stop working after reset")
	}
	if _, _, err := svc.SignIn(ctx, "a@b.com", "new-password-1"); err != nil {
		t.Fatalf("new password should work: %v", err)
	}

	// Tokens are single use.
	if err := svc.ResetPassword(ctx, token, "another-password"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected consumed token to be rejected, got %v", err)
	}
}

func TestRequestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	svc := NewService(newMemoryUserRepo(), time.Hour, quietLogger())

	token, err := svc.RequestPasswordReset(context.Background(), "ghost@b.com")
	if err != nil {
		t.Fatalf("unknown email must not error: %v", err)
	}
	if token != "" {
		t.Fatal("unknown email must not produce a token")
	}
}

func TestSubscribe_ReceivesAuthEvents(t *testing.T) {
	repo := newMemoryUserRepo()
	svc := NewService(repo, time.Hour, quietLogger())
	ctx := context.Background()

	events, cancel := svc.Subscribe()
	defer cancel()

	if _, err := svc.SignUp(ctx, "a@b.com", "correct-horse"); err != nil {
		t.Fatalf("sign up failed: %v", err)
	}
	session, _, err := svc.SignIn(ctx, "a@b.com", "correct-horse")
	if err != nil {
		t.Fatalf("sign in failed: %v", err)
	}

	select {
	case event := <-events:
		if event.Type != EventSignedIn || event.Email != "a@b.com" {
			t.Fatalf("unexpected event %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a SIGNED_IN event")
	}

	if err := svc.SignOut(ctx, session.Token); err != nil {
		t.Fatalf("sign out failed: %v", err)
	}
	select {
	case event := <-events:
		if event.Type != EventSignedOut {
			t.Fatalf("unexpected event %+v", event)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a SIGNED_OUT event")
	}
}
