package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/vistahogar/listings/internal/domain"
	"github.com/vistahogar/listings/internal/repository"
)

var (
	// ErrInvalidCredentials is returned for unknown emails and wrong
	// passwords alike, so sign-in failures don't leak which one it was.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrSessionExpired is returned when a presented token is past its
	// expiry; the stale row is removed as a side effect.
	ErrSessionExpired = errors.New("session expired")
)

const minPasswordLength = 8

// EventType classifies auth-state changes pushed to subscribers.
type EventType string

const (
	EventSignedIn        EventType = "SIGNED_IN"
	EventSignedOut       EventType = "SIGNED_OUT"
	EventPasswordUpdated EventType = "PASSWORD_UPDATED"
)

// Event is a single auth-state change notification.
type Event struct {
	Type  EventType
	Email string
}

// Service implements email+password identity with opaque session tokens
// and an auth-state change stream the page layer subscribes to.
type Service struct {
	users      repository.UserRepository
	sessionTTL time.Duration
	log        *logrus.Logger

	mu          sync.Mutex
	subscribers map[int]chan Event
	nextSubID   int
}

// NewService creates an auth service over the user repository.
func NewService(users repository.UserRepository, sessionTTL time.Duration, log *logrus.Logger) *Service {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		users:       users,
		sessionTTL:  sessionTTL,
		log:         log,
		subscribers: make(map[int]chan Event),
	}
}

// SignUp registers a new account with a bcrypt-hashed password.
func (s *Service) SignUp(ctx context.Context, email, password string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.User{}, fmt.Errorf("invalid email address")
	}
	if len(password) < minPasswordLength {
		return domain.User{}, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	// The first account bootstraps the back office; everyone after that
	// starts as a viewer until promoted.
	role := domain.UserRoleViewer
	count, err := s.users.CountUsers(ctx)
	if err != nil {
		return domain.User{}, err
	}
	if count == 0 {
		role = domain.UserRoleAdmin
	}

	user, err := s.users.CreateUser(ctx, domain.User{Email: email, PasswordHash: string(hash), Role: role})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// SignIn verifies credentials and opens a session.
func (s *Service) SignIn(ctx context.Context, email, password string) (domain.Session, domain.User, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Session{}, domain.User{}, ErrInvalidCredentials
		}
		return domain.Session{}, domain.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.Session{}, domain.User{}, ErrInvalidCredentials
	}

	session := domain.Session{
		Token:     newToken(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.users.CreateSession(ctx, session); err != nil {
		return domain.Session{}, domain.User{}, err
	}

	s.notify(Event{Type: EventSignedIn, Email: user.Email})
	return session, user, nil
}

// SignOut closes the session for the given token. Unknown tokens are not
// an error; the caller ends up signed out either way.
func (s *Service) SignOut(ctx context.Context, token string) error {
	if err := s.users.DeleteSession(ctx, token); err != nil {
		return err
	}
	s.notify(Event{Type: EventSignedOut})
	return nil
}

// Session resolves a token to its account, removing expired sessions on
// the way out.
func (s *Service) Session(ctx context.Context, token string) (domain.User, error) {
	session, err := s.users.GetSession(ctx, token)
	if err != nil {
		return domain.User{}, err
	}
	if session.Expired(time.Now()) {
		if err := s.users.DeleteSession(ctx, token); err != nil {
			s.log.WithError(err).Warn("failed to remove expired session")
		}
		return domain.User{}, ErrSessionExpired
	}
	return s.users.GetUserByID(ctx, session.UserID)
}

// RequestPasswordReset issues a single-use reset token for the account.
// Unknown emails succeed silently so the endpoint can't be used to probe
// for registered addresses; delivery of the token is the mailer's concern.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil
		}
		return "", err
	}

	token := newToken()
	if err := s.users.CreatePasswordReset(ctx, token, user.ID); err != nil {
		return "", err
	}
	return token, nil
}

// ResetPassword redeems a reset token and stores the new hash.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	userID, err := s.users.ConsumePasswordReset(ctx, token)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
		return err
	}

	s.notify(Event{Type: EventPasswordUpdated})
	return nil
}

// UpdatePassword changes the password of an already-authenticated account.
func (s *Service) UpdatePassword(ctx context.Context, user domain.User, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, string(hash)); err != nil {
		return err
	}

	s.notify(Event{Type: EventPasswordUpdated, Email: user.Email})
	return nil
}

// Subscribe registers an auth-state listener. The returned cancel func
// must be called to release the channel.
func (s *Service) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	ch := make(chan Event, 8)
	s.subscribers[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if existing, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(existing)
		}
	}
	return ch, cancel
}

// notify fans an event out to subscribers. Slow subscribers drop events
// instead of blocking auth operations.
func (s *Service) notify(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

func newToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	return hex.EncodeToString(buf)
}
