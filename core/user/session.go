package user

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	NowFunc = time.Now // mockable

	ErrNoSession = errors.New("no active session")
)

const sessionTokenSize = 32

// Session binds an opaque token to a user identity, server-side.
// The token is the only thing clients ever hold; everything else is
// looked up fresh on each request.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	UserID    int       `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

type SessionRepository interface {
	CreateSession(ctx context.Context, sess Session) (Session, error)
	GetSessionByToken(ctx context.Context, token string) (Session, error) // ErrNoSession if absent
	// DeleteSessionByToken is idempotent: deleting an unknown token is not an error.
	DeleteSessionByToken(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) error
}

// SessionManager owns the session lifecycle: Anonymous -> Authenticated
// (Open) -> Anonymous (Close or expiry).
type SessionManager struct {
	sessions SessionRepository
	users    Repository
	ttl      time.Duration
}

func NewSessionManager(sessions SessionRepository, users Repository, ttl time.Duration) *SessionManager {
	return &SessionManager{
		sessions: sessions,
		users:    users,
		ttl:      ttl,
	}
}

// Open establishes a session for usr with a fresh unguessable token.
func (m *SessionManager) Open(ctx context.Context, usr User) (Session, error) {
	token, err := generateToken()
	if err != nil {
		return Session{}, err
	}
	now := NowFunc().UTC()
	sess := Session{
		ID:        uuid.New().String(),
		Token:     token,
		UserID:    usr.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	return m.sessions.CreateSession(ctx, sess)
}

// Resolve maps a token back to the current user state. The user record is
// re-fetched on every call: role and active can change between requests,
// so a cached snapshot would be wrong. Expired sessions are cleaned up
// lazily here and resolve to ErrNoSession.
func (m *SessionManager) Resolve(ctx context.Context, token string) (User, error) {
	sess, err := m.sessions.GetSessionByToken(ctx, token)
	if err != nil {
		return User{}, err
	}
	if sess.Expired(NowFunc().UTC()) {
		if err = m.sessions.DeleteSessionByToken(ctx, token); err != nil {
			return User{}, errors.Wrap(err, "deleting expired session")
		}
		return User{}, ErrNoSession
	}

	usr, err := m.users.GetUserByID(ctx, sess.UserID)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, ErrNoSession
		}
		return User{}, errors.Wrap(err, "finding session user")
	}
	return usr, nil
}

// Close invalidates the session; closing an already closed session is a no-op.
func (m *SessionManager) Close(ctx context.Context, token string) error {
	return m.sessions.DeleteSessionByToken(ctx, token)
}

// PurgeExpired removes all expired sessions.
func (m *SessionManager) PurgeExpired(ctx context.Context) error {
	return m.sessions.DeleteExpiredSessions(ctx, NowFunc().UTC())
}

func generateToken() (string, error) {
	b := make([]byte, sessionTokenSize)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "generating session token")
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
