package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/user"
)

type sessionRepository struct {
	db *sqlx.DB
}

var _ user.SessionRepository = (*sessionRepository)(nil)

func NewSessionRepository(db *sqlx.DB) *sessionRepository {
	return &sessionRepository{db: db}
}

type sessionRow struct {
	ID        string    `db:"id"`
	Token     string    `db:"token"`
	UserID    int       `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

func (row sessionRow) session() user.Session {
	return user.Session{
		ID:        row.ID,
		Token:     row.Token,
		UserID:    row.UserID,
		CreatedAt: row.CreatedAt,
		ExpiresAt: row.ExpiresAt,
	}
}

func (repo sessionRepository) CreateSession(ctx context.Context, sess user.Session) (user.Session, error) {
	q := `
INSERT INTO session (id, token, user_id, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := repo.db.ExecContext(ctx, q, sess.ID, sess.Token, sess.UserID, sess.CreatedAt, sess.ExpiresAt)
	if err != nil {
		return user.Session{}, errors.Wrap(err, "inserting session")
	}
	return sess, nil
}

func (repo sessionRepository) GetSessionByToken(ctx context.Context, token string) (user.Session, error) {
	var row sessionRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM session WHERE token = $1`, token)
	if err != nil {
		if err == sql.ErrNoRows {
			return user.Session{}, user.ErrNoSession
		}
		return user.Session{}, errors.Wrap(err, "getting session by token")
	}
	return row.session(), nil
}

func (repo sessionRepository) DeleteSessionByToken(ctx context.Context, token string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM session WHERE token = $1`, token); err != nil {
		return errors.Wrap(err, "deleting session")
	}
	return nil
}

func (repo sessionRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM session WHERE expires_at <= $1`, now); err != nil {
		return errors.Wrap(err, "deleting expired sessions")
	}
	return nil
}
