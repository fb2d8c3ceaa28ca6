package dummydb

import (
	"context"
	"time"

	"github.com/trezcool/darasa/core/user"
)

type sessionRepository struct {
	db *sessionTable
}

var _ user.SessionRepository = (*sessionRepository)(nil) // interface compliance check

func NewSessionRepository(db *DB) user.SessionRepository {
	return &sessionRepository{db: db.session}
}

func (repo *sessionRepository) CreateSession(ctx context.Context, sess user.Session) (user.Session, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[sess.Token] = &sess
	return sess, nil
}

func (repo *sessionRepository) GetSessionByToken(ctx context.Context, token string) (user.Session, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sess, ok := repo.db.table[token]; ok {
		return *sess, nil
	}
	return user.Session{}, user.ErrNoSession
}

func (repo *sessionRepository) DeleteSessionByToken(ctx context.Context, token string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	delete(repo.db.table, token)
	return nil
}

func (repo *sessionRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for token, sess := range repo.db.table {
		if sess.Expired(now) {
			delete(repo.db.table, token)
		}
	}
	return nil
}
