package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
)

type SessionRepository struct {
	db DBTX
}

func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, s *entity.Session) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO user_sessions (id, user_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, s.ID, s.UserID, s.ExpiresAt)
	return mapError(row.Scan(&s.CreatedAt))
}

func (r *SessionRepository) GetByIDAndUser(ctx context.Context, id, userID string) (*entity.Session, error) {
	var (
		s       entity.Session
		invoked pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, expires_at, invoked_at, created_at
		FROM user_sessions
		WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(&s.ID, &s.UserID, &s.ExpiresAt, &invoked, &s.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	s.InvokedAt = timePtr(invoked)
	return &s, nil
}

// MarkInvoked consumes the session. It only matches sessions not yet invoked,
// so a concurrent second refresh with the same token gets ErrNotFound.
func (r *SessionRepository) MarkInvoked(ctx context.Context, id string, at time.Time) error {
	return expectOne(r.db.Exec(ctx,
		`UPDATE user_sessions SET invoked_at = $2 WHERE id = $1 AND invoked_at IS NULL`, id, at))
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM user_sessions WHERE expires_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
