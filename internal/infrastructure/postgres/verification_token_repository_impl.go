package postgres

import (
	"context"
	"time"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
)

type VerificationTokenRepository struct {
	db DBTX
}

func NewVerificationTokenRepository(db DBTX) *VerificationTokenRepository {
	return &VerificationTokenRepository{db: db}
}

func (r *VerificationTokenRepository) Create(ctx context.Context, t *entity.VerificationToken) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO user_verification_tokens (token, user_id, type, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, t.Token, t.UserID, string(t.Type), t.ExpiresAt)
	return mapError(row.Scan(&t.CreatedAt))
}

func (r *VerificationTokenRepository) Get(ctx context.Context, token string) (*entity.VerificationToken, error) {
	var (
		t   entity.VerificationToken
		typ string
	)
	err := r.db.QueryRow(ctx, `
		SELECT token, user_id, type, expires_at, created_at
		FROM user_verification_tokens
		WHERE token = $1
	`, token).Scan(&t.Token, &t.UserID, &typ, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	t.Type = entity.VerificationTokenType(typ)
	return &t, nil
}

func (r *VerificationTokenRepository) Delete(ctx context.Context, token string) error {
	return expectOne(r.db.Exec(ctx, `DELETE FROM user_verification_tokens WHERE token = $1`, token))
}

func (r *VerificationTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM user_verification_tokens WHERE expires_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
