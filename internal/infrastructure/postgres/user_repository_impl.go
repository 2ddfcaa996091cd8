package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `
	u.id, u.email, u.name, u.username, u.password_hash, u.avatar_file_id, f.url,
	u.password_updated_at, u.verified_at, u.suspended_at, u.created_at`

const userFrom = `
	FROM users u
	LEFT JOIN files f ON f.id = u.avatar_file_id`

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (id, email, name, username, password_hash, verified_at, suspended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, u.ID, u.Email, nullString(u.Name), nullString(u.Username), u.PasswordHash,
		nullTime(u.VerifiedAt), nullTime(u.SuspendedAt))

	return mapError(row.Scan(&u.CreatedAt))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+userFrom+` WHERE u.id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+userFrom+` WHERE u.email = $1`, email)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+userFrom+` WHERE u.username = $1`, username)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var (
		u                                     entity.User
		name, username, avatarID, avatarURL   pgtype.Text
		pwdUpdatedAt, verifiedAt, suspendedAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &name, &username, &u.PasswordHash, &avatarID, &avatarURL,
		&pwdUpdatedAt, &verifiedAt, &suspendedAt, &u.CreatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	u.Name = textValue(name)
	u.Username = textValue(username)
	u.AvatarFileID = textValue(avatarID)
	u.AvatarURL = textValue(avatarURL)
	u.PasswordUpdatedAt = timePtr(pwdUpdatedAt)
	u.VerifiedAt = timePtr(verifiedAt)
	u.SuspendedAt = timePtr(suspendedAt)
	return &u, nil
}

func (r *UserRepository) MarkVerified(ctx context.Context, id string, at time.Time) error {
	return expectOne(r.db.Exec(ctx, `UPDATE users SET verified_at = $2 WHERE id = $1`, id, at))
}

func (r *UserRepository) SetSuspended(ctx context.Context, id string, at *time.Time) error {
	return expectOne(r.db.Exec(ctx, `UPDATE users SET suspended_at = $2 WHERE id = $1`, id, nullTime(at)))
}

func (r *UserRepository) UpdateName(ctx context.Context, id, name string) error {
	return expectOne(r.db.Exec(ctx, `UPDATE users SET name = $2 WHERE id = $1`, id, name))
}

func (r *UserRepository) UpdateUsername(ctx context.Context, id, username string) error {
	return expectOne(r.db.Exec(ctx, `UPDATE users SET username = $2 WHERE id = $1`, id, username))
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string, at time.Time) error {
	return expectOne(r.db.Exec(ctx,
		`UPDATE users SET password_hash = $2, password_updated_at = $3 WHERE id = $1`, id, hash, at))
}

func (r *UserRepository) SetAvatar(ctx context.Context, id, fileID string) error {
	return expectOne(r.db.Exec(ctx, `UPDATE users SET avatar_file_id = $2 WHERE id = $1`, id, fileID))
}
