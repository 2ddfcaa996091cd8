package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
)

type FileRepository struct {
	db DBTX
}

func NewFileRepository(db DBTX) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(ctx context.Context, f *entity.File) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO files (id, bucket_name, key, url, mime_type, size, uploaded_by_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, f.ID, f.BucketName, f.Key, nullString(f.URL), f.MimeType, f.Size, f.UploadedByID)
	return mapError(row.Scan(&f.CreatedAt))
}

func (r *FileRepository) GetByID(ctx context.Context, id string) (*entity.File, error) {
	var (
		f   entity.File
		url pgtype.Text
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, bucket_name, key, url, mime_type, size, uploaded_by_id, created_at
		FROM files
		WHERE id = $1
	`, id).Scan(&f.ID, &f.BucketName, &f.Key, &url, &f.MimeType, &f.Size, &f.UploadedByID, &f.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	f.URL = textValue(url)
	return &f, nil
}
