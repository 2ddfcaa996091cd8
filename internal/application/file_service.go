package application

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
)

// ObjectBucket is the storage side of an upload. Implemented by storage.S3Bucket and storage.GCSBucket.
type ObjectBucket interface {
	Name() string
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	PublicURL(key string) string
}

// FileService writes objects to the public or private bucket and records them in files.
type FileService struct {
	public  ObjectBucket
	private ObjectBucket
	now     func() time.Time
}

func NewFileService(public, private ObjectBucket) *FileService {
	return &FileService{public: public, private: private, now: time.Now}
}

// UploadPublic stores data in the public bucket and records its URL.
func (s *FileService) UploadPublic(ctx context.Context, store repository.Store, uploaderID, key, mimeType string, data []byte) (*entity.File, error) {
	return s.upload(ctx, store, s.public, true, uploaderID, key, mimeType, data)
}

// UploadPrivate stores data in the private bucket. No URL is recorded.
func (s *FileService) UploadPrivate(ctx context.Context, store repository.Store, uploaderID, key, mimeType string, data []byte) (*entity.File, error) {
	return s.upload(ctx, store, s.private, false, uploaderID, key, mimeType, data)
}

func (s *FileService) upload(ctx context.Context, store repository.Store, bucket ObjectBucket, public bool, uploaderID, key, mimeType string, data []byte) (*entity.File, error) {
	if bucket == nil {
		return nil, fmt.Errorf("bucket not configured")
	}
	size := int64(len(data))
	if err := bucket.Put(ctx, key, mimeType, bytes.NewReader(data), size); err != nil {
		return nil, fmt.Errorf("put %s/%s: %w", bucket.Name(), key, err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	f := &entity.File{
		ID:           id.String(),
		BucketName:   bucket.Name(),
		Key:          key,
		MimeType:     mimeType,
		Size:         size,
		UploadedByID: uploaderID,
		CreatedAt:    s.now(),
	}
	if public {
		f.URL = bucket.PublicURL(key)
	}
	if err := store.Files().Create(ctx, f); err != nil {
		return nil, fmt.Errorf("record file: %w", err)
	}
	return f, nil
}
