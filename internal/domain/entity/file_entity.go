package entity

import "time"

// File is the metadata of an uploaded object. URL is empty for private objects.
type File struct {
	ID           string
	BucketName   string
	Key          string
	URL          string
	MimeType     string
	Size         int64
	UploadedByID string
	CreatedAt    time.Time
}

func (f *File) IsPublic() bool { return f.URL != "" }
