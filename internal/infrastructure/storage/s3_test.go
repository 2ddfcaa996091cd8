package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-account-service/config"
)

func TestS3PublicURL(t *testing.T) {
	tests := []struct {
		name string
		bc   config.BucketConfig
		key  string
		want string
	}{
		{
			name: "path style",
			bc:   config.BucketConfig{Endpoint: "http://localhost:9000", Bucket: "resources", ForcePathStyle: true},
			key:  "avatars/a.png",
			want: "http://localhost:9000/resources/avatars/a.png",
		},
		{
			name: "path style strips slashes",
			bc:   config.BucketConfig{Endpoint: "http://localhost:9000/", Bucket: "resources", ForcePathStyle: true},
			key:  "/avatars/a.png",
			want: "http://localhost:9000/resources/avatars/a.png",
		},
		{
			name: "virtual hosted keeps port",
			bc:   config.BucketConfig{Endpoint: "https://cdn.example.com:8443", Bucket: "resources"},
			key:  "avatars/a.png",
			want: "https://resources.cdn.example.com:8443/avatars/a.png",
		},
		{
			name: "aws default endpoint",
			bc:   config.BucketConfig{Region: "eu-west-1", Bucket: "resources"},
			key:  "a.png",
			want: "https://resources.s3.eu-west-1.amazonaws.com/a.png",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, S3PublicURL(tt.bc, tt.key))
		})
	}
}

func TestS3Bucket_Put(t *testing.T) {
	var (
		gotPath, gotType string
		gotBody          []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	b, err := NewS3Bucket(context.Background(), config.BucketConfig{
		Endpoint:        srv.URL,
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		Region:          "us-east-1",
		Bucket:          "resources",
		ForcePathStyle:  true,
	})
	require.NoError(t, err)

	require.NoError(t, b.Put(context.Background(), "avatars/a.png", "image/png", strings.NewReader("png-bytes"), 9))
	assert.Equal(t, "/resources/avatars/a.png", gotPath)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, "png-bytes", string(gotBody))
	assert.Equal(t, srv.URL+"/resources/avatars/a.png", b.PublicURL("avatars/a.png"))
}
