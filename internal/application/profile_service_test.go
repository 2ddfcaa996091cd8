package application

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)
	jpegBytes = append([]byte("\xFF\xD8\xFF\xE0"), make([]byte, 64)...)
)

type fakeIndex struct {
	indexed []string
	results []entity.Profile
}

func (x *fakeIndex) Index(_ context.Context, u *entity.User) error {
	x.indexed = append(x.indexed, u.ID)
	return nil
}

func (x *fakeIndex) Search(_ context.Context, _ string, size int) ([]entity.Profile, error) {
	if len(x.results) > size {
		return x.results[:size], nil
	}
	return x.results, nil
}

type profileFixture struct {
	store   *memStore
	public  *memBucket
	private *memBucket
	index   *fakeIndex
	svc     *ProfileService
}

func newProfileFixture(t *testing.T) *profileFixture {
	t.Helper()
	f := &profileFixture{
		store:   newMemStore(),
		public:  newMemBucket("resources"),
		private: newMemBucket("assets"),
		index:   &fakeIndex{},
	}
	f.svc = NewProfileService(f.store, NewFileService(f.public, f.private), f.index, quietLogger())
	return f
}

func (f *profileFixture) addUser(t *testing.T, id, email, username string) {
	t.Helper()
	now := time.Now()
	require.NoError(t, f.store.Users().Create(context.Background(), &entity.User{
		ID: id, Email: email, Username: username, PasswordHash: "x", VerifiedAt: &now,
	}))
}

func TestSetup_SetsNameAndUsername(t *testing.T) {
	f := newProfileFixture(t)
	f.addUser(t, "u1", "jane@example.com", "")

	p, err := f.svc.Setup(context.Background(), "u1", " Jane Doe ", "Jane_Doe")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", p.Name)
	assert.Equal(t, "jane_doe", p.Username)
	assert.Equal(t, []string{"u1"}, f.index.indexed)
}

func TestSetup_UsernameTakenLeavesOwnerUntouched(t *testing.T) {
	f := newProfileFixture(t)
	f.addUser(t, "owner", "owner@example.com", "taken_name")
	f.addUser(t, "u1", "jane@example.com", "")

	_, err := f.svc.Setup(context.Background(), "u1", "Jane", "taken_name")
	ae := requireAppError(t, err, http.StatusConflict)
	assert.Equal(t, map[string]string{"username": msgUsernameConflict}, ae.Details)

	owner, _ := f.store.Users().GetByID(context.Background(), "owner")
	assert.Equal(t, "taken_name", owner.Username)
	me, _ := f.store.Users().GetByID(context.Background(), "u1")
	assert.Empty(t, me.Name)
	assert.Empty(t, me.Username)
}

func TestUpdateUsername(t *testing.T) {
	f := newProfileFixture(t)
	f.addUser(t, "owner", "owner@example.com", "taken_name")
	f.addUser(t, "u1", "jane@example.com", "jane_doe")

	err := f.svc.UpdateUsername(context.Background(), "u1", "taken_name")
	requireAppError(t, err, http.StatusConflict)

	require.NoError(t, f.svc.UpdateUsername(context.Background(), "u1", "jane_doe"))
	require.NoError(t, f.svc.UpdateUsername(context.Background(), "u1", "jane_new"))

	owner, _ := f.store.Users().GetByID(context.Background(), "owner")
	assert.Equal(t, "taken_name", owner.Username)
	me, _ := f.store.Users().GetByID(context.Background(), "u1")
	assert.Equal(t, "jane_new", me.Username)
}

func TestGetMe(t *testing.T) {
	f := newProfileFixture(t)
	f.addUser(t, "u1", "jane@example.com", "jane_doe")

	p, err := f.svc.GetMe(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, "jane@example.com", p.Email)
	assert.NotNil(t, p.VerifiedAt)

	_, err = f.svc.GetMe(context.Background(), "ghost")
	requireAppError(t, err, http.StatusNotFound)
}

func TestUpdateName_UnknownUser(t *testing.T) {
	f := newProfileFixture(t)
	err := f.svc.UpdateName(context.Background(), "ghost", "Ghost")
	requireAppError(t, err, http.StatusNotFound)
}

func TestUpdateAvatar_RejectsBeforeAnyWrite(t *testing.T) {
	f := newProfileFixture(t)
	f.addUser(t, "u1", "jane@example.com", "jane_doe")

	big := append(append([]byte{}, pngBytes...), make([]byte, MaxAvatarSize)...)
	_, err := f.svc.UpdateAvatar(context.Background(), "u1", int64(len(big)), big)
	ae := requireAppError(t, err, http.StatusUnprocessableEntity)
	assert.Equal(t, msgFileTooLarge, ae.Message)

	_, err = f.svc.UpdateAvatar(context.Background(), "u1", 2*MaxAvatarSize, pngBytes)
	requireAppError(t, err, http.StatusUnprocessableEntity)

	gif := []byte("GIF89a" + strings.Repeat("\x00", 32))
	_, err = f.svc.UpdateAvatar(context.Background(), "u1", int64(len(gif)), gif)
	ae = requireAppError(t, err, http.StatusUnprocessableEntity)
	assert.Equal(t, msgFileType, ae.Message)

	assert.Empty(t, f.public.puts)
	assert.Empty(t, f.store.db.files)
}

func TestUpdateAvatar_UploadsAndLinks(t *testing.T) {
	f := newProfileFixture(t)
	f.addUser(t, "u1", "jane@example.com", "jane_doe")

	url, err := f.svc.UpdateAvatar(context.Background(), "u1", int64(len(pngBytes)), pngBytes)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:9000/resources/avatars/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	require.Len(t, f.public.puts, 1)
	for key, body := range f.public.puts {
		assert.True(t, strings.HasPrefix(key, "avatars/"))
		assert.True(t, bytes.Equal(pngBytes, body))
	}

	me, err := f.svc.GetMe(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, url, me.Avatar)

	url2, err := f.svc.UpdateAvatar(context.Background(), "u1", int64(len(jpegBytes)), jpegBytes)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url2, ".jpg"))
}

func TestUpdateAvatar_StorageFailureLeavesUserUnchanged(t *testing.T) {
	f := newProfileFixture(t)
	f.addUser(t, "u1", "jane@example.com", "jane_doe")
	f.public.failPut = errBoom

	_, err := f.svc.UpdateAvatar(context.Background(), "u1", int64(len(pngBytes)), pngBytes)
	require.ErrorIs(t, err, errBoom)

	me, _ := f.store.Users().GetByID(context.Background(), "u1")
	assert.Empty(t, me.AvatarFileID)
}

func TestSearch(t *testing.T) {
	f := newProfileFixture(t)
	f.index.results = []entity.Profile{{ID: "a"}, {ID: "b"}}

	got, err := f.svc.Search(context.Background(), "  ", 10)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = f.svc.Search(context.Background(), "jane", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	disabled := NewProfileService(f.store, nil, nil, quietLogger())
	got, err = disabled.Search(context.Background(), "jane", 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFileService_UploadPrivateHasNoURL(t *testing.T) {
	f := newProfileFixture(t)
	f.addUser(t, "u1", "jane@example.com", "jane_doe")
	files := NewFileService(f.public, f.private)

	file, err := files.UploadPrivate(context.Background(), f.store, "u1", "docs/report.pdf", "application/pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.False(t, file.IsPublic())
	assert.Equal(t, "assets", file.BucketName)
	assert.Contains(t, f.private.puts, "docs/report.pdf")
	assert.Empty(t, f.public.puts)
}
