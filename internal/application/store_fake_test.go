package application

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
)

// memDB is an in-memory database with all-or-nothing transactions.
type memDB struct {
	mu       sync.Mutex
	users    map[string]entity.User
	sessions map[string]entity.Session
	tokens   map[string]entity.VerificationToken
	files    map[string]entity.File

	failSessionCreate error
}

func newMemDB() *memDB {
	return &memDB{
		users:    map[string]entity.User{},
		sessions: map[string]entity.Session{},
		tokens:   map[string]entity.VerificationToken{},
		files:    map[string]entity.File{},
	}
}

type memSnapshot struct {
	users    map[string]entity.User
	sessions map[string]entity.Session
	tokens   map[string]entity.VerificationToken
	files    map[string]entity.File
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (db *memDB) snapshot() memSnapshot {
	db.mu.Lock()
	defer db.mu.Unlock()
	return memSnapshot{copyMap(db.users), copyMap(db.sessions), copyMap(db.tokens), copyMap(db.files)}
}

func (db *memDB) restore(s memSnapshot) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users, db.sessions, db.tokens, db.files = s.users, s.sessions, s.tokens, s.files
}

type memStore struct {
	db   *memDB
	inTx bool
}

func newMemStore() *memStore { return &memStore{db: newMemDB()} }

func (s *memStore) Users() repository.UserRepository       { return memUsers{s.db} }
func (s *memStore) Sessions() repository.SessionRepository { return memSessions{s.db} }
func (s *memStore) VerificationTokens() repository.VerificationTokenRepository {
	return memTokens{s.db}
}
func (s *memStore) Files() repository.FileRepository { return memFiles{s.db} }

func (s *memStore) WithTx(_ context.Context, fn func(repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	snap := s.db.snapshot()
	if err := fn(&memStore{db: s.db, inTx: true}); err != nil {
		s.db.restore(snap)
		return err
	}
	return nil
}

type memUsers struct{ db *memDB }

func (r memUsers) Create(_ context.Context, u *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, o := range r.db.users {
		if o.Email == u.Email || (u.Username != "" && o.Username == u.Username) {
			return repository.ErrDuplicate
		}
	}
	u.CreatedAt = time.Now()
	r.db.users[u.ID] = *u
	return nil
}

func (r memUsers) find(match func(entity.User) bool) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if match(u) {
			if f, ok := r.db.files[u.AvatarFileID]; ok {
				u.AvatarURL = f.URL
			}
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.ID == id })
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Email == email })
}

func (r memUsers) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Username != "" && u.Username == username })
}

func (r memUsers) update(id string, fn func(*entity.User) error) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if err := fn(&u); err != nil {
		return err
	}
	r.db.users[id] = u
	return nil
}

func (r memUsers) MarkVerified(_ context.Context, id string, at time.Time) error {
	return r.update(id, func(u *entity.User) error { u.VerifiedAt = &at; return nil })
}

func (r memUsers) SetSuspended(_ context.Context, id string, at *time.Time) error {
	return r.update(id, func(u *entity.User) error { u.SuspendedAt = at; return nil })
}

func (r memUsers) UpdateName(_ context.Context, id, name string) error {
	return r.update(id, func(u *entity.User) error { u.Name = name; return nil })
}

func (r memUsers) UpdateUsername(_ context.Context, id, username string) error {
	return r.update(id, func(u *entity.User) error {
		for _, o := range r.db.users {
			if o.ID != id && o.Username == username {
				return repository.ErrDuplicate
			}
		}
		u.Username = username
		return nil
	})
}

func (r memUsers) UpdatePassword(_ context.Context, id, hash string, at time.Time) error {
	return r.update(id, func(u *entity.User) error { u.PasswordHash = hash; u.PasswordUpdatedAt = &at; return nil })
}

func (r memUsers) SetAvatar(_ context.Context, id, fileID string) error {
	return r.update(id, func(u *entity.User) error { u.AvatarFileID = fileID; return nil })
}

type memSessions struct{ db *memDB }

func (r memSessions) Create(_ context.Context, s *entity.Session) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failSessionCreate != nil {
		return r.db.failSessionCreate
	}
	s.CreatedAt = time.Now()
	r.db.sessions[s.ID] = *s
	return nil
}

func (r memSessions) GetByIDAndUser(_ context.Context, id, userID string) (*entity.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.sessions[id]
	if !ok || s.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r memSessions) MarkInvoked(_ context.Context, id string, at time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.sessions[id]
	if !ok || s.InvokedAt != nil {
		return repository.ErrNotFound
	}
	s.InvokedAt = &at
	r.db.sessions[id] = s
	return nil
}

func (r memSessions) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for id, s := range r.db.sessions {
		if s.ExpiresAt.Before(before) {
			delete(r.db.sessions, id)
			n++
		}
	}
	return n, nil
}

type memTokens struct{ db *memDB }

func (r memTokens) Create(_ context.Context, t *entity.VerificationToken) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.tokens[t.Token]; ok {
		return repository.ErrDuplicate
	}
	r.db.tokens[t.Token] = *t
	return nil
}

func (r memTokens) Get(_ context.Context, token string) (*entity.VerificationToken, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, ok := r.db.tokens[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r memTokens) Delete(_ context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.tokens[token]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.tokens, token)
	return nil
}

func (r memTokens) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var n int64
	for k, t := range r.db.tokens {
		if t.ExpiresAt.Before(before) {
			delete(r.db.tokens, k)
			n++
		}
	}
	return n, nil
}

type memFiles struct{ db *memDB }

func (r memFiles) Create(_ context.Context, f *entity.File) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.files[f.ID] = *f
	return nil
}

func (r memFiles) GetByID(_ context.Context, id string) (*entity.File, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	f, ok := r.db.files[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &f, nil
}

// memBucket records uploads.
type memBucket struct {
	name    string
	base    string
	puts    map[string][]byte
	failPut error
}

func newMemBucket(name string) *memBucket {
	return &memBucket{name: name, base: "http://localhost:9000/" + name, puts: map[string][]byte{}}
}

func (b *memBucket) Name() string { return b.name }

func (b *memBucket) Put(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	if b.failPut != nil {
		return b.failPut
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return err
	}
	b.puts[key] = buf.Bytes()
	return nil
}

func (b *memBucket) PublicURL(key string) string { return b.base + "/" + key }

// fakeMailer captures verification mails.
type fakeMailer struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	email, token string
	expiresAt    time.Time
}

func (m *fakeMailer) SendVerification(_ context.Context, email, token string, expiresAt time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{email, token, expiresAt})
	return nil
}

var errBoom = errors.New("boom")
