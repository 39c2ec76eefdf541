// Package testutil holds in-memory stand-ins for the store, cache and mailer.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fomongole/User-Management-Api/internal/mail"
	"github.com/fomongole/User-Management-Api/internal/model"
	"github.com/fomongole/User-Management-Api/internal/repository"
)

// MemoryUserRepository is a repository.UserRepository backed by a map, with
// the unique email constraint enforced.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]model.User
	// FindByIDCalls counts store lookups by id, for cache hit assertions.
	FindByIDCalls int
}

var _ repository.UserRepository = (*MemoryUserRepository)(nil)

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]model.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; ok {
		return repository.ErrDuplicateKey
	}
	if r.emailTakenLocked(user.Email, "") {
		return repository.ErrDuplicateKey
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	r.users[user.ID] = clone(*user)
	return nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.FindByIDCalls++
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := clone(u)
	return &c, nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			c := clone(u)
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *MemoryUserRepository) ConsumeVerificationToken(_ context.Context, tokenHash string, now time.Time) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		if u.VerificationTokenHash == nil || *u.VerificationTokenHash != tokenHash {
			continue
		}
		if u.VerificationTokenExpiry == nil || !u.VerificationTokenExpiry.After(now) {
			return nil, repository.ErrNotFound
		}
		u.IsVerified = true
		u.ClearVerificationToken()
		u.UpdatedAt = now
		r.users[id] = u
		c := clone(u)
		return &c, nil
	}
	return nil, repository.ErrNotFound
}

func (r *MemoryUserRepository) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.emailTakenLocked(user.Email, user.ID) {
		return repository.ErrDuplicateKey
	}
	user.UpdatedAt = time.Now().UTC()
	r.users[user.ID] = clone(*user)
	return nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *MemoryUserRepository) List(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, clone(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Count returns the number of stored users.
func (r *MemoryUserRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// Put stores user as is, bypassing constraints.
func (r *MemoryUserRepository) Put(user model.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = clone(user)
}

func (r *MemoryUserRepository) emailTakenLocked(email, exceptID string) bool {
	for id, u := range r.users {
		if id != exceptID && u.Email == email {
			return true
		}
	}
	return false
}

func clone(u model.User) model.User {
	if u.VerificationTokenHash != nil {
		h := *u.VerificationTokenHash
		u.VerificationTokenHash = &h
	}
	if u.VerificationTokenExpiry != nil {
		e := *u.VerificationTokenExpiry
		u.VerificationTokenExpiry = &e
	}
	return u
}

// MemoryCache is a fail-open key/value cache kept in a map. TTLs are recorded
// but not enforced.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	TTLs    map[string]time.Duration
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]byte), TTLs: make(map[string]time.Duration)}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = append([]byte(nil), value...)
	c.TTLs[key] = ttl
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Has reports whether key holds a value.
func (c *MemoryCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// RecordingMailer keeps every message it is asked to send. When Err is set,
// Send fails with it instead.
type RecordingMailer struct {
	mu   sync.Mutex
	Sent []mail.Message
	Err  error
}

func (m *RecordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

// Last returns the most recent message, or false if none was sent.
func (m *RecordingMailer) Last() (mail.Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return mail.Message{}, false
	}
	return m.Sent[len(m.Sent)-1], true
}

// VerificationToken extracts the plain token from the link at the end of a
// verification email.
func VerificationToken(msg mail.Message) string {
	body := strings.TrimSpace(msg.Body)
	return body[strings.LastIndex(body, "/")+1:]
}
