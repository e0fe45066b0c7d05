package service

import (
	"context"
	"strings"
	"time"

	"github.com/contentdee/contentdee/internal/model"
	"github.com/contentdee/contentdee/internal/repository"
)

// In-memory fakes for the repository interfaces. They enforce the same
// case-insensitive uniqueness rules as the SQL layer so the services can
// be exercised end to end without a database.

type memUserRepo struct {
	users map[string]*model.User // keyed by id
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*model.User{}}
}

func (m *memUserRepo) Create(user *model.User) error {
	for _, u := range m.users {
		if strings.EqualFold(u.Username, user.Username) {
			return repository.ErrDuplicateUsername
		}
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrDuplicateEmail
		}
		if strings.EqualFold(u.Subdomain, user.Subdomain) {
			return repository.ErrDuplicateSubdomain
		}
		if u.AuthProvider != nil && user.AuthProvider != nil &&
			*u.AuthProvider == *user.AuthProvider && *u.ProviderID == *user.ProviderID {
			return repository.ErrDuplicateProviderIdentity
		}
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memUserRepo) ByID(id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *memUserRepo) find(match func(*model.User) bool) (*model.User, error) {
	for _, u := range m.users {
		if match(u) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUserRepo) ByUsername(username string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return strings.EqualFold(u.Username, username) })
}

func (m *memUserRepo) ByEmail(email string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return strings.EqualFold(u.Email, email) })
}

func (m *memUserRepo) BySubdomain(subdomain string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return strings.EqualFold(u.Subdomain, subdomain) })
}

func (m *memUserRepo) ByProvider(provider model.Provider, providerID string) (*model.User, error) {
	return m.find(func(u *model.User) bool {
		return u.AuthProvider != nil && *u.AuthProvider == provider.String() &&
			u.ProviderID != nil && *u.ProviderID == providerID
	})
}

func (m *memUserRepo) SubdomainExists(subdomain string) (bool, error) {
	_, err := m.BySubdomain(subdomain)
	return err == nil, nil
}

func (m *memUserRepo) All() ([]*model.User, error) {
	out := make([]*model.User, 0, len(m.users))
	for _, u := range m.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

type memSessionRepo struct {
	sessions  map[string]*model.Session
	createErr error
	deleteErr error
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: map[string]*model.Session{}}
}

func (m *memSessionRepo) Create(session *model.Session) error {
	if m.createErr != nil {
		return m.createErr
	}
	clone := *session
	m.sessions[session.ID] = &clone
	return nil
}

func (m *memSessionRepo) ByID(id string) (*model.Session, error) {
	s, ok := m.sessions[id]
	if !ok || s.Expired(time.Now()) {
		return nil, repository.ErrSessionNotFound
	}
	clone := *s
	return &clone, nil
}

func (m *memSessionRepo) Delete(id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.sessions[id]; !ok {
		return repository.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *memSessionRepo) DeleteExpired() (int64, error) {
	var n int64
	for id, s := range m.sessions {
		if s.Expired(time.Now()) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

type memContentRepo struct {
	items map[string]*model.ContentItem
}

func newMemContentRepo() *memContentRepo {
	return &memContentRepo{items: map[string]*model.ContentItem{}}
}

func (m *memContentRepo) Create(item *model.ContentItem) error {
	clone := *item
	m.items[item.ID] = &clone
	return nil
}

func (m *memContentRepo) ByID(id string) (*model.ContentItem, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, repository.ErrContentNotFound
	}
	clone := *it
	return &clone, nil
}

func (m *memContentRepo) ByUserID(userID string) ([]*model.ContentItem, error) {
	var out []*model.ContentItem
	for _, it := range m.items {
		if it.UserID == userID {
			clone := *it
			out = append(out, &clone)
		}
	}
	// newest first, like the SQL layer
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.After(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (m *memContentRepo) Update(item *model.ContentItem) error {
	if _, ok := m.items[item.ID]; !ok {
		return repository.ErrContentNotFound
	}
	clone := *item
	m.items[item.ID] = &clone
	return nil
}

func (m *memContentRepo) Delete(id string) (bool, error) {
	if _, ok := m.items[id]; !ok {
		return false, nil
	}
	delete(m.items, id)
	return true, nil
}

type stubGenerator struct {
	lastReq GenerationRequest
	out     *GeneratedCopy
	err     error
}

func (g *stubGenerator) Generate(_ context.Context, req GenerationRequest) (*GeneratedCopy, error) {
	g.lastReq = req
	if g.err != nil {
		return nil, g.err
	}
	return g.out, nil
}

func newTestAuthService(users *memUserRepo, sessions *memSessionRepo) *AuthService {
	return NewAuthService(users, sessions, nil, false, 7*24*time.Hour)
}
