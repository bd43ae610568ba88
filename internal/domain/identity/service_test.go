package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmawatch/pharmawatch/internal/platform/auth"
)

type memRepo struct {
	users map[string]*User
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[string]*User)}
}

func (m *memRepo) Create(_ context.Context, u *User) error {
	if _, ok := m.users[u.Username]; ok {
		return ErrDuplicateUsername
	}
	cp := *u
	m.users[u.Username] = &cp
	return nil
}

func (m *memRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) List(_ context.Context) ([]*User, error) {
	var out []*User
	for _, u := range m.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func newTestService() (*Service, *memRepo) {
	repo := newMemRepo()
	svc := NewService(repo, "test-secret")
	svc.SetClock(func() time.Time { return time.Now().Truncate(time.Second) })
	return svc, repo
}

func TestCreateUserAndLogin(t *testing.T) {
	svc, _ := newTestService()

	u, err := svc.CreateUser(context.Background(), "pharmacist1", "s3cret-pass", auth.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleUser, u.Role)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)

	token, logged, err := svc.Login(context.Background(), "pharmacist1", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "pharmacist1", logged.Username)

	claims, err := auth.ParseToken("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, "pharmacist1", claims.Username)
	assert.Equal(t, auth.RoleUser, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.CreateUser(context.Background(), "pharmacist1", "s3cret-pass", auth.RoleUser)
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "pharmacist1", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newTestService()
	_, _, err := svc.Login(context.Background(), "nobody", "whatever1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateUserValidation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateUser(context.Background(), "", "s3cret-pass", auth.RoleUser)
	assert.Error(t, err)

	_, err = svc.CreateUser(context.Background(), "shorty", "short", auth.RoleUser)
	assert.Error(t, err)

	_, err = svc.CreateUser(context.Background(), "weirdo", "s3cret-pass", auth.Role("superuser"))
	assert.Error(t, err)
}

func TestCreateUserDuplicate(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateUser(context.Background(), "pharmacist1", "s3cret-pass", auth.RoleUser)
	require.NoError(t, err)
	_, err = svc.CreateUser(context.Background(), "pharmacist1", "other-pass1", auth.RoleAdmin)
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestEnsureAdmin(t *testing.T) {
	svc, repo := newTestService()

	require.NoError(t, svc.EnsureAdmin(context.Background(), "admin", "admin-pass-1"))
	require.Len(t, repo.users, 1)
	assert.Equal(t, auth.RoleAdmin, repo.users["admin"].Role)
	firstHash := repo.users["admin"].PasswordHash

	// Second call is a no-op, even with a different password.
	require.NoError(t, svc.EnsureAdmin(context.Background(), "admin", "different-pass"))
	require.Len(t, repo.users, 1)
	assert.Equal(t, firstHash, repo.users["admin"].PasswordHash)
}
