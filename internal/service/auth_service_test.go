package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"bizdesk/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users map[string]*model.StoreUser // keyed by username
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.StoreUser, error) {
	if u, ok := f.users[username]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id int64) (*model.StoreUser, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.StoreUser, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeUserRepo) List(ctx context.Context, page, limit int) ([]model.StoreUser, int64, error) {
	return nil, 0, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.StoreUser) (*model.StoreUser, error) {
	return user, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, id int64, patch map[string]any) (*model.StoreUser, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeUserRepo) Delete(ctx context.Context, id int64) error { return nil }

type fakeSessionRepo struct {
	sessions map[string]*model.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*model.Session{}}
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *model.Session) error {
	f.sessions[session.Token] = session
	return nil
}

func (f *fakeSessionRepo) FindByToken(ctx context.Context, token string) (*model.Session, error) {
	if s, ok := f.sessions[token]; ok {
		return s, nil
	}
	return nil, errors.New("not found")
}

func (f *fakeSessionRepo) DeleteByToken(ctx context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

func (f *fakeSessionRepo) DeleteByUser(ctx context.Context, userID int64) error {
	for token, s := range f.sessions {
		if s.UserID == userID {
			delete(f.sessions, token)
		}
	}
	return nil
}

func (f *fakeSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

var testSecret = []byte("test-secret")

func seedUsers(t *testing.T) *fakeUserRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.MinCost)
	require.NoError(t, err)
	return &fakeUserRepo{users: map[string]*model.StoreUser{
		"alice": {ID: 1, Username: "alice", Name: "Alice", Email: "alice@example.com", Password: string(hash), Role: model.RoleAccounts, Status: model.UserStatusActive},
		"bob":   {ID: 2, Username: "bob", Password: "plaintext-pw", Role: model.RoleSales, Status: model.UserStatusActive},
		"carol": {ID: 3, Username: "carol", Password: string(hash), Role: model.RoleAdmin, Status: model.UserStatusDisabled},
	}}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success issues jwt and durable session", func(t *testing.T) {
		sessions := newFakeSessionRepo()
		svc := NewAuthService(seedUsers(t), sessions, testSecret)

		res, err := svc.Login(ctx, LoginRequest{Username: "Alice", Password: "s3cret!"})
		require.NoError(t, err)

		assert.Equal(t, "alice", res.User.Username)
		assert.Equal(t, model.RoleAccounts, res.User.Role)
		assert.Equal(t, "/accounts/ledger", res.LandingPath)
		assert.Contains(t, res.AllowedRoutes, "/accounts/trial-balance")

		token, err := jwt.Parse(res.Token, func(t *jwt.Token) (interface{}, error) { return testSecret, nil })
		require.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		jti := claims["jti"].(string)
		require.NotEmpty(t, jti)
		assert.Len(t, sessions.sessions, 1)

		session, err := svc.Resolve(ctx, jti)
		require.NoError(t, err)
		assert.Equal(t, int64(1), session.UserID)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		svc := NewAuthService(seedUsers(t), newFakeSessionRepo(), testSecret)
		_, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "nope"})
		assert.EqualError(t, err, "invalid username or password")
	})

	t.Run("unknown user gets the same error as wrong password", func(t *testing.T) {
		svc := NewAuthService(seedUsers(t), newFakeSessionRepo(), testSecret)
		_, err := svc.Login(ctx, LoginRequest{Username: "mallory", Password: "s3cret!"})
		assert.EqualError(t, err, "invalid username or password")
	})

	t.Run("selected role must match the account role", func(t *testing.T) {
		svc := NewAuthService(seedUsers(t), newFakeSessionRepo(), testSecret)
		_, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "s3cret!", Role: model.RoleSales})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "role")
	})

	t.Run("matching role selection passes", func(t *testing.T) {
		svc := NewAuthService(seedUsers(t), newFakeSessionRepo(), testSecret)
		_, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "s3cret!", Role: model.RoleAccounts})
		assert.NoError(t, err)
	})

	t.Run("legacy plaintext rows still authenticate", func(t *testing.T) {
		svc := NewAuthService(seedUsers(t), newFakeSessionRepo(), testSecret)
		res, err := svc.Login(ctx, LoginRequest{Username: "bob", Password: "plaintext-pw"})
		require.NoError(t, err)
		assert.Equal(t, "/sales", res.LandingPath)
	})

	t.Run("disabled account is rejected", func(t *testing.T) {
		svc := NewAuthService(seedUsers(t), newFakeSessionRepo(), testSecret)
		_, err := svc.Login(ctx, LoginRequest{Username: "carol", Password: "s3cret!"})
		assert.EqualError(t, err, "account is disabled")
	})
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	sessions := newFakeSessionRepo()
	svc := NewAuthService(seedUsers(t), sessions, testSecret).(*authService)

	_, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "s3cret!"})
	require.NoError(t, err)

	var jti string
	for token := range sessions.sessions {
		jti = token
	}
	require.NotEmpty(t, jti)

	t.Run("logout revokes the session", func(t *testing.T) {
		require.NoError(t, svc.Logout(ctx, jti))
		_, err := svc.Resolve(ctx, jti)
		assert.Error(t, err, "revoked session must not resolve")
	})

	t.Run("expired session is purged on resolve", func(t *testing.T) {
		_, err = svc.Login(ctx, LoginRequest{Username: "alice", Password: "s3cret!"})
		require.NoError(t, err)
		for token := range sessions.sessions {
			jti = token
		}

		svc.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
		_, err := svc.Resolve(ctx, jti)
		assert.Error(t, err)
		assert.Empty(t, sessions.sessions, "expired session row is deleted")
	})

	t.Run("invalidate drops a session unconditionally", func(t *testing.T) {
		svc.now = time.Now
		_, err := svc.Login(ctx, LoginRequest{Username: "bob", Password: "plaintext-pw"})
		require.NoError(t, err)
		for token := range sessions.sessions {
			jti = token
		}
		svc.Invalidate(ctx, jti)
		assert.Empty(t, sessions.sessions)
	})
}
