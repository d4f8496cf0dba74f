// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/plume/internal/platform/apperr"
	"github.com/taibuivan/plume/internal/platform/middleware"
	"github.com/taibuivan/plume/internal/platform/sec"
	"github.com/taibuivan/plume/internal/users/auth"
)

type memoryUsers struct {
	users   []*auth.User
	touched map[string]time.Time
}

func (repo *memoryUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	for _, user := range repo.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUsers) FindByLogin(_ context.Context, login string) (*auth.User, error) {
	for _, user := range repo.users {
		if strings.EqualFold(user.Email, login) || strings.EqualFold(user.Username, login) {
			return user, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryUsers) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	repo.touched[id] = at
	return nil
}

type fixture struct {
	service *auth.Service
	users   *memoryUsers
	tokens  *sec.TokenService
	redis   *miniredis.Miniredis
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	hash, err := sec.HashPassword("correct horse battery")
	require.NoError(t, err)

	users := &memoryUsers{
		users: []*auth.User{
			{ID: "u-editor", Username: "camille", Email: "camille@plume.blog", PasswordHash: hash, Role: sec.RoleEditor, IsActive: true},
		},
		touched: make(map[string]time.Time),
	}

	tokens, err := sec.NewHMACTokenService([]byte("0123456789abcdef0123456789abcdef"), "plume.test", 15*time.Minute)
	require.NoError(t, err)

	server, client := newRedis(t)
	service := auth.NewService(users, auth.NewSessionRepository(client), tokens)

	return &fixture{service: service, users: users, tokens: tokens, redis: server}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	session, err := f.service.Login(context.Background(), auth.LoginInput{Login: "CAMILLE@plume.blog", Password: "correct horse battery"})
	require.NoError(t, err)

	principal, err := f.tokens.Verify(session.AccessToken.Value)
	require.NoError(t, err)
	assert.Equal(t, "u-editor", principal.ID)
	assert.Equal(t, sec.RoleEditor, principal.Role)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Contains(t, f.users.touched, "u-editor")
}

func TestLogin_Failures(t *testing.T) {
	f := newFixture(t)

	for _, input := range []auth.LoginInput{
		{Login: "camille", Password: "wrong"},
		{Login: "nobody", Password: "correct horse battery"},
	} {
		_, err := f.service.Login(context.Background(), input)
		assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	}
}

func TestRefreshSession_Rotates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.service.Login(ctx, auth.LoginInput{Login: "camille", Password: "correct horse battery"})
	require.NoError(t, err)

	rotated, err := f.service.RefreshSession(ctx, first.RefreshToken, "test", "127.0.0.1")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, rotated.RefreshToken)

	// The consumed token cannot be replayed.
	_, err = f.service.RefreshSession(ctx, first.RefreshToken, "test", "127.0.0.1")
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

func TestRefreshSession_ConcurrentReplayRotatesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.service.Login(ctx, auth.LoginInput{Login: "camille", Password: "correct horse battery"})
	require.NoError(t, err)

	var rotated atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.service.RefreshSession(ctx, session.RefreshToken, "test", "127.0.0.1"); err == nil {
				rotated.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), rotated.Load())
}

func TestLogout_StoreFailureIsReported(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.service.Login(ctx, auth.LoginInput{Login: "camille", Password: "correct horse battery"})
	require.NoError(t, err)

	f.redis.Close()

	assert.Error(t, f.service.Logout(ctx, session.RefreshToken))
}

/*
TestLogout_AccessTokenSurvives documents advisory logout: the refresh session
is gone but the access token verifies until it expires.
*/
func TestLogout_AccessTokenSurvives(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.service.Login(ctx, auth.LoginInput{Login: "camille", Password: "correct horse battery"})
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, session.RefreshToken))
	require.NoError(t, f.service.Logout(ctx, session.RefreshToken))

	_, err = f.service.RefreshSession(ctx, session.RefreshToken, "", "")
	assert.Error(t, err)

	_, err = f.tokens.Verify(session.AccessToken.Value)
	assert.NoError(t, err)
}

func TestHandler_LoginAndMe(t *testing.T) {
	f := newFixture(t)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(f.tokens))
	router.Mount("/api/v1/auth", auth.NewHandler(f.service).Routes())

	request := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"login":"camille","password":"correct horse battery"}`))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.Contains(t, recorder.Header().Get("Set-Cookie"), "refresh_token=")
	assert.Contains(t, recorder.Body.String(), `"token_type":"Bearer"`)
	assert.NotContains(t, recorder.Body.String(), "password")

	token, err := f.tokens.Issue(&sec.Principal{ID: "u-editor", Username: "camille", Role: sec.RoleEditor})
	require.NoError(t, err)

	me := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	me.Header.Set("Authorization", "Bearer "+token.Value)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, me)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":{"id":"u-editor","username":"camille","role":"editeur"}}`, recorder.Body.String())

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestLogoutEverywhere(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	input := auth.LoginInput{Login: "camille", Password: "correct horse battery"}

	laptop, err := f.service.Login(ctx, input)
	require.NoError(t, err)
	phone, err := f.service.Login(ctx, input)
	require.NoError(t, err)

	err = f.service.LogoutEverywhere(ctx, sec.Anonymous())
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	require.NoError(t, f.service.LogoutEverywhere(ctx, &sec.Principal{ID: "u-editor", Role: sec.RoleEditor}))

	for _, session := range []*auth.LoginSession{laptop, phone} {
		_, err := f.service.RefreshSession(ctx, session.RefreshToken, "", "")
		assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	}
}
