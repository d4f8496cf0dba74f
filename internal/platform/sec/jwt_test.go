// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/plume/internal/platform/sec"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newHMACService(t *testing.T) *sec.TokenService {
	t.Helper()
	service, err := sec.NewHMACTokenService([]byte(testSecret), "plume.test", 15*time.Minute)
	require.NoError(t, err)
	return service
}

/*
TestTokenService_IssueVerify checks the happy path for both signing modes.
*/
func TestTokenService_IssueVerify(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	rsaService, err := sec.NewRSATokenService(key, "plume.test", time.Minute)
	require.NoError(t, err)

	services := map[string]*sec.TokenService{
		"hs256": newHMACService(t),
		"rs256": rsaService,
	}

	for name, service := range services {
		t.Run(name, func(t *testing.T) {
			principal := &sec.Principal{ID: "42", Username: "camille", Role: sec.RoleEditor}

			token, err := service.Issue(principal)
			require.NoError(t, err)
			assert.Equal(t, service.TimeToLive(), token.ExpiresAt.Sub(token.IssuedAt))

			resolved, err := service.Verify(token.Value)
			require.NoError(t, err)
			assert.Equal(t, principal, resolved)
		})
	}
}

/*
TestTokenService_Expired ensures a token past its expiry always fails.
*/
func TestTokenService_Expired(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	service := newHMACService(t).WithClock(func() time.Time { return issuedAt })

	token, err := service.Issue(&sec.Principal{ID: "1", Role: sec.RoleAdmin})
	require.NoError(t, err)

	later := service.WithClock(func() time.Time { return issuedAt.Add(16 * time.Minute) })
	_, err = later.Verify(token.Value)

	require.ErrorIs(t, err, sec.ErrTokenExpired)
	assert.Equal(t, "expired", sec.FailureReason(err))

	// A foreign key does not turn an expired token into a valid one.
	other, err := sec.NewHMACTokenService([]byte(strings.Repeat("z", 32)), "plume.test", 15*time.Minute)
	require.NoError(t, err)
	_, err = other.WithClock(func() time.Time { return issuedAt.Add(time.Hour) }).Verify(token.Value)
	require.Error(t, err)
	assert.Contains(t, []string{"expired", "invalid"}, sec.FailureReason(err))
}

/*
TestTokenService_VerifyFailures covers the Unauthenticated sub-reasons.
*/
func TestTokenService_VerifyFailures(t *testing.T) {
	service := newHMACService(t)

	foreign, err := sec.NewHMACTokenService([]byte(strings.Repeat("x", 32)), "plume.test", time.Minute)
	require.NoError(t, err)
	forged, err := foreign.Issue(&sec.Principal{ID: "1", Role: sec.RoleAdmin})
	require.NoError(t, err)

	otherIssuer, err := sec.NewHMACTokenService([]byte(testSecret), "elsewhere", time.Minute)
	require.NoError(t, err)
	misissued, err := otherIssuer.Issue(&sec.Principal{ID: "1", Role: sec.RoleAdmin})
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		target error
		reason string
	}{
		{"missing", "", sec.ErrTokenMissing, "missing"},
		{"malformed", "not-a-jwt", sec.ErrTokenMalformed, "malformed"},
		{"wrong_signature", forged.Value, sec.ErrTokenInvalid, "invalid"},
		{"wrong_issuer", misissued.Value, sec.ErrTokenInvalid, "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal, err := service.Verify(tt.token)
			assert.Nil(t, principal)
			require.ErrorIs(t, err, tt.target)
			assert.Equal(t, tt.reason, sec.FailureReason(err))
		})
	}
}

func TestTokenService_RefusesAnonymous(t *testing.T) {
	_, err := newHMACService(t).Issue(sec.Anonymous())
	assert.Error(t, err)
}

func TestNewHMACTokenService_ShortSecret(t *testing.T) {
	_, err := sec.NewHMACTokenService([]byte("short"), "plume.test", time.Minute)
	assert.Error(t, err)
}
