// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives, token management and the
// role matrix.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, JWT signing, the
// role/action table) from the domain logic. Handlers and middleware consume
// it through small interfaces such as [middleware.TokenVerifier].
package sec

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// # Verification Failures

// Every verification failure maps to the same caller-visible Unauthenticated
// outcome. The distinct sentinels exist so the reason can be logged.
var (
	ErrTokenMissing   = errors.New("sec: token missing")
	ErrTokenMalformed = errors.New("sec: token malformed")
	ErrTokenExpired   = errors.New("sec: token expired")
	ErrTokenInvalid   = errors.New("sec: token invalid")
)

// FailureReason returns a short label for a verification error.
func FailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTokenMissing):
		return "missing"
	case errors.Is(err, ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	default:
		return "invalid"
	}
}

// # Claims

// AuthClaims represents the payload embedded inside a JWT access token.
//
// The role travels inside the token so the Authorization Guard can resolve
// the [Principal] without a database round-trip.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID   string `json:"uid"`
	Username string `json:"unm"`
	Role     string `json:"rol"`
}

// Token is an issued, signed credential.
type Token struct {
	Value     string    `json:"access_token"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// # Token Service

// TokenService issues and verifies bearer tokens.
//
// It is stateless: there is no revocation list, so a token stays valid until
// its expiry even after logout.
type TokenService struct {
	method     jwt.SigningMethod
	signKey    any
	verifyKey  any
	issuer     string
	timeToLive time.Duration
	now        func() time.Time
}

// NewHMACTokenService creates an HS256 [TokenService] over a shared secret.
func NewHMACTokenService(secret []byte, issuer string, timeToLive time.Duration) (*TokenService, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("sec: hmac secret must be at least 32 bytes, got %d", len(secret))
	}
	return newTokenService(jwt.SigningMethodHS256, secret, secret, issuer, timeToLive)
}

// NewRSATokenService creates an RS256 [TokenService] from an in-memory key.
func NewRSATokenService(privateKey *rsa.PrivateKey, issuer string, timeToLive time.Duration) (*TokenService, error) {
	if privateKey == nil {
		return nil, errors.New("sec: rsa private key is required")
	}
	return newTokenService(jwt.SigningMethodRS256, privateKey, &privateKey.PublicKey, issuer, timeToLive)
}

// NewTokenService creates an RS256 [TokenService] reading PEM keys from disk.
func NewTokenService(privateKeyPath, publicKeyPath, issuer string, timeToLive time.Duration) (*TokenService, error) {
	privateKeyData, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read private key from %s: %w", privateKeyPath, err)
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse private key: %w", err)
	}

	publicKeyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read public key from %s: %w", publicKeyPath, err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
	}

	return newTokenService(jwt.SigningMethodRS256, privateKey, publicKey, issuer, timeToLive)
}

func newTokenService(method jwt.SigningMethod, signKey, verifyKey any, issuer string, timeToLive time.Duration) (*TokenService, error) {
	if timeToLive <= 0 {
		return nil, fmt.Errorf("sec: token ttl must be positive, got %s", timeToLive)
	}
	return &TokenService{
		method:     method,
		signKey:    signKey,
		verifyKey:  verifyKey,
		issuer:     issuer,
		timeToLive: timeToLive,
		now:        time.Now,
	}, nil
}

// WithClock returns a copy of the service that reads time from now.
func (service *TokenService) WithClock(now func() time.Time) *TokenService {
	clone := *service
	clone.now = now
	return &clone
}

// TimeToLive reports the fixed expiry window applied by [TokenService.Issue].
func (service *TokenService) TimeToLive() time.Duration {
	return service.timeToLive
}

// Issue signs a token for principal with the configured expiry window.
func (service *TokenService) Issue(principal *Principal) (*Token, error) {
	if principal.IsAnonymous() {
		return nil, errors.New("sec: cannot issue a token for an anonymous principal")
	}

	issuedAt := service.now()
	expiresAt := issuedAt.Add(service.timeToLive)

	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   principal.ID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:   principal.ID,
		Username: principal.Username,
		Role:     string(principal.Role),
	}

	signed, err := jwt.NewWithClaims(service.method, claims).SignedString(service.signKey)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return &Token{
		Value:     signed,
		IssuedAt:  issuedAt.Truncate(time.Second),
		ExpiresAt: expiresAt.Truncate(time.Second),
	}, nil
}

// Verify checks signature, issuer and expiry and returns the embedded principal.
//
// An empty string yields [ErrTokenMissing] rather than a parse failure so the
// caller can tell "no token supplied" from "bad token".
func (service *TokenService) Verify(tokenString string) (*Principal, error) {
	if tokenString == "" {
		return nil, ErrTokenMissing
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{service.method.Alg()}),
		jwt.WithIssuer(service.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(service.now),
	)

	claims := &AuthClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return service.verifyKey, nil
	})

	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	case !token.Valid:
		return nil, ErrTokenInvalid
	}

	role := UserRole(claims.Role)
	if claims.UserID == "" || !role.Valid() || role == RoleAnonymous {
		return nil, fmt.Errorf("%w: unusable identity claims", ErrTokenInvalid)
	}

	return &Principal{
		ID:       claims.UserID,
		Username: claims.Username,
		Role:     role,
	}, nil
}
