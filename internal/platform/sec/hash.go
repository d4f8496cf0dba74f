// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest password bcrypt can hash without truncation.
const MaxPasswordBytes = 72

// ErrPasswordTooLong is returned by [HashPassword] past [MaxPasswordBytes].
var ErrPasswordTooLong = errors.New("sec: password exceeds 72 bytes")

// decoyHash is compared against when the login names no account.
var decoyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("plume-decoy-password"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return hash
})

// HashPassword returns the bcrypt hash stored in users.account.password_hash.
func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches hash.
//
// An empty hash stands for an unknown account: a decoy comparison still runs
// so both login failures cost one bcrypt round.
func VerifyPassword(password, hash string) bool {
	if hash == "" {
		_ = bcrypt.CompareHashAndPassword(decoyHash(), []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
