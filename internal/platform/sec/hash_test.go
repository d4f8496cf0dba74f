// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/plume/internal/platform/sec"
)

func TestVerifyPassword(t *testing.T) {
	hash, err := sec.HashPassword("correct horse battery")
	require.NoError(t, err)

	assert.True(t, sec.VerifyPassword("correct horse battery", hash))
	assert.False(t, sec.VerifyPassword("Correct horse battery", hash))
	assert.False(t, sec.VerifyPassword("correct horse battery", "not-a-bcrypt-hash"))
}

/*
TestVerifyPassword_UnknownAccount never matches, whatever the password.
*/
func TestVerifyPassword_UnknownAccount(t *testing.T) {
	assert.False(t, sec.VerifyPassword("plume-decoy-password", ""))
	assert.False(t, sec.VerifyPassword("", ""))
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := sec.HashPassword(strings.Repeat("a", sec.MaxPasswordBytes+1))
	assert.ErrorIs(t, err, sec.ErrPasswordTooLong)

	_, err = sec.HashPassword(strings.Repeat("a", sec.MaxPasswordBytes))
	assert.NoError(t, err)
}
