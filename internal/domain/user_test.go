package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUserID(t *testing.T) {
	a := NewUserID()
	b := NewUserID()

	assert.NotEmpty(t, a.String())
	assert.NotEqual(t, a, b)
}

func TestNewUser(t *testing.T) {
	u := NewUser("  Alice@Example.COM ", "hash", true)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "hash", u.PasswordHash)
	assert.True(t, u.IsAdmin)
}

func TestNormalizeEmail(t *testing.T) {
	tests := map[string]string{
		"bob@example.com":    "bob@example.com",
		" BOB@Example.com\n": "bob@example.com",
		"":                   "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeEmail(in))
	}
}
