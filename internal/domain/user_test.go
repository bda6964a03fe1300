package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserValidate(t *testing.T) {
	t.Run("valid user", func(t *testing.T) {
		user, err := NewUser("ada@example.com", "Ada", "longenough")
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", user.Email)
	})

	t.Run("bad email", func(t *testing.T) {
		_, err := NewUser("not-an-email", "Ada", "longenough")
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := NewUser("ada@example.com", "Ada", "short")
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("loaded user without plaintext password is valid", func(t *testing.T) {
		user, err := NewUser("ada@example.com", "Ada", "longenough")
		require.NoError(t, err)
		user.Password = ""
		user.HashedPassword = "$2a$10$fake"
		assert.NoError(t, user.Validate())
	})
}
