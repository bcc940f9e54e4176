package auth

import (
	"testing"
	"time"

	"restaurant_site/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	user := &models.User{ID: 7, Username: "chef", Role: string(models.RoleAdmin)}

	token, err := issuer.Generate(user)
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "chef", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseRejectsForeignAndExpiredTokens(t *testing.T) {
	user := &models.User{ID: 1, Username: "guest", Role: string(models.RoleCustomer)}

	other, err := NewIssuer("other-secret", time.Hour).Generate(user)
	require.NoError(t, err)
	_, err = NewIssuer("secret", time.Hour).Parse(other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewIssuer("secret", -time.Minute).Generate(user)
	require.NoError(t, err)
	_, err = NewIssuer("secret", time.Hour).Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewIssuer("secret", time.Hour).Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
