package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", "daily-report")

	pair, err := m.GenerateTokenPair(Subject{UserID: 7, TeamID: 1, Role: "leader"}, time.Minute, time.Hour)
	require.NoError(t, err)

	claims, err := m.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.UserID)
	assert.Equal(t, uint64(1), claims.TeamID)
	assert.Equal(t, "leader", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.Type)

	refresh, err := m.ParseToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, refresh.Type)
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager("secret", "daily-report")
	tok, err := m.GenerateToken(Subject{UserID: 1}, TokenTypeAccess, -time.Minute)
	require.NoError(t, err)

	_, err = m.ParseToken(tok)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTManager_RejectsForeignTokens(t *testing.T) {
	tok, err := NewJWTManager("other", "daily-report").GenerateToken(Subject{UserID: 1}, TokenTypeAccess, time.Minute)
	require.NoError(t, err)
	_, err = NewJWTManager("secret", "daily-report").ParseToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	tok, err = NewJWTManager("secret", "someone-else").GenerateToken(Subject{UserID: 1}, TokenTypeAccess, time.Minute)
	require.NoError(t, err)
	_, err = NewJWTManager("secret", "daily-report").ParseToken(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
