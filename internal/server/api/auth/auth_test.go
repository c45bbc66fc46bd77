package auth_test

import (
	"crypto/pbkdf2"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/padlink/internal/server/api/auth"
)

func TestGenKey(t *testing.T) {
	key, err := auth.GenerateKey()
	assert.NoError(t, err)
	assert.Len(t, key, auth.AutoGenKeyLength)
	assert.Regexp(t, "^[0-9A-Za-z]{16}$", key)
}

func TestDeriveKey(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "normal password", password: "password123"},
		{name: "single char", password: "1"},
		{name: "long password", password: "dkfghdfg90d78h350ß8dgfjkdfg#---23489dfg!!!@!@#$$%&/()="},
		{name: "empty password", password: "", wantErr: auth.ErrEmptyPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := auth.DeriveKey(tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, 32)

			want, err := pbkdf2.Key(sha256.New, tt.password, []byte(auth.PBKDF2Salt), auth.PBKDF2Iterations, 32)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestDeriveKeyDistinct(t *testing.T) {
	a, err := auth.DeriveKey("a")
	require.NoError(t, err)
	b, err := auth.DeriveKey("b")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDeriveSessionKey(t *testing.T) {
	key := make([]byte, 32)
	serverNonce := make([]byte, 32)
	clientNonce := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
		serverNonce[i] = byte(i + 10)
		clientNonce[i] = byte(i + 20)
	}

	sessionKey := auth.DeriveSessionKey(key, serverNonce, clientNonce)
	assert.Len(t, sessionKey, 32)
	assert.Equal(t, sessionKey, auth.DeriveSessionKey(key, serverNonce, clientNonce))

	clientNonce[0] = 99
	assert.NotEqual(t, sessionKey, auth.DeriveSessionKey(key, serverNonce, clientNonce))
}
