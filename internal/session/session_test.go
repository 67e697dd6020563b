package session

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	m "coinboard/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestStoreRoundTrip(t *testing.T) {

	path := filepath.Join(t.TempDir(), "credentials")
	store := NewStore(path, "passphrase")

	token, profile, err := store.Load()
	assert.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, profile)

	err = store.Save("tok-123", m.Profile{Username: "alice", Roles: []string{"ROLE_USER"}})
	assert.NoError(t, err)

	// encrypted at rest
	raw, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.NotContains(t, string(raw), "tok-123")

	token, profile, err = store.Load()
	assert.NoError(t, err)
	assert.Equal(t, "tok-123", token)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, []string{"ROLE_USER"}, profile.Roles)

	assert.NoError(t, store.Clear())
	token, _, err = store.Load()
	assert.NoError(t, err)
	assert.Empty(t, token)

	// clearing twice is fine
	assert.NoError(t, store.Clear())
}

func TestStorePlaintextWithoutPassphrase(t *testing.T) {

	path := filepath.Join(t.TempDir(), "credentials")
	store := NewStore(path, "")

	assert.NoError(t, store.Save("tok", m.Profile{Username: "bob"}))

	raw, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(raw), "bob")
}

func unsignedToken(t *testing.T, claims map[string]any) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatal(err)
	}
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func TestProfileFromToken(t *testing.T) {

	t.Run("username and roles claims", func(t *testing.T) {
		tok := unsignedToken(t, map[string]any{
			"sub":   "alice",
			"roles": []any{"ROLE_USER", "ROLE_ADMIN"},
		})

		profile := ProfileFromToken(tok)
		assert.NotNil(t, profile)
		assert.Equal(t, "alice", profile.Username)
		assert.True(t, profile.IsAdmin())
	})

	t.Run("authorities fallback", func(t *testing.T) {
		tok := unsignedToken(t, map[string]any{
			"username":    "bob",
			"authorities": []any{"ROLE_USER"},
		})

		profile := ProfileFromToken(tok)
		assert.NotNil(t, profile)
		assert.Equal(t, "bob", profile.Username)
		assert.False(t, profile.IsAdmin())
	})

	t.Run("garbage token", func(t *testing.T) {
		assert.Nil(t, ProfileFromToken("not-a-jwt"))
	})
}
