package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile(t *testing.T) *Profile {
	return &Profile{
		Mode:             "dev",
		Driver:           "sqlite",
		Data:             t.TempDir(),
		JWTAccessSecret:  "access-secret",
		JWTRefreshSecret: "refresh-secret",
	}
}

func TestValidateAppliesDefaults(t *testing.T) {
	p := validProfile(t)
	require.NoError(t, p.Validate())

	assert.Equal(t, 15*time.Minute, p.JWTAccessExpiry)
	assert.Equal(t, 30*24*time.Hour, p.JWTRefreshExpiry)
	assert.Equal(t, "https://api.openai.com/v1", p.AIBaseURL)
	assert.Equal(t, "gpt-4o-mini", p.AIChatModel)
	assert.Equal(t, 10, p.ChatHistoryWindow)
	assert.Equal(t, 30*time.Minute, p.SessionIdleTimeout)
	assert.NotEmpty(t, p.DSN)
}

func TestValidateNormalizesUnknownMode(t *testing.T) {
	p := validProfile(t)
	p.Mode = "staging"
	require.NoError(t, p.Validate())
	assert.Equal(t, "demo", p.Mode)
}

func TestValidateRequiresJWTSecrets(t *testing.T) {
	p := validProfile(t)
	p.JWTAccessSecret = ""
	assert.Error(t, p.Validate())

	p = validProfile(t)
	p.JWTRefreshSecret = ""
	assert.Error(t, p.Validate())
}

func TestValidateKeepsExplicitDSN(t *testing.T) {
	p := validProfile(t)
	p.DSN = "/tmp/custom.db"
	require.NoError(t, p.Validate())
	assert.Equal(t, "/tmp/custom.db", p.DSN)
}

func TestIsAIEnabled(t *testing.T) {
	p := &Profile{}
	assert.False(t, p.IsAIEnabled())
	p.AIAPIKey = "sk-test"
	assert.True(t, p.IsAIEnabled())
}
