package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewhacare/accessdesk/config"
)

func setTestConfig(t *testing.T) config.AppConfig {
	t.Helper()
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	cfg := config.AppConfig{
		JWTSecret:         "test-secret",
		AdminUsername:     "admin",
		AdminPasswordHash: hash,
	}
	config.Set(cfg)
	return config.Get()
}

func TestAdminTokenRoundTrip(t *testing.T) {
	setTestConfig(t)

	token, exp, err := GenerateAdminToken("admin", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := ParseAdminToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
}

func TestParseAdminTokenRejectsExpiredAndForeign(t *testing.T) {
	setTestConfig(t)

	expired, _, err := GenerateAdminToken("admin", -time.Minute)
	require.NoError(t, err)
	_, err = ParseAdminToken(expired)
	assert.Error(t, err)

	other, _, err := GenerateAdminToken("mallory", time.Hour)
	require.NoError(t, err)
	_, err = ParseAdminToken(other)
	assert.Error(t, err)

	_, err = ParseAdminToken("not.a.token")
	assert.Error(t, err)
}

func TestRevokeTokenInMemory(t *testing.T) {
	setTestConfig(t)
	ctx := context.Background()

	RevokeToken(ctx, "tok-1", time.Now().Add(time.Minute))
	assert.True(t, IsTokenRevoked(ctx, "tok-1"))
	assert.False(t, IsTokenRevoked(ctx, "tok-2"))

	RevokeToken(ctx, "tok-3", time.Now().Add(-time.Minute))
	assert.False(t, IsTokenRevoked(ctx, "tok-3"))
}

func TestCheckAdminCredentials(t *testing.T) {
	cfg := setTestConfig(t)

	assert.True(t, CheckAdminCredentials(cfg, "admin", "s3cret!"))
	assert.False(t, CheckAdminCredentials(cfg, "admin", "wrong"))
	assert.False(t, CheckAdminCredentials(cfg, "root", "s3cret!"))

	cfg.AdminPasswordHash = ""
	assert.False(t, CheckAdminCredentials(cfg, "admin", ""))
}

func TestSanitize(t *testing.T) {
	dirty := `<p class="ql-align-center">hi<script>alert(1)</script></p><img src="/uploads/attachments/a.png" onerror="x()">`
	clean := SanitizeContent(dirty)
	assert.NotContains(t, clean, "<script")
	assert.NotContains(t, clean, "onerror")
	assert.Contains(t, clean, `src="/uploads/attachments/a.png"`)
	assert.Contains(t, clean, `class="ql-align-center"`)

	assert.Equal(t, "A & B", SanitizeText(" <b>A</b> & B "))
}
