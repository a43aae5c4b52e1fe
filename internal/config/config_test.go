package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, ":5000", cfg.Addr())
	assert.Empty(t, cfg.GoogleScriptURL)
	assert.Equal(t, BackendSMTP, cfg.NotifyBackend)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, "noreply.nexhub@gmail.com", cfg.SMTP.Email)
	assert.Equal(t, "NexHub Community", cfg.SMTP.FromName)
	assert.Equal(t, 15*time.Second, cfg.SinkTimeout)
	assert.False(t, cfg.StrictSinks)
	assert.False(t, cfg.TeamNotifyEnabled)
	assert.Empty(t, cfg.AdminAPIKeys)
	assert.Equal(t, "https://api.emailjs.com/api/v1.0/email/send", cfg.EmailJS.URL)
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := Parse(map[string]string{
		"PORT":                "8080",
		"GOOGLE_SCRIPT_URL":   "  https://script.google.com/macros/s/abc/exec ",
		"NOTIFY_BACKEND":      "LOG",
		"SMTP_PORT":           "2525",
		"SINK_TIMEOUT":        "3s",
		"STRICT_SINKS":        "true",
		"TEAM_EMAIL":          "team@nexhub.dev",
		"TEAM_NOTIFY_ENABLED": "true",
		"ADMIN_API_KEYS":      "ops:secret-1, grafana:secret-2",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://script.google.com/macros/s/abc/exec", cfg.GoogleScriptURL)
	assert.Equal(t, BackendLog, cfg.NotifyBackend)
	assert.Equal(t, 2525, cfg.SMTP.Port)
	assert.Equal(t, 3*time.Second, cfg.SinkTimeout)
	assert.True(t, cfg.StrictSinks)
	assert.True(t, cfg.TeamNotifyEnabled)
	assert.Equal(t, "team@nexhub.dev", cfg.TeamRecipient())
	assert.Equal(t, map[string]string{"secret-1": "ops", "secret-2": "grafana"}, cfg.AdminAPIKeys)
}

func TestTeamRecipient_FallsBackToSMTPAccount(t *testing.T) {
	cfg, err := Parse(map[string]string{"SMTP_EMAIL": "bot@nexhub.dev"})
	require.NoError(t, err)
	assert.Equal(t, "bot@nexhub.dev", cfg.TeamRecipient())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
	}{
		{"unknown backend", map[string]string{"NOTIFY_BACKEND": "pigeon"}},
		{"bad duration", map[string]string{"SINK_TIMEOUT": "soon"}},
		{"zero timeout", map[string]string{"SINK_TIMEOUT": "0s"}},
		{"bad port", map[string]string{"SMTP_PORT": "abc"}},
		{"malformed keys", map[string]string{"ADMIN_API_KEYS": "justakey"}},
		{"empty key", map[string]string{"ADMIN_API_KEYS": "ops:"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.environ)
			assert.Error(t, err)
		})
	}
}
