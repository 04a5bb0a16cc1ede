package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	type want struct {
		runAddress     string
		botToken       string
		adminChatID    string
		telegramAPIURL string
		staticDir      string
		notifyTimeout  time.Duration
	}

	tests := []struct {
		name  string
		env   map[string]string
		flags []string
		want  want
	}{
		{
			name:  "defaults",
			env:   map[string]string{},
			flags: []string{},
			want: want{
				runAddress:     "localhost:8080",
				telegramAPIURL: "https://api.telegram.org",
				staticDir:      "public",
				notifyTimeout:  5 * time.Second,
			},
		},
		{
			name: "env only",
			env: map[string]string{
				"RUN_ADDRESS":            "localhost:9999",
				"TELEGRAM_BOT_TOKEN":     "123:abc",
				"TELEGRAM_ADMIN_CHAT_ID": "-1001",
				"STATIC_DIR":             "/srv/app",
				"NOTIFY_TIMEOUT":         "2s",
			},
			flags: []string{},
			want: want{
				runAddress:     "localhost:9999",
				botToken:       "123:abc",
				adminChatID:    "-1001",
				telegramAPIURL: "https://api.telegram.org",
				staticDir:      "/srv/app",
				notifyTimeout:  2 * time.Second,
			},
		},
		{
			name: "flags only",
			env:  map[string]string{},
			flags: []string{
				"-a", "localhost:7777",
				"-t", "flag-token",
				"-c", "-42",
				"-u", "http://localhost:8081",
				"-s", "web",
				"-n", "750ms",
			},
			want: want{
				runAddress:     "localhost:7777",
				botToken:       "flag-token",
				adminChatID:    "-42",
				telegramAPIURL: "http://localhost:8081",
				staticDir:      "web",
				notifyTimeout:  750 * time.Millisecond,
			},
		},
		{
			name: "env overrides flags",
			env: map[string]string{
				"RUN_ADDRESS":        "env:9000",
				"TELEGRAM_BOT_TOKEN": "env-token",
				"TELEGRAM_API_URL":   "http://env-telegram",
			},
			flags: []string{
				"-a", "flag:8000",
				"-t", "flag-token",
				"-u", "http://flag-telegram",
			},
			want: want{
				runAddress:     "env:9000",
				botToken:       "env-token",
				telegramAPIURL: "http://env-telegram",
				staticDir:      "public",
				notifyTimeout:  5 * time.Second,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			os.Args = append([]string{"test"}, tt.flags...)

			cfg, err := Parse()
			require.NoError(t, err)

			assert.Equal(t, tt.want.runAddress, cfg.RunAddress)
			assert.Equal(t, tt.want.botToken, cfg.TelegramBotToken)
			assert.Equal(t, tt.want.adminChatID, cfg.AdminChatID)
			assert.Equal(t, tt.want.telegramAPIURL, cfg.TelegramAPIURL)
			assert.Equal(t, tt.want.staticDir, cfg.StaticDir)
			assert.Equal(t, tt.want.notifyTimeout, cfg.NotifyTimeout)
		})
	}
}

func TestParseConfig_InvalidDuration(t *testing.T) {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	t.Setenv("NOTIFY_TIMEOUT", "soon")
	os.Args = []string{"test"}

	_, err := Parse()
	require.Error(t, err)
}

func TestParseClient(t *testing.T) {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	t.Setenv("CART_USERNAME", "eggfan")
	os.Args = []string{"test", "-user", "77", "-username", "ignored"}

	cfg, err := ParseClient()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.ServerURL)
	assert.Equal(t, "77", cfg.UserID)
	assert.Equal(t, "eggfan", cfg.Username)
}
