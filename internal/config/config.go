package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr      string
	SchoolsFile   string
	StaticDir     string
	CORSOrigins   []string
	LogLevel      string
	Env           string // dev|prod
	SentryDSN     string
	Release       string
	BotToken      string // пусто: уведомления о росте дерева выключены
	NotifyChatID  int64
	StatsInterval time.Duration
}

func Load() (*Config, error) {
	addr := getenv("HTTP_ADDR", ":5000")
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return nil, fmt.Errorf("PORT: bad value %q", port)
		}
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			host = ""
		}
		addr = net.JoinHostPort(host, port)
	}

	interval, err := time.ParseDuration(getenv("STATS_INTERVAL", "1m"))
	if err != nil || interval <= 0 {
		return nil, fmt.Errorf("STATS_INTERVAL: bad duration %q", os.Getenv("STATS_INTERVAL"))
	}

	var chatID int64
	if v := strings.TrimSpace(os.Getenv("NOTIFY_CHAT_ID")); v != "" {
		chatID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("NOTIFY_CHAT_ID: %w", err)
		}
	}

	origins := parseList(getenv("CORS_ORIGINS", "*"))
	for _, o := range origins {
		if !validOrigin(o) {
			return nil, fmt.Errorf("CORS_ORIGINS: bad origin %q, want * or http(s)://host", o)
		}
	}

	cfg := &Config{
		HTTPAddr:      addr,
		SchoolsFile:   getenv("SCHOOLS_FILE", "schools.json"),
		StaticDir:     getenv("STATIC_DIR", "../frontend"),
		CORSOrigins:   origins,
		LogLevel:      getenv("LOG_LEVEL", "info"),
		Env:           getenv("ENV", "dev"),
		SentryDSN:     os.Getenv("SENTRY_DSN"),
		Release:       getenv("RELEASE", "dev"),
		BotToken:      os.Getenv("BOT_TOKEN"),
		NotifyChatID:  chatID,
		StatsInterval: interval,
	}
	return cfg, nil
}

// NotifyEnabled: уведомления в Telegram включаются только при токене и чате.
func (c *Config) NotifyEnabled() bool {
	return c.BotToken != "" && c.NotifyChatID != 0
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func parseList(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// validOrigin: то, что примет gin-contrib/cors без паники.
func validOrigin(o string) bool {
	if o == "*" {
		return true
	}
	for _, scheme := range []string{"http://", "https://"} {
		if rest, ok := strings.CutPrefix(o, scheme); ok {
			return rest != ""
		}
	}
	return false
}
