package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServerAddress string

	MongoURI string
	MongoDB  string

	SessionSecret string
	SessionTTL    time.Duration

	// PageSize is the number of words per listing/search page.
	PageSize int

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// AdminEmails is the moderation allowlist. A Google login whose email is
	// on this list receives an admin session.
	AdminEmails []string
	// AdminPasswordHash is a bcrypt hash enabling the password fallback login
	// for environments without Google OAuth configured.
	AdminPasswordHash string

	FirebaseProjectID       string
	FirebaseCredentialsJSON string
}

func Load() *Config {
	return &Config{
		ServerAddress:           getEnv("SERVER_ADDRESS", ":8080"),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDB:                 getEnv("MONGO_DB", "desidictionary"),
		SessionSecret:           getEnv("SESSION_SECRET", "change-me-in-production"),
		SessionTTL:              24 * time.Hour,
		PageSize:                getEnvInt("PAGE_SIZE", 8),
		GoogleClientID:          getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:      getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:       getEnv("GOOGLE_REDIRECT_URL", "http://127.0.0.1:8080/user/callback"),
		AdminEmails:             splitList(getEnv("ADMIN_EMAILS", "")),
		AdminPasswordHash:       getEnv("ADMIN_PASSWORD_HASH", ""),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsJSON: getEnv("FIREBASE_CREDENTIALS_JSON", ""),
	}
}

// AdminEmailSet returns the allowlist as a lookup set, lowercased.
func (c *Config) AdminEmailSet() map[string]bool {
	set := make(map[string]bool, len(c.AdminEmails))
	for _, e := range c.AdminEmails {
		set[strings.ToLower(e)] = true
	}
	return set
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
