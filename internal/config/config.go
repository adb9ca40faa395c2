// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gracechapel/flocktext-backend/internal/apperr"
)

// Config is the full externally supplied surface. Required settings fail
// fast at startup; the sending-window hours are the one documented exception
// that carries a safe default.
type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret     string
	AdminEmail    string
	AdminPassword string

	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioSMSFrom      string
	TwilioWhatsAppFrom string // optional while the channel stays disabled

	Location      *time.Location
	SendStartHour int
	SendEndHour   int

	CORSOrigins []string
}

// Load builds the config from the environment. Every missing required value
// is reported, not just the first.
func Load() (*Config, error) {
	var missing []string
	required := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        required("DATABASE_URL"),
		JWTSecret:          required("JWT_SECRET"),
		AdminEmail:         strings.ToLower(required("ADMIN_EMAIL")),
		AdminPassword:      required("ADMIN_PASSWORD"),
		TwilioAccountSID:   required("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:    required("TWILIO_AUTH_TOKEN"),
		TwilioSMSFrom:      required("TWILIO_SMS_FROM"),
		TwilioWhatsAppFrom: os.Getenv("TWILIO_WHATSAPP_FROM"),
		SendStartHour:      getEnvAsInt("SEND_START_HOUR", 6),
		SendEndHour:        getEnvAsInt("SEND_END_HOUR", 22),
		CORSOrigins:        splitList(os.Getenv("CORS_ORIGINS")),
	}

	if len(missing) > 0 {
		return nil, apperr.NewConfiguration(
			fmt.Sprintf("missing required environment variables: %s", strings.Join(missing, ", ")), nil)
	}

	tz := getEnv("CHURCH_TIMEZONE", "America/New_York")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, apperr.NewConfiguration(fmt.Sprintf("invalid CHURCH_TIMEZONE %q", tz), err)
	}
	cfg.Location = loc

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultVal
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
