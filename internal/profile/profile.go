package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is configuration to start the main server.
type Profile struct {
	// OpenAI provider configuration
	OpenAIAPIKey  string
	OpenAIBaseURL string

	// Gemini provider configuration
	GeminiAPIKey string
	// VeoAPIKey overrides GeminiAPIKey for video generation when set.
	VeoAPIKey string

	// SMTP configuration for reminder emails
	SMTPHost     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string

	// ReminderCron is the cron expression driving the reminder scan.
	// The engine tolerates any cadence; the two deployed values are
	// "* * * * *" (every minute) and "0 9 * * *" (daily at 09:00).
	ReminderCron string

	Mode        string
	DSN         string
	Driver      string
	Version     string
	InstanceURL string
	Addr        string
	Data        string
	JWTSecret   string

	SMTPPort int
	Port     int

	// GlobalMessageLimit caps the total USER messages a user may send
	// across all conversations. Deliberately independent from the
	// per-conversation subscription cap.
	GlobalMessageLimit int

	// Video generation poll budget: fixed interval, fixed attempt ceiling.
	VideoPollIntervalSeconds int
	VideoPollMaxAttempts     int

	AIEnabled bool
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables.
func (p *Profile) FromEnv() {
	p.OpenAIAPIKey = getEnvOrDefault("MAGICAI_OPENAI_API_KEY", "")
	p.OpenAIBaseURL = getEnvOrDefault("MAGICAI_OPENAI_BASE_URL", "")
	p.GeminiAPIKey = getEnvOrDefault("MAGICAI_GEMINI_API_KEY", "")
	p.VeoAPIKey = getEnvOrDefault("MAGICAI_VEO_API_KEY", "")

	p.AIEnabled = p.OpenAIAPIKey != "" || p.GeminiAPIKey != ""

	p.SMTPHost = getEnvOrDefault("MAGICAI_SMTP_HOST", "")
	p.SMTPPort = getEnvOrDefaultInt("MAGICAI_SMTP_PORT", 587)
	p.SMTPUsername = getEnvOrDefault("MAGICAI_SMTP_USERNAME", "")
	p.SMTPPassword = getEnvOrDefault("MAGICAI_SMTP_PASSWORD", "")
	p.SMTPFrom = getEnvOrDefault("MAGICAI_SMTP_FROM", "")
	p.SMTPFromName = getEnvOrDefault("MAGICAI_SMTP_FROM_NAME", "MagicAI")

	p.ReminderCron = getEnvOrDefault("MAGICAI_REMINDER_CRON", "* * * * *")
	p.JWTSecret = getEnvOrDefault("MAGICAI_JWT_SECRET", "")

	p.GlobalMessageLimit = getEnvOrDefaultInt("MAGICAI_GLOBAL_MESSAGE_LIMIT", 30)
	p.VideoPollIntervalSeconds = getEnvOrDefaultInt("MAGICAI_VIDEO_POLL_INTERVAL_SECONDS", 10)
	p.VideoPollMaxAttempts = getEnvOrDefaultInt("MAGICAI_VIDEO_POLL_MAX_ATTEMPTS", 60)
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		p.Data = "/var/opt/magicai"
		if _, err := os.Stat(p.Data); os.IsNotExist(err) {
			if err := os.MkdirAll(p.Data, 0770); err != nil {
				slog.Error("failed to create data directory", "data", p.Data, "error", err)
				return err
			}
		}
	}
	if p.Data == "" {
		p.Data = "."
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", "data", p.Data, "error", err)
		return err
	}
	p.Data = dataDir

	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("magicai_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn required for postgres driver")
	}

	if p.GlobalMessageLimit <= 0 {
		p.GlobalMessageLimit = 30
	}
	if p.VideoPollIntervalSeconds <= 0 {
		p.VideoPollIntervalSeconds = 10
	}
	if p.VideoPollMaxAttempts <= 0 {
		p.VideoPollMaxAttempts = 60
	}

	return nil
}
