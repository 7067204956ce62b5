package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"orderbot/internal/adapters/out/markerfile"
	"orderbot/internal/core/application/usecases/queries"
	"orderbot/internal/jobs"
	"orderbot/internal/pkg/errs"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

// Config is the process configuration, read from the environment.
type Config struct {
	BotToken string
	AdminID  int64

	DBURL      string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	HTTPPort      string
	PollInterval  time.Duration
	OverdueAfter  time.Duration
	MarkerFile    string
	RecentLimit   int
	StorefrontURL string
	WebhookURL    string
	WebhookSecret string
	Locale        language.Tag
	LogLevel      slog.Level
}

// LoadDotEnv loads variables from path into the environment. A missing file
// is not an error: variables may already be set by the deployment.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// LoadConfig reads and validates the configuration. All problems are
// reported together.
func LoadConfig(getenv func(string) string) (Config, error) {
	cfg := Config{
		BotToken:      getenv("BOT_TOKEN"),
		DBURL:         getenv("DB_URL"),
		DBHost:        getenv("DB_HOST"),
		DBPort:        withDefault(getenv("DB_PORT"), "5432"),
		DBUser:        getenv("DB_USER"),
		DBPassword:    getenv("DB_PASSWORD"),
		DBName:        getenv("DB_NAME"),
		DBSslMode:     withDefault(getenv("DB_SSLMODE"), "disable"),
		HTTPPort:      withDefault(getenv("HTTP_PORT"), "8080"),
		MarkerFile:    withDefault(getenv("MARKER_FILE"), markerfile.DefaultPath),
		StorefrontURL: getenv("STOREFRONT_URL"),
		WebhookURL:    getenv("WEBHOOK_URL"),
		WebhookSecret: getenv("WEBHOOK_SECRET"),
	}

	var problems []error
	collect := func(err error) {
		if err != nil {
			problems = append(problems, err)
		}
	}

	collect(parseAdminID(getenv("ADMIN_ID"), &cfg.AdminID))
	collect(parseDuration("POLL_INTERVAL", getenv("POLL_INTERVAL"), jobs.DefaultPollInterval, &cfg.PollInterval))
	collect(parseDuration("OVERDUE_AFTER", getenv("OVERDUE_AFTER"), queries.DefaultOverdueAfter, &cfg.OverdueAfter))
	collect(parseRecentLimit(getenv("RECENT_LIMIT"), &cfg.RecentLimit))
	collect(parseLocale(getenv("LOCALE"), &cfg.Locale))
	collect(parseLogLevel(getenv("LOG_LEVEL"), &cfg.LogLevel))

	if cfg.DBURL == "" {
		for key, value := range map[string]string{"DB_HOST": cfg.DBHost, "DB_USER": cfg.DBUser, "DB_NAME": cfg.DBName} {
			if value == "" {
				problems = append(problems, errs.NewValueIsRequiredErrorWithCause(key, errors.New("set DB_URL or DB_HOST, DB_USER and DB_NAME")))
			}
		}
	}
	if cfg.WebhookURL != "" {
		if u, err := url.Parse(cfg.WebhookURL); err != nil || u.Scheme != "https" {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause("WEBHOOK_URL", errors.New("must be an https URL")))
		}
		collect(validateWebhookSecret(cfg.WebhookSecret))
	}

	if len(problems) > 0 {
		return Config{}, errors.Join(problems...)
	}
	return cfg, nil
}

// RequireBot checks the settings only the bot needs.
func (c Config) RequireBot() error {
	if c.BotToken == "" {
		return errs.NewValueIsRequiredError("BOT_TOKEN")
	}
	return nil
}

// DSN returns DB_URL or a key/value DSN built from the DB_* variables.
func (c Config) DSN() string {
	if c.DBURL != "" {
		return c.DBURL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// UseWebhook reports whether updates arrive over HTTP instead of long polling.
func (c Config) UseWebhook() bool {
	return c.WebhookURL != ""
}

// Telegram accepts 1 to 256 characters from A-Z, a-z, 0-9, _ and -.
const maxWebhookSecret = 256

func validateWebhookSecret(secret string) error {
	if secret == "" {
		return errs.NewValueIsRequiredErrorWithCause("WEBHOOK_SECRET", errors.New("required when WEBHOOK_URL is set"))
	}
	if len(secret) > maxWebhookSecret {
		return errs.NewValueIsInvalidErrorWithCause("WEBHOOK_SECRET", fmt.Errorf("longer than %d characters", maxWebhookSecret))
	}
	for _, r := range secret {
		if !isWebhookSecretChar(r) {
			return errs.NewValueIsInvalidErrorWithCause("WEBHOOK_SECRET", errors.New("only letters, digits, _ and - are allowed"))
		}
	}
	return nil
}

func isWebhookSecretChar(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' || r == '-'
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func parseAdminID(raw string, dst *int64) error {
	if raw == "" {
		return errs.NewValueIsRequiredError("ADMIN_ID")
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("ADMIN_ID", err)
	}
	*dst = id
	return nil
}

func parseDuration(key, raw string, fallback time.Duration, dst *time.Duration) error {
	if raw == "" {
		*dst = fallback
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause(key, err)
	}
	if d <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(key, fmt.Errorf("%s is not positive", d))
	}
	*dst = d
	return nil
}

func parseRecentLimit(raw string, dst *int) error {
	if raw == "" {
		*dst = queries.DefaultRecentLimit
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("RECENT_LIMIT", err)
	}
	if n < 1 || n > queries.MaxRecentLimit {
		return errs.NewValueIsOutOfRangeError("RECENT_LIMIT", n, 1, queries.MaxRecentLimit)
	}
	*dst = n
	return nil
}

func parseLocale(raw string, dst *language.Tag) error {
	if raw == "" {
		*dst = language.Russian
		return nil
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("LOCALE", err)
	}
	*dst = tag
	return nil
}

func parseLogLevel(raw string, dst *slog.Level) error {
	if raw == "" {
		*dst = slog.LevelInfo
		return nil
	}
	if err := dst.UnmarshalText([]byte(raw)); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("LOG_LEVEL", err)
	}
	return nil
}
