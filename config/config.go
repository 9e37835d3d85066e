package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Mail drivers understood by pkg/mailer.
const (
	DriverSMTP     = "smtp"
	DriverPostmark = "postmark"
	DriverFile     = "file"
)

// Acknowledgment failure policies.
const (
	AckFailurePolicyFail   = "fail"
	AckFailurePolicyIgnore = "ignore"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	GinMode  string `env:"GIN_MODE"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mail transport
	MailDriver       string        `env:"MAIL_DRIVER" envDefault:"smtp"`
	EmailUser        string        `env:"EMAIL_USER"`
	EmailAppPassword string        `env:"EMAIL_APP_PASSWORD"`
	SMTPHost         string        `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort         int           `env:"SMTP_PORT" envDefault:"587"`
	SMTPTLSMode      string        `env:"SMTP_TLS_MODE" envDefault:"starttls"` // starttls, tls, or plain
	SMTPTimeout      time.Duration `env:"SMTP_TIMEOUT" envDefault:"10s"`

	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`

	MailDumpDir string `env:"MAIL_DUMP_DIR" envDefault:"./tmp/mail"`

	// Addresses and dispatch behaviour
	EmailFrom        string `env:"EMAIL_FROM"`
	EmailTo          string `env:"EMAIL_TO"`
	SendAutoReply    bool   `env:"SEND_AUTO_REPLY" envDefault:"false"`
	AckFailurePolicy string `env:"ACK_FAILURE_POLICY" envDefault:"fail"`

	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"65536"`

	// Signature block of the acknowledgment mail
	OwnerName  string `env:"OWNER_NAME" envDefault:"Manikanta Ruppa"`
	OwnerTitle string `env:"OWNER_TITLE" envDefault:"Senior Data Scientist | GenAI Engineer | Agentic AI Specialist"`
}

func LoadConfig() (*Config, error) {
	// .env is optional; in production the variables come from the platform.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.MailDriver == DriverFile && cfg.IsProduction() {
		log.Println("WARNING: MAIL_DRIVER=file in production. Contact messages will only be written to disk.")
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	c.AppEnv = strings.ToLower(strings.TrimSpace(c.AppEnv))
	c.MailDriver = strings.ToLower(strings.TrimSpace(c.MailDriver))
	c.AckFailurePolicy = strings.ToLower(strings.TrimSpace(c.AckFailurePolicy))

	if c.EmailFrom == "" {
		c.EmailFrom = c.EmailUser
	}
	if c.EmailTo == "" {
		c.EmailTo = c.EmailUser
	}
}

// Validate checks the fields the selected mail driver depends on.
func (c *Config) Validate() error {
	switch c.MailDriver {
	case DriverSMTP:
		if c.EmailUser == "" || c.EmailAppPassword == "" {
			return fmt.Errorf("config: EMAIL_USER and EMAIL_APP_PASSWORD are required for the smtp driver")
		}
	case DriverPostmark:
		if c.PostmarkServerToken == "" {
			return fmt.Errorf("config: POSTMARK_SERVER_TOKEN is required for the postmark driver")
		}
	case DriverFile:
		if c.MailDumpDir == "" {
			return fmt.Errorf("config: MAIL_DUMP_DIR is required for the file driver")
		}
	default:
		return fmt.Errorf("config: unknown MAIL_DRIVER %q (want smtp, postmark or file)", c.MailDriver)
	}

	if c.EmailFrom == "" || c.EmailTo == "" {
		return fmt.Errorf("config: EMAIL_FROM and EMAIL_TO (or EMAIL_USER) must be set")
	}

	switch c.AckFailurePolicy {
	case AckFailurePolicyFail, AckFailurePolicyIgnore:
	default:
		return fmt.Errorf("config: unknown ACK_FAILURE_POLICY %q (want fail or ignore)", c.AckFailurePolicy)
	}

	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("config: MAX_BODY_BYTES must be positive")
	}

	return nil
}

// IsProduction controls whether internal error detail is hidden from clients.
func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction || c.AppEnv == "prod" || c.GinMode == "release"
}
