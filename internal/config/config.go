// Package config loads function settings from the environment, an optional
// .env file, or a YAML file named by CONFIG_PATH.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	// RecipientsPlaceholder sends every event notification to one fixed user.
	RecipientsPlaceholder = "placeholder"
	// RecipientsSubscribed sends event notifications to every user holding a device token.
	RecipientsSubscribed = "subscribed"
)

type Config struct {
	Tables   TablesConfig   `yaml:"tables"`
	FCM      FCMConfig      `yaml:"fcm"`
	Log      LogConfig      `yaml:"log"`
	Notifier NotifierConfig `yaml:"notifier"`
}

type TablesConfig struct {
	Users         string `yaml:"users" env:"USERS_TABLE" env-default:"users" env-description:"DynamoDB table holding user documents"`
	Notifications string `yaml:"notifications" env:"NOTIFICATIONS_TABLE" env-default:"notifications" env-description:"DynamoDB table holding notification trigger documents"`
	Events        string `yaml:"events" env:"EVENTS_TABLE" env-default:"events" env-description:"DynamoDB table holding event documents"`
	Endpoint      string `yaml:"endpoint" env:"DYNAMODB_ENDPOINT" env-description:"DynamoDB endpoint override, e.g. DynamoDB Local"`
}

type FCMConfig struct {
	ProjectID       string `yaml:"project_id" env:"FIREBASE_PROJECT_ID"`
	CredentialsPath string `yaml:"credentials_path" env:"FCM_CREDENTIALS_PATH" env-description:"path to a Firebase service account key"`
	CredentialsJSON string `yaml:"credentials_json" env:"FCM_CREDENTIALS_JSON" env-description:"inline Firebase service account key"`
}

// Configured reports whether any Firebase credentials were supplied.
func (c FCMConfig) Configured() bool {
	return c.CredentialsPath != "" || c.CredentialsJSON != ""
}

type LogConfig struct {
	Level    string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Encoding string `yaml:"encoding" env:"LOG_ENCODING" env-default:"json"`
}

type NotifierConfig struct {
	Recipients                string `yaml:"recipients" env:"NOTIFIER_RECIPIENTS" env-default:"placeholder" env-description:"placeholder or subscribed"`
	PlaceholderUserID         string `yaml:"placeholder_user_id" env:"NOTIFIER_PLACEHOLDER_USER_ID" env-default:"stem-admin"`
	BodyLimit                 int    `yaml:"body_limit" env:"NOTIFIER_BODY_LIMIT" env-default:"150"`
	EllipsisOnlyWhenTruncated bool   `yaml:"ellipsis_only_when_truncated" env:"NOTIFIER_ELLIPSIS_ONLY_WHEN_TRUNCATED" env-default:"false"`
}

// Load reads configuration from CONFIG_PATH when set, otherwise from the
// environment. A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Notifier.Recipients {
	case RecipientsPlaceholder:
		if strings.TrimSpace(c.Notifier.PlaceholderUserID) == "" {
			return fmt.Errorf("NOTIFIER_PLACEHOLDER_USER_ID must not be empty in %s mode", RecipientsPlaceholder)
		}
	case RecipientsSubscribed:
	default:
		return fmt.Errorf("unknown NOTIFIER_RECIPIENTS %q", c.Notifier.Recipients)
	}
	if c.Notifier.BodyLimit <= 0 {
		return fmt.Errorf("NOTIFIER_BODY_LIMIT must be positive, got %d", c.Notifier.BodyLimit)
	}
	return nil
}
