package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

type DatabaseConfig struct {
	Host            string        `env:"DB_HOST,required"`
	Port            int           `env:"DB_PORT" envDefault:"5432"`
	User            string        `env:"DB_USER,required"`
	Password        string        `env:"DB_PASSWORD,required"`
	Name            string        `env:"DB_NAME,required"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	ConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"2m"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,required"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	TTL      time.Duration `env:"REDIS_TTL" envDefault:"72h"`
}

type TelegramConfig struct {
	Token  string `env:"TELEGRAM_TOKEN"`
	ChatID int64  `env:"TELEGRAM_CHAT_ID"`
}

// MailConfig describes the mailbox the Lenta reports arrive in.
type MailConfig struct {
	IMAPAddr       string   `env:"MAIL_IMAP_ADDR"`
	Login          string   `env:"MAIL_LOGIN"`
	Password       string   `env:"MAIL_PASSWORD"`
	AllowedSenders []string `env:"MAIL_ALLOWED_SENDERS" envSeparator:","`
	ArchiveFolder  string   `env:"MAIL_ARCHIVE_FOLDER" envDefault:"Archive"`
	WorkDir        string   `env:"MAIL_WORK_DIR" envDefault:"tmp/attachments"`
}

type HHConfig struct {
	BaseURL         string        `env:"HH_BASE_URL" envDefault:"https://api.hh.ru"`
	Specialisations []string      `env:"HH_SPECIALISATIONS" envSeparator:"," envDefault:"4.127,21.482,21.506"`
	RequestTimeout  time.Duration `env:"HH_REQUEST_TIMEOUT" envDefault:"30s"`
}

type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	Telegram TelegramConfig
	Mail     MailConfig
	HH       HHConfig

	// ProjectID is the fastzila project the Lenta integration belongs to.
	ProjectID int64 `env:"LENTA_PROJECT_ID" envDefault:"20"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
