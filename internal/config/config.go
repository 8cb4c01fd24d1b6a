package config

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config хранит все настройки приложения
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Cron      CronConfig
	Admin     AdminConfig
	Email     EmailConfig
	Challenge ChallengeConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig содержит унифицированные настройки подключения к Redis
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	// Mode: Режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: Список адресов Redis (хост:порт). Используется для всех режимов.
	Addrs []string `mapstructure:"addrs"`

	// Addr: Альтернативный адрес для режима 'single'.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Имя мастер-сервера Redis (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`

	// MaxRetries: Максимальное количество попыток переподключения. По умолчанию 0 (без ретраев).
	MaxRetries int `mapstructure:"max_retries"`

	// MinRetryBackoff: Минимальный интервал между попытками (в миллисекундах).
	MinRetryBackoff int `mapstructure:"min_retry_backoff"`

	// MaxRetryBackoff: Максимальный интервал между попытками (в миллисекундах).
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"`
}

// AuthConfig содержит настройки проверки токенов внешнего identity-провайдера.
// Сервис сам не выпускает токены, только валидирует подпись HS256.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// CronConfig содержит настройки аутентификации фазовых эндпоинтов.
// Внешний планировщик передает секрет в заголовке X-Cron-Secret.
type CronConfig struct {
	Secret string `mapstructure:"secret"`
}

// AdminConfig содержит настройки административных эндпоинтов.
// TokenHash — bcrypt-хеш админского токена; сам токен нигде не хранится.
type AdminConfig struct {
	TokenHash string `mapstructure:"token_hash"`
}

// EmailConfig содержит настройки рассылки итогов недели через Resend
type EmailConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	APIKey     string   `mapstructure:"api_key"`
	From       string   `mapstructure:"from"`
	Recipients []string `mapstructure:"recipients"`
}

// ChallengeConfig содержит настройки недельного жизненного цикла
type ChallengeConfig struct {
	// UTCOffsetHours — фиксированное смещение локального времени фаз относительно UTC.
	// Смещение не учитывает переход на летнее время (осознанное ограничение).
	UTCOffsetHours int `mapstructure:"utc_offset_hours"`

	// SeedCount — количество AI-затравок при старте недели
	SeedCount int `mapstructure:"seed_count"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load загружает конфигурацию из файла
func Load(configPath string) (*Config, error) {
	vip := viper.New() // Используем новый экземпляр Viper, чтобы избежать глобального состояния

	// Привязываем переменные окружения ЯВНО
	// Привязка для секции Database
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	// Привязка для секции Redis
	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	// Привязка для секций Auth / Cron / Admin
	vip.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET")
	vip.BindEnv("cron.secret", "CRON_SECRET")
	vip.BindEnv("admin.token_hash", "ADMIN_TOKEN_HASH")

	// Привязка для секции Email
	vip.BindEnv("email.enabled", "EMAIL_ENABLED")
	vip.BindEnv("email.api_key", "RESEND_API_KEY")
	vip.BindEnv("email.from", "EMAIL_FROM")
	vip.BindEnv("email.recipients", "EMAIL_RECIPIENTS")

	// Привязка для секции Challenge
	vip.BindEnv("challenge.utc_offset_hours", "CHALLENGE_UTC_OFFSET_HOURS")
	vip.BindEnv("challenge.seed_count", "CHALLENGE_SEED_COUNT")

	// Привязка для Server
	vip.BindEnv("server.port", "SERVER_PORT")

	// Путь к файлу конфигурации (не страшно, если файла нет, т.к. есть BindEnv)
	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Логирование конфигурации (только в debug режиме)
	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Port: %s", cfg.Database.Port)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Redis Addr: %s", cfg.Redis.Addr)
		log.Printf("Cron Secret Set: %t", cfg.Cron.Secret != "")
		log.Printf("Admin Token Hash Set: %t", cfg.Admin.TokenHash != "")
		log.Printf("Email Enabled: %t", cfg.Email.Enabled)
		log.Printf("Challenge UTC Offset: %d", cfg.Challenge.UTCOffsetHours)
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("-----------------------------------------")
	}

	// Проверка обязательных параметров
	if cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "" {
		return nil, fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth JWT secret is required in config (check AUTH_JWT_SECRET env var)")
	}

	// Секреты БД обязательны вне debug-режима
	if os.Getenv("GIN_MODE") != "debug" && os.Getenv("GIN_MODE") != "" {
		if cfg.Database.Password == "" {
			return nil, fmt.Errorf("database password is required in production mode (check DATABASE_PASSWORD env var)")
		}
	}

	// CRON_SECRET намеренно НЕ обязателен на старте: его отсутствие превращается
	// в NotConfigured (500) при первом вызове фазового эндпоинта, без частичных записей.
	if cfg.Cron.Secret == "" {
		log.Println("Warning: CRON_SECRET is not set; phase transition endpoints will refuse to run.")
	}

	return &cfg, nil
}
