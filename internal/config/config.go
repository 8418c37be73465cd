package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config/config.yaml"

// Config объединяет все аспекты настройки приложения.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Timeouts  TimeoutConfig   `yaml:"timeouts"`
	Logging   LoggingConfig   `yaml:"logging"`
	Swagger   SwaggerConfig   `yaml:"swagger"`
	Analytics AnalyticsConfig `yaml:"analytics"`
}

// HTTPConfig описывает HTTP-сервер.
type HTTPConfig struct {
	Port         string        `yaml:"port" env:"HTTP_PORT"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT"`
}

// DatabaseConfig описывает подключение к PostgreSQL.
type DatabaseConfig struct {
	URL             string        `yaml:"url" env:"DATABASE_URL"`
	MigrationsPath  string        `yaml:"migrations_path" env:"MIGRATIONS_PATH"`
	MaxConnections  int32         `yaml:"max_connections" env:"DB_MAX_CONNECTIONS"`
	MinConnections  int32         `yaml:"min_connections" env:"DB_MIN_CONNECTIONS"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DB_MAX_CONN_IDLE_TIME"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" env:"DB_MAX_CONN_LIFETIME"`
}

// TimeoutConfig содержит таймауты разного уровня.
type TimeoutConfig struct {
	Operation     time.Duration `yaml:"operation" env:"OPERATION_TIMEOUT"`
	LongOperation time.Duration `yaml:"long_operation" env:"LONG_OPERATION_TIMEOUT"`
	Shutdown      time.Duration `yaml:"shutdown" env:"SHUTDOWN_TIMEOUT"`
}

// LoggingConfig описывает формат и место логов.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Output string `yaml:"output" env:"LOG_OUTPUT"`
}

// SwaggerConfig задаёт путь до OpenAPI-спецификации.
type SwaggerConfig struct {
	SpecPath string `yaml:"spec_path" env:"SWAGGER_SPEC_PATH"`
}

// AnalyticsConfig описывает построение снимков и расписание пакетных заданий.
// Расписания задаются в формате cron с пятью полями.
type AnalyticsConfig struct {
	Timezone           string `yaml:"timezone" env:"ANALYTICS_TIMEZONE"`
	DateLayout         string `yaml:"date_layout" env:"ANALYTICS_DATE_LAYOUT"`
	PersistConcurrency int    `yaml:"persist_concurrency" env:"ANALYTICS_PERSIST_CONCURRENCY"`
	AdminSchedule      string `yaml:"admin_schedule" env:"ANALYTICS_ADMIN_SCHEDULE"`
	KanbanSchedule     string `yaml:"kanban_schedule" env:"ANALYTICS_KANBAN_SCHEDULE"`
	SprintSchedule     string `yaml:"sprint_schedule" env:"ANALYTICS_SPRINT_SCHEDULE"`
	ReleaseSchedule    string `yaml:"release_schedule" env:"ANALYTICS_RELEASE_SCHEDULE"`
	LockKey            int64  `yaml:"lock_key" env:"ANALYTICS_LOCK_KEY"`
	SchedulerEnabled   *bool  `yaml:"scheduler_enabled" env:"ANALYTICS_SCHEDULER_ENABLED"`
}

// Location возвращает часовой пояс снимков. Load уже проверил имя пояса,
// поэтому UTC возвращается только для конфигурации, собранной вручную.
func (a AnalyticsConfig) Location() *time.Location {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SchedulerOn сообщает, нужно ли запускать планировщик.
func (a AnalyticsConfig) SchedulerOn() bool {
	return a.SchedulerEnabled == nil || *a.SchedulerEnabled
}

// MustLoad загружает конфигурацию из YAML + ENV и паникует при ошибке.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load загружает конфигурацию, отдавая предпочтение пути из CONFIG_PATH.
func Load() (Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	cfg := Config{Analytics: defaultSchedules()}
	if err := readYAML(path, &cfg); err != nil {
		return Config{}, err
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env vars: %w", err)
	}
	cfg.normalize()
	if _, err := time.LoadLocation(cfg.Analytics.Timezone); err != nil {
		return Config{}, fmt.Errorf("analytics timezone %q: %w", cfg.Analytics.Timezone, err)
	}
	return cfg, nil
}

// defaultSchedules заполняет расписания до чтения YAML. Ключ, явно заданный
// пустой строкой, перекрывает значение по умолчанию и отключает задание.
func defaultSchedules() AnalyticsConfig {
	return AnalyticsConfig{
		AdminSchedule:   "0 3 * * *",
		KanbanSchedule:  "10 3 * * *",
		SprintSchedule:  "20 3 * * *",
		ReleaseSchedule: "30 3 * * *",
	}
}

func readYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file %s not found", path)
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("decode config yaml: %w", err)
	}
	return nil
}

// normalize устанавливает значения по умолчанию для всех полей конфигурации, если они не заданы.
func (c *Config) normalize() {
	// HTTP настройки
	if c.HTTP.Port == "" {
		c.HTTP.Port = "8080"
	}
	if c.HTTP.ReadTimeout <= 0 {
		c.HTTP.ReadTimeout = 5 * time.Second
	}
	if c.HTTP.WriteTimeout <= 0 {
		c.HTTP.WriteTimeout = 5 * time.Second
	}
	if c.HTTP.IdleTimeout <= 0 {
		c.HTTP.IdleTimeout = 5 * time.Minute
	}

	// Database настройки
	if c.Database.MigrationsPath == "" {
		c.Database.MigrationsPath = "migrations"
	}
	// Таймауты операций
	if c.Timeouts.Operation <= 0 {
		c.Timeouts.Operation = 30 * time.Second
	}
	if c.Timeouts.LongOperation <= 0 {
		c.Timeouts.LongOperation = 60 * time.Second
	}
	if c.Timeouts.Shutdown <= 0 {
		c.Timeouts.Shutdown = 10 * time.Second
	}
	// Логирование
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	// Swagger
	if c.Swagger.SpecPath == "" {
		c.Swagger.SpecPath = "openapi.yml"
	}
	// Аналитика
	if c.Analytics.Timezone == "" {
		c.Analytics.Timezone = "UTC"
	}
	if c.Analytics.DateLayout == "" {
		c.Analytics.DateLayout = "2006-01-02 15:04"
	}
	if c.Analytics.PersistConcurrency <= 0 {
		c.Analytics.PersistConcurrency = 4
	}
	if c.Analytics.LockKey == 0 {
		c.Analytics.LockKey = 7341001
	}
}
