package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Mail      MailConfig
	AI        AIConfig
	Scheduler SchedulerConfig
	Client    ClientConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings for the presence set
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSAllowOrigins  []string
	CORSAllowMethods  []string
	CORSAllowHeaders  []string
	TrustedProxies    []string
}

// MailConfig holds outbound email settings.
// Transport selects the implementation: "smtp", "resend", or "stub".
type MailConfig struct {
	Transport    string
	FromEmail    string
	FromName     string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	ResendAPIKey string
	SendTimeout  time.Duration
}

// AIConfig holds settings for the generative-text proxy.
// When Enabled is false the null-object suggester is wired instead and every
// endpoint serves its fixed fallback payload.
type AIConfig struct {
	Enabled     bool
	APIKey      string
	BaseURL     string
	Model       string
	CallTimeout time.Duration
}

// SchedulerConfig holds notification job scheduling configuration.
// Schedules are "minute hour * * *" cron expressions; only minute and hour
// are honoured, matching the fixed daily cadence of the jobs.
type SchedulerConfig struct {
	Enabled          bool
	Timezone         string
	DeadlineSchedule string
	DigestSchedule   string
	OverdueSchedule  string
	CheckInterval    time.Duration
	JobTimeout       time.Duration
}

// ClientConfig holds settings about the web client consuming this API
type ClientConfig struct {
	// BaseURL is used to build links embedded in emails and notifications
	BaseURL string
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with PM_ prefix (e.g., PM_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("PM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("jwt.secret"),
			Expiration: v.GetDuration("jwt.expiration"),
			Issuer:     v.GetString("jwt.issuer"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:  v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:  v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
		},
		Mail: MailConfig{
			Transport:    v.GetString("mail.transport"),
			FromEmail:    v.GetString("mail.from_email"),
			FromName:     v.GetString("mail.from_name"),
			SMTPHost:     v.GetString("mail.smtp_host"),
			SMTPPort:     v.GetInt("mail.smtp_port"),
			SMTPUser:     v.GetString("mail.smtp_user"),
			SMTPPassword: v.GetString("mail.smtp_password"),
			ResendAPIKey: v.GetString("mail.resend_api_key"),
			SendTimeout:  v.GetDuration("mail.send_timeout"),
		},
		AI: AIConfig{
			Enabled:     v.GetBool("ai.enabled"),
			APIKey:      v.GetString("ai.api_key"),
			BaseURL:     v.GetString("ai.base_url"),
			Model:       v.GetString("ai.model"),
			CallTimeout: v.GetDuration("ai.call_timeout"),
		},
		Scheduler: SchedulerConfig{
			Enabled:          v.GetBool("scheduler.enabled"),
			Timezone:         v.GetString("scheduler.timezone"),
			DeadlineSchedule: v.GetString("scheduler.deadline_schedule"),
			DigestSchedule:   v.GetString("scheduler.digest_schedule"),
			OverdueSchedule:  v.GetString("scheduler.overdue_schedule"),
			CheckInterval:    v.GetDuration("scheduler.check_interval"),
			JobTimeout:       v.GetDuration("scheduler.job_timeout"),
		},
		Client: ClientConfig{
			BaseURL: v.GetString("client.base_url"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "promanage-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "promanage"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.JWT.Expiration == 0 {
		cfg.JWT.Expiration = 24 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "promanage-backend"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 100
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	// CORS origins deliberately have no wildcard fallback: an empty list
	// rejects all cross-origin requests until configured.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
	if cfg.Mail.Transport == "" {
		cfg.Mail.Transport = "stub"
	}
	if cfg.Mail.FromEmail == "" {
		cfg.Mail.FromEmail = "noreply@promanage.example.com"
	}
	if cfg.Mail.FromName == "" {
		cfg.Mail.FromName = "ProManage+"
	}
	if cfg.Mail.SMTPPort == 0 {
		cfg.Mail.SMTPPort = 587
	}
	if cfg.Mail.SendTimeout == 0 {
		cfg.Mail.SendTimeout = 10 * time.Second
	}
	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gpt-4o-mini"
	}
	if cfg.AI.CallTimeout == 0 {
		cfg.AI.CallTimeout = 15 * time.Second
	}
	if cfg.Scheduler.Timezone == "" {
		cfg.Scheduler.Timezone = "UTC"
	}
	if cfg.Scheduler.DeadlineSchedule == "" {
		cfg.Scheduler.DeadlineSchedule = "0 9 * * *"
	}
	if cfg.Scheduler.DigestSchedule == "" {
		cfg.Scheduler.DigestSchedule = "0 8 * * *"
	}
	if cfg.Scheduler.OverdueSchedule == "" {
		cfg.Scheduler.OverdueSchedule = "0 10 * * *"
	}
	if cfg.Scheduler.CheckInterval == 0 {
		cfg.Scheduler.CheckInterval = time.Minute
	}
	if cfg.Scheduler.JobTimeout == 0 {
		cfg.Scheduler.JobTimeout = 10 * time.Minute
	}
	if cfg.Client.BaseURL == "" {
		cfg.Client.BaseURL = "http://localhost:3000"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	switch c.Mail.Transport {
	case "smtp", "resend", "stub":
	default:
		return fmt.Errorf("mail.transport must be one of smtp, resend, stub; got %q", c.Mail.Transport)
	}
	if c.Mail.Transport == "smtp" && c.Mail.SMTPHost == "" {
		return fmt.Errorf("mail.smtp_host is required when mail.transport is smtp")
	}
	if c.Mail.Transport == "resend" && c.Mail.ResendAPIKey == "" {
		return fmt.Errorf("mail.resend_api_key is required when mail.transport is resend")
	}

	if c.AI.Enabled && c.AI.APIKey == "" {
		return fmt.Errorf("ai.api_key is required when ai.enabled is true")
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("scheduler.timezone is invalid: %w", err)
	}

	if c.App.Env == "production" {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		if c.Mail.Transport == "stub" {
			return fmt.Errorf("mail.transport cannot be 'stub' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// Location returns the scheduler timezone; validate() guarantees it parses
func (s *SchedulerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
