package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache"    validate:"required"`
	Sweep    SweepConfig    `mapstructure:"sweep"    validate:"required"`
	Mail     MailConfig     `mapstructure:"mail"`
	Job      JobConfig      `mapstructure:"job"      validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost"                    validate:"gte=0,lte=31"`
}

// CacheConfig contains the Redis cache settings. An empty RedisAddr
// disables the cache backend; the gateway then treats every read as a
// miss.
type CacheConfig struct {
	RedisAddr         string `mapstructure:"redis_addr"`
	RedisPassword     string `mapstructure:"redis_password"`
	RedisDB           int    `mapstructure:"redis_db"           validate:"gte=0"`
	DefaultTTLSeconds int    `mapstructure:"default_ttl_seconds" validate:"required,gt=0"`
}

// SweepConfig controls the overdue sweep schedule.
type SweepConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	IntervalMinutes int  `mapstructure:"interval_minutes" validate:"required,gt=0"`
	RunOnStart      bool `mapstructure:"run_on_start"`
}

// MailConfig contains the SMTP settings for overdue notifications.
// An empty Host disables real delivery; notifications are then only
// logged.
type MailConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"         validate:"gte=0,lte=65535"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	From        string `mapstructure:"from"`
	WorkerCount int    `mapstructure:"worker_count" validate:"gte=0"`
	QueueSize   int    `mapstructure:"queue_size"   validate:"gte=0"`
}

// JobConfig contains the background job runner settings.
type JobConfig struct {
	WorkerCount        int `mapstructure:"worker_count"          validate:"required,gt=0"`
	QueueSize          int `mapstructure:"queue_size"            validate:"required,gt=0"`
	StuckJobAgeMinutes int `mapstructure:"stuck_job_age_minutes" validate:"required,gt=0"`
}
