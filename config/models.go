package config

import "time"

type AuthConfig struct {
	Secret           string `mapstructure:"secret" validate:"required,min=16"`
	ExpiryMin        int    `mapstructure:"expiry_min" validate:"gte=1"`
	RefreshExpiryMin int    `mapstructure:"refresh_expiry_min" validate:"gtefield=ExpiryMin"` // must outlive access tokens
}

type RabbitMQConfig struct {
	BrokerLink     string        `mapstructure:"broker_link" validate:"required"`
	ExchangeName   string        `mapstructure:"exchange_name" validate:"required"`
	ExchangeType   string        `mapstructure:"exchange_type" validate:"oneof=direct topic fanout"`
	QueueName      string        `mapstructure:"queue_name" validate:"required"`
	RoutingKey     string        `mapstructure:"routing_key" validate:"required"`
	WorkerCount    int           `mapstructure:"worker_count" validate:"gte=1"`
	ConfirmTimeout time.Duration `mapstructure:"confirm_timeout" validate:"gt=0"`
}

type RedisConfig struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	Password        string        `mapstructure:"password"`
	DB              int           `mapstructure:"db" validate:"gte=0"`
	DialTimeout     time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	PoolSize        int           `mapstructure:"pool_size"`
	MinIdleConns    int           `mapstructure:"min_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

type DBConfig struct {
	URL             string        `mapstructure:"url" validate:"required"`
	MaxOpenConns    int32         `mapstructure:"max_open_conns" validate:"gte=1"`
	MinIdleConns    int32         `mapstructure:"min_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	HealthTimeout   time.Duration `mapstructure:"health_timeout" validate:"gt=0"`
}

// SchedulerConfig controls the due-check polling loop.
type SchedulerConfig struct {
	Delay time.Duration `mapstructure:"delay" validate:"gt=0"` // pause between two ticks
}

type HTTPConfig struct {
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

type LogConfig struct {
	File       string `mapstructure:"file"` // empty means stdout only
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type Config struct {
	Port        int             `mapstructure:"port" validate:"gte=1,lte=65535"`
	Env         string          `mapstructure:"env" validate:"required"`
	ServiceName string          `mapstructure:"service_name" validate:"required"`
	HTTP        HTTPConfig      `mapstructure:"http"`
	DB          DBConfig        `mapstructure:"db"`
	Redis       RedisConfig     `mapstructure:"redis"`
	RabbitMQ    RabbitMQConfig  `mapstructure:"rabbitmq"`
	Auth        AuthConfig      `mapstructure:"auth"`
	Scheduler   SchedulerConfig `mapstructure:"scheduler"`
	Log         LogConfig       `mapstructure:"log"`
}
