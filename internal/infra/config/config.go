package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig holds the configuration shared by all services.
type AppConfig struct {
	AppEnv string `envconfig:"APP_ENV" default:"dev"`
	TZ     string `envconfig:"TZ" default:"Asia/Kuala_Lumpur"`
	Port   int    `envconfig:"PORT" default:"8080"`

	Telegram struct {
		Token string `envconfig:"TG_BOT_TOKEN"`
	} `envconfig:""`

	PGDSN string `envconfig:"PG_DSN"`

	RedisAddr string `envconfig:"REDIS_ADDR"`

	AMQPURL string `envconfig:"AMQP_URL"`

	// DeliveryMode selects how the scheduler ships messages: "direct" sends
	// through the Bot API inline, "queue" publishes jobs for cmd/sender.
	DeliveryMode string `envconfig:"DELIVERY_MODE" default:"direct"`

	Queues struct {
		Notifications string `envconfig:"NOTIFICATION_QUEUE_KEY" default:"notification_jobs"`
	} `envconfig:""`

	Reminders struct {
		ScanInterval      time.Duration `envconfig:"REMINDER_SCAN_INTERVAL" default:"30m"`
		OffDayHorizonDays int           `envconfig:"OFFDAY_HORIZON_DAYS" default:"90"`
	} `envconfig:""`
}

// Load reads the config from the environment.
func Load() AppConfig {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	return cfg
}
