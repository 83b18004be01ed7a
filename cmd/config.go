package cmd

import (
	"fmt"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config is read from LECTIO_-prefixed environment variables, optionally
// seeded from a .env file, and from config.yaml when present.
type Config struct {
	HTTPPort string `default:"8082" env:"HTTP_PORT" yaml:"http_port" usage:"HTTP listen port"`
	LogLevel string `default:"info" env:"LOG_LEVEL" yaml:"log_level" usage:"zap log level"`

	DBHost     string `default:"localhost" env:"DB_HOST" yaml:"db_host"`
	DBPort     string `default:"5432" env:"DB_PORT" yaml:"db_port"`
	DBUser     string `default:"postgres" env:"DB_USER" yaml:"db_user"`
	DBPassword string `env:"DB_PASSWORD" yaml:"db_password"`
	DBName     string `default:"lectio" env:"DB_NAME" yaml:"db_name"`
	DBSslMode  string `default:"disable" env:"DB_SSLMODE" yaml:"db_sslmode"`

	ZRExpressBaseURL    string        `default:"https://procolis.com/api_v1" env:"ZR_EXPRESS_BASE_URL" yaml:"zr_express_base_url"`
	ZRExpressToken      string        `env:"ZR_EXPRESS_TOKEN" yaml:"zr_express_token"`
	ZRExpressKey        string        `env:"ZR_EXPRESS_KEY" yaml:"zr_express_key"`
	ZRExpressRegionCode string        `default:"31" env:"ZR_EXPRESS_REGION_CODE" yaml:"zr_express_region_code" usage:"courier wilaya code"`
	CourierTimeout      time.Duration `default:"30s" env:"COURIER_TIMEOUT" yaml:"courier_timeout"`

	// Events go to the log when KafkaHost is empty.
	KafkaHost              string `env:"KAFKA_HOST" yaml:"kafka_host" usage:"comma separated brokers"`
	KafkaOrderChangedTopic string `default:"order.changed" env:"KAFKA_ORDER_CHANGED_TOPIC" yaml:"kafka_order_changed_topic"`

	ShipmentRetrySchedule  string `default:"0 */5 * * * *" env:"SHIPMENT_RETRY_SCHEDULE" yaml:"shipment_retry_schedule"`
	ShipmentRetryBatchSize int    `default:"50" env:"SHIPMENT_RETRY_BATCH_SIZE" yaml:"shipment_retry_batch_size"`
}

// LoadConfig reads the configuration. files overrides the default
// config.yaml lookup.
func LoadConfig(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{"config.yaml"}
	}

	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix:          "LECTIO",
		SkipFlags:          true,
		AllowUnknownFields: true,
		Files:              files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return Config{}, errors.Wrap(err, "load config")
	}

	if cfg.ZRExpressToken == "" || cfg.ZRExpressKey == "" {
		return Config{}, errors.New("courier credentials are required: set LECTIO_ZR_EXPRESS_TOKEN and LECTIO_ZR_EXPRESS_KEY")
	}

	return cfg, nil
}

// DSN is the PostgreSQL connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
