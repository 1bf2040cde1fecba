package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const (
	DriverMemory = "memory"
	DriverMongo  = "mongo"
	DriverRedis  = "redis"
	DriverMySQL  = "mysql"
)

type Config struct {
	Port                     string          `envconfig:"PORT" default:"8000"`
	SecretKey                string          `envconfig:"SECRET_KEY"`
	StorageDriver            string          `envconfig:"STORAGE_DRIVER" default:"memory"`
	MongoURL                 string          `envconfig:"MONGODB_URL" default:"mongodb://localhost:27017"`
	MongoDatabase            string          `envconfig:"MONGODB_DATABASE" default:"foodorder"`
	RedisURL                 string          `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	MySQLDSN                 string          `envconfig:"MYSQL_DSN"`
	CorsAllowOrigins         []string        `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:9000"`
	DeliveryFee              decimal.Decimal `envconfig:"DELIVERY_FEE" default:"2.99"`
	ServiceFee               decimal.Decimal `envconfig:"SERVICE_FEE" default:"1.99"`
	EnforceStatusTransitions bool            `envconfig:"ENFORCE_STATUS_TRANSITIONS" default:"false"`
	LogLevel                 string          `envconfig:"LOG_LEVEL" default:"info"`
	CatalogFile              string          `envconfig:"CATALOG_FILE"`
}

// Load reads envFile when it exists and then binds the environment.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		_, err := os.Stat(envFile)
		if os.IsNotExist(err) {
			log.WithField("file", envFile).Info(".env file does not exist, using the environment only")
		} else if err := godotenv.Load(envFile); err != nil {
			return Config{}, errors.Wrapf(err, "error loading %s", envFile)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "process environment")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.StorageDriver) {
	case DriverMemory, DriverMongo, DriverRedis:
	case DriverMySQL:
		if c.MySQLDSN == "" {
			return errors.New("MYSQL_DSN is required for the mysql storage driver")
		}
	default:
		return errors.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}
	if c.DeliveryFee.IsNegative() || c.ServiceFee.IsNegative() {
		return errors.New("fees must not be negative")
	}
	return nil
}

// ConfigureLogging sets the JSON formatter and the configured level.
func (c Config) ConfigureLogging() {
	log.SetFormatter(&log.JSONFormatter{})
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.WithField("level", c.LogLevel).Warn("unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
