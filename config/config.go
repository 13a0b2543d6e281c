package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string   `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTP     `yaml:"http"`
	Redis    Redis    `yaml:"redis"`
	OrderAPI OrderAPI `yaml:"order_api"`
	Delivery Delivery `yaml:"delivery"`
	Auth     Auth     `yaml:"auth"`
	Kafka    Kafka    `yaml:"kafka"`
	Limiter  Limiter  `yaml:"limiter"`
}

type HTTP struct {
	Port    string        `yaml:"port" env:"HTTP_PORT" env-default:":3000"`
	Timeout time.Duration `yaml:"timeout" env-default:"4s"`
}

type Redis struct {
	Addr string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
}

type OrderAPI struct {
	BaseURL string `yaml:"base_url" env:"ORDER_API_URL" env-default:"http://localhost:8080"`
	// Timeout bounds idempotent reads; PlaceTimeout bounds order
	// submission, after which the outcome is reported as unknown.
	Timeout      time.Duration `yaml:"timeout" env-default:"4s"`
	PlaceTimeout time.Duration `yaml:"place_timeout" env-default:"6s"`
}

type Delivery struct {
	FeeCents int64 `yaml:"fee_cents" env:"DELIVERY_FEE_CENTS" env-default:"250"`
}

type Auth struct {
	AccessSecret string `yaml:"access_secret" env:"ACCESS_SECRET"`
}

type Kafka struct {
	Enabled bool     `yaml:"enabled" env:"KAFKA_ENABLED" env-default:"false"`
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"order-status-events"`
	GroupID string   `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"cram-eats-core"`
}

type Limiter struct {
	Max        int           `yaml:"max" env-default:"20"`
	Expiration time.Duration `yaml:"expiration" env-default:"5s"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/local.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %v\n", err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("error reading config: %v", err)
	}

	return &cfg
}
