// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек сервиса.
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	RabbitMQURL             string        `yaml:"rabbitmq_url"`
	RabbitMQMaxRetries      int           `yaml:"rabbitmq_max_retries" env-default:"5"`
	RabbitMQRetryDelay      time.Duration `yaml:"rabbitmq_retry_delay" env-default:"3s"`
	SMTPHost                string        `yaml:"smtp_host"`
	SMTPPort                string        `yaml:"smtp_port" env-default:"587"`
	SMTPUser                string        `yaml:"smtp_user"`
	SMTPPass                string        `yaml:"smtp_pass" env:"SMTP_PASS"`
	OTPTTL                  time.Duration `yaml:"otp_ttl" env-default:"5m"`
	CardPay                 CardPay       `yaml:"cardpay"`
	MobileMoney             MobileMoney   `yaml:"mobilemoney"`
	Matching                Matching      `yaml:"matching"`
	Billing                 Billing       `yaml:"billing"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:"0.0.0.0:8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
// Redis используется и как кеш анкет, и как TTL-хранилище одноразовых
// кодов подтверждения.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// JWTToken структура для работы с jwt-токеном.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// CardPay настройки провайдера карточной оплаты.
type CardPay struct {
	ShopID        string `yaml:"shop_id"`
	SecretKey     string `yaml:"secret_key" env:"CARDPAY_SECRET_KEY"`
	APIURL        string `yaml:"api_url" env-default:"https://api.cardpay.example/v1"`
	WebhookSecret string `yaml:"webhook_secret" env:"CARDPAY_WEBHOOK_SECRET"`
}

// MobileMoney настройки провайдера мобильных денег.
type MobileMoney struct {
	SubscriptionKey string `yaml:"subscription_key" env:"MOMO_SUBSCRIPTION_KEY"`
	APIURL          string `yaml:"api_url" env-default:"https://api.momo.example/collection/v1"`
	CallbackToken   string `yaml:"callback_token" env:"MOMO_CALLBACK_TOKEN"`
}

// Matching параметры подбора и дневных лимитов.
type Matching struct {
	MinAge          int     `yaml:"min_age" env-default:"18"`
	FreeDailyLikes  int     `yaml:"free_daily_likes" env-default:"5"`
	FreeRadiusKm    float64 `yaml:"free_radius_km" env-default:"50"`
	PremiumRadiusKm float64 `yaml:"premium_radius_km" env-default:"300"`
}

// Billing валюта и таблица тарифов. Набор тарифов и цены в исходных
// вариантах расходились, поэтому таблица полностью конфигурируемая.
type Billing struct {
	Currency string `yaml:"currency" env-default:"BIF"`
	Plans    []Plan `yaml:"plans"`
}

// Plan один тариф: имя, цена и длительность в часах.
type Plan struct {
	Name          string `yaml:"name"`
	Price         int64  `yaml:"price"`
	DurationHours int    `yaml:"duration_hours"`
}

// MustLoad функция для загрузки конфига, путь берётся из CONFIG_PATH.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
