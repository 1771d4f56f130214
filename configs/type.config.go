package config

import (
	"context"
	"sync"

	"mpesa-gateway/internal/common/enum"
	"mpesa-gateway/internal/pkg/mpesa"
	"mpesa-gateway/internal/pkg/rabbitmq"
	"mpesa-gateway/internal/pkg/redis"
)

// Config holds all application configuration loaded from environment variables
type Config struct {
	AppEnv        enum.EnvEnum `env:"APP_ENV" envDefault:"development"`
	AppPort       int          `env:"APP_PORT" envDefault:"8080"`
	AppBaseURL    string       `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	RedisHost     string       `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int          `env:"REDIS_PORT" envDefault:"6379"`
	RedisUser     string       `env:"REDIS_USER" envDefault:"default"`
	RedisPass     string       `env:"REDIS_PASS" envDefault:""`
	RedisPoolSize int          `env:"REDIS_POOL_SIZE" envDefault:"10"`
	RabbitHost    string       `env:"RABBIT_HOST" envDefault:"localhost"`
	RabbitPort    int          `env:"RABBIT_PORT" envDefault:"5672"`
	RabbitUser    string       `env:"RABBIT_USER" envDefault:"guest"`
	RabbitPass    string       `env:"RABBIT_PASS" envDefault:"guest"`

	MpesaConsumerKey       string            `env:"MPESA_CONSUMER_KEY"`
	MpesaConsumerSecret    string            `env:"MPESA_CONSUMER_SECRET"`
	MpesaEnv               enum.MpesaEnvEnum `env:"MPESA_ENV" envDefault:"sandbox"`
	MpesaPasskey           string            `env:"MPESA_PASSKEY" envDefault:"bfb279f9aa9bdbcf158e97dd71a467cd2e0c893059b10f78e6b72ada1ed2c919"`
	MpesaShortCode         string            `env:"MPESA_SHORT_CODE" envDefault:"174379"`
	MpesaInitiatorName     string            `env:"MPESA_INITIATOR_NAME" envDefault:""`
	MpesaInitiatorPassword string            `env:"MPESA_INITIATOR_PASSWORD" envDefault:""`
	MpesaCertificatePath   string            `env:"MPESA_CERTIFICATE_PATH" envDefault:""`
	MpesaTimeout           int               `env:"MPESA_TIMEOUT" envDefault:"30"`
	MpesaConnectTimeout    int               `env:"MPESA_CONNECT_TIMEOUT" envDefault:"10"`
	MpesaCallbackQueue     string            `env:"MPESA_CALLBACK_QUEUE" envDefault:"mpesa.callbacks"`
}

// SetupServerDto contains dependencies for server setup
type SetupServerDto struct {
	Ctx    *context.Context
	Cancel context.CancelFunc
	Wg     *sync.WaitGroup
	Env    *Config
	Rds    redis.IRedis
	Rb     *rabbitmq.ConnectionManager
	Mp     *mpesa.Client
}
