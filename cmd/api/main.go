package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	config "mpesa-gateway/configs"
	"mpesa-gateway/internal/common/enum"
	"mpesa-gateway/internal/pkg/logger"
	"mpesa-gateway/internal/pkg/mpesa"
	"mpesa-gateway/internal/pkg/rabbitmq"
	"mpesa-gateway/internal/pkg/redis"
	"mpesa-gateway/internal/pkg/validation"
	serverApp "mpesa-gateway/internal/server"
	mpesaService "mpesa-gateway/internal/service/mpesa"

	"github.com/gin-gonic/gin"
)

func main() {
	logger.Setup()
	defer logger.Sync()

	env, err := config.GetEnv()
	if err != nil {
		logger.Error.Println("Error getting environment", err)
		panic(err)
	}

	var wg sync.WaitGroup
	ctx, cancel := context.WithCancel(context.Background())

	// Setup Redis
	redisClient, err := setupRedis(ctx, env)
	if err != nil {
		logger.Error.Println("Error setting up Redis", err)
		cancel()
		return
	}

	// Setup RabbitMQ
	rabbit, err := setupRabbitMQ(ctx, env)
	if err != nil {
		logger.Error.Println("Error setting up RabbitMQ", err)
		cancel()
		return
	}

	// Setup M-Pesa Client
	mp, err := setupMpesa(env, redisClient)
	if err != nil {
		logger.Error.Println("Error setting up M-Pesa client", err)
		cancel()
		return
	}

	setupServer(&config.SetupServerDto{
		Rds:    redisClient,
		Env:    env,
		Ctx:    &ctx,
		Cancel: cancel,
		Wg:     &wg,
		Rb:     rabbit,
		Mp:     mp,
	})
}

func setupRedis(ctx context.Context, env *config.Config) (redis.IRedis, error) {
	return redis.Setup(ctx, &redis.Config{
		Host:     env.RedisHost,
		Username: env.RedisUser,
		Port:     env.RedisPort,
		Password: env.RedisPass,
		PoolSize: env.RedisPoolSize,
	})
}

func setupRabbitMQ(ctx context.Context, env *config.Config) (*rabbitmq.ConnectionManager, error) {
	return rabbitmq.NewConnectionManager(ctx, &rabbitmq.Config{
		Username: env.RabbitUser,
		Password: env.RabbitPass,
		Host:     env.RabbitHost,
		Port:     env.RabbitPort,
	})
}

func setupMpesa(env *config.Config, cache mpesa.TokenCache) (*mpesa.Client, error) {
	return mpesa.Setup(&mpesa.Config{
		ConsumerKey:       env.MpesaConsumerKey,
		ConsumerSecret:    env.MpesaConsumerSecret,
		Environment:       mpesa.Environment(env.MpesaEnv.ToString()),
		Passkey:           env.MpesaPasskey,
		ShortCode:         env.MpesaShortCode,
		InitiatorName:     env.MpesaInitiatorName,
		InitiatorPassword: env.MpesaInitiatorPassword,
		CertificatePath:   env.MpesaCertificatePath,
		Timeout:           time.Duration(env.MpesaTimeout) * time.Second,
		ConnectTimeout:    time.Duration(env.MpesaConnectTimeout) * time.Second,
	}, cache)
}

func setupServer(payload *config.SetupServerDto) {
	rds := payload.Rds
	env := payload.Env
	ctx := payload.Ctx
	cancel := payload.Cancel
	wg := payload.Wg
	rb := payload.Rb
	mp := payload.Mp

	defer func() {
		cancel()
		wg.Wait()
		_ = rb.Close()
		if rds != nil {
			_ = rds.Close()
		}
	}()

	err := validation.Setup()
	if err != nil {
		logger.Error.Println("Failed to setup validation")
		panic(err)
	}

	if env.AppEnv == enum.PRODUCTION {
		gin.SetMode(gin.ReleaseMode)
	}
	e := gin.New()
	e.Use(gin.Recovery())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", env.AppPort),
		Handler: e,
	}

	publisher, err := rabbitmq.NewPublisher(*ctx, rb)
	if err != nil {
		panic(err)
	}
	defer func() { _ = publisher.Close() }()

	service := mpesaService.NewService(*ctx, mp, publisher, env.MpesaCallbackQueue)

	serverApp.Setup(e, *ctx, rds, rb, service)
	if err := serverApp.InitWorker(*ctx, wg, rb, service, env.MpesaCallbackQueue); err != nil {
		logger.Error.Println("Failed to start worker", err)
		panic(err)
	}

	go func() {
		logger.HTTP.Println("========= Server Started =========")
		logger.HTTP.Println("=========", env.AppPort, "=========")
		logger.HTTP.Printf("M-Pesa callbacks expected at %s%s/v1/mpesa/callback", env.AppBaseURL, serverApp.BasePath())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error.Println("Server error:", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan
	logger.HTTP.Println("========= Server Shutting Down =========")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	_ = server.Shutdown(shutdownCtx)
}
