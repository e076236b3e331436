package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/imrishuroy/go-survey-intake/internal/aws"
	"github.com/imrishuroy/go-survey-intake/internal/config"
	"github.com/imrishuroy/go-survey-intake/internal/handlers"
	"github.com/imrishuroy/go-survey-intake/internal/logger"
	"github.com/imrishuroy/go-survey-intake/internal/survey"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", "json")
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	hcfg, cleanup, err := buildHandlerConfig(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init dependencies")
	}
	defer cleanup()

	r := handlers.NewRouter(hcfg)

	if cfg.LambdaMode {
		adapter := ginadapter.New(r)
		lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
			return adapter.ProxyWithContext(ctx, req)
		})
		return
	}

	if err := serve(r, cfg.Port); err != nil {
		log.Error().Err(err).Msg("server error")
	}
}

// buildHandlerConfig wires the store and the optional AWS side channels.
func buildHandlerConfig(ctx context.Context, cfg config.Config) (handlers.HandlerConfig, func(), error) {
	cleanup := func() {}
	var hcfg handlers.HandlerConfig

	var clients *aws.AWSClients
	if cfg.NeedsAWS() {
		c, err := aws.NewAWSClients(ctx, awsServices(cfg))
		if err != nil {
			return hcfg, cleanup, fmt.Errorf("init aws clients: %w", err)
		}
		clients = c
	}

	switch cfg.StorageBackend {
	case config.BackendDynamoDB:
		hcfg.Store = survey.NewDynamoStore(clients.DynamoDB, cfg.SurveyTable)
		log.Info().Str("table", cfg.SurveyTable).Msg("using dynamodb storage")
	default:
		pool, err := survey.NewPool(ctx, cfg.PostgresURL(), int32(cfg.PGMaxConns))
		if err != nil {
			return hcfg, cleanup, err
		}
		cleanup = pool.Close

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := pool.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Str("host", cfg.PGHost).Msg("postgres not reachable yet; submissions will fail until it is")
		}
		cancel()

		hcfg.Store = survey.NewPostgresStore(pool)
		log.Info().Str("host", cfg.PGHost).Str("database", cfg.PGDatabase).Msg("using postgres storage")
	}

	if cfg.EventsQueueURL != "" {
		hcfg.Publisher = aws.NewPublisher(clients.SQS, cfg.EventsQueueURL)
	}
	if cfg.MetricsNamespace != "" {
		hcfg.Metrics = aws.NewMetrics(clients.CloudWatch, cfg.MetricsNamespace)
	}

	return hcfg, cleanup, nil
}

func awsServices(cfg config.Config) aws.Services {
	return aws.Services{
		DynamoDB:   cfg.StorageBackend == config.BackendDynamoDB,
		SQS:        cfg.EventsQueueURL != "",
		CloudWatch: cfg.MetricsNamespace != "",
	}
}

// serve runs the HTTP listener until SIGINT/SIGTERM, then drains in-flight requests.
func serve(h http.Handler, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
		log.Info().Msg("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server shutdown complete")
	return nil
}
