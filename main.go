package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"go.uber.org/zap"

	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/account"
	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/api"
	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/cli"
	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/config"
	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/consumer"
	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/dispatch"
	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/event"
	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/mail"
	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/metrics"
	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/ratelimit"
	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/template"
	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/version"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cliConfig := cli.Parse()

	log := setupLogger(cliConfig.Debug)
	log.With("version", version.Version).Info("Starting account notification emailer")
	cliConfig.Print(log)

	cfg, err := config.Load(cliConfig.ConfigPath)
	if err != nil {
		log.Fatalf("Error loading emailer config: %v", err)
	}
	cfg.Defaults()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid emailer config: %v", err)
	}

	if cliConfig.Debug {
		log.Infof("%#v", cfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		log.Fatalf("Error loading AWS config: %v", err)
	}

	dispatcher := dispatch.New(
		event.NewNormalizer(log),
		account.NewDynamoDBResolver(newDynamoDBClient(awsCfg, cfg), cfg.DynamoDB.TableName, log),
		template.NewResolver(
			template.DefaultCatalog(log),
			template.NewStore(newS3Client(awsCfg, cfg), cfg.S3.BucketName, log),
			log,
		),
		newSender(awsCfg, cfg, log),
		log,
	)

	limiter := ratelimit.New(ratelimit.DefaultNotifyConfig())
	defer limiter.Stop()

	server := api.NewServer(log.Desugar(), cfg, cliConfig.Debug)
	err = server.RegisterAll([]api.APIController{
		api.NewNotifyController(dispatcher, limiter, log),
	})
	if err != nil {
		log.Fatalf("Error registering emailer controllers: %v", err)
	}

	go serveMetrics(cfg.Metrics.ListenAddress, log)

	if cliConfig.EnableConsumer && len(cfg.Kafka.Brokers) > 0 {
		eventConsumer := consumer.New(cfg.Kafka, dispatcher, log)
		defer func() {
			if err := eventConsumer.Close(); err != nil {
				log.Warnw("Error closing event consumer", "error", err)
			}
		}()
		go func() {
			if err := eventConsumer.Run(ctx); err != nil {
				log.Errorw("Event consumer stopped", "error", err)
				stop()
			}
		}()
	}

	go func() {
		log.Infow("HTTP trigger listening", "address", cfg.Server.ListenAddress)
		if err := server.Listen(); err != nil {
			log.Errorw("HTTP server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warnw("Error shutting down HTTP server", "error", err)
	}
}

func setupLogger(debug bool) *zap.SugaredLogger {
	var zlog *zap.Logger
	var err error
	if debug {
		zlog, err = zap.NewDevelopment()
	} else {
		zlog, err = zap.NewProduction()
	}
	if err != nil {
		stdlog.Fatalf("failed to set up logger: %v", err)
	}
	return zlog.Sugar()
}

func newDynamoDBClient(awsCfg aws.Config, cfg config.Config) *dynamodb.Client {
	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.AWS.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWS.Endpoint)
		}
	})
}

func newS3Client(awsCfg aws.Config, cfg config.Config) *s3.Client {
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.AWS.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWS.Endpoint)
			o.UsePathStyle = true // required for MinIO/LocalStack
		}
	})
}

func newSender(awsCfg aws.Config, cfg config.Config, log *zap.SugaredLogger) mail.Sender {
	if cfg.Mail.Provider == "smtp" {
		return mail.NewSMTPSender(cfg.Mail, log)
	}
	client := ses.NewFromConfig(awsCfg, func(o *ses.Options) {
		if cfg.AWS.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWS.Endpoint)
		}
	})
	return mail.NewSESSender(client, cfg.Mail.SenderAddress, log)
}

func serveMetrics(address string, log *zap.SugaredLogger) {
	if address == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.MetricsHandler())

	log.Infow("Metrics endpoint listening", "address", address)
	srv := &http.Server{Addr: address, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil {
		log.Warnw("Metrics server stopped", "error", err)
	}
}
