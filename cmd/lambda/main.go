package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"tutor-agent/handler"
	"tutor-agent/internal/config"
	"tutor-agent/internal/integrations/gemini"
	"tutor-agent/internal/integrations/paramstore"
	"tutor-agent/internal/repository"
	"tutor-agent/internal/session"
	"tutor-agent/internal/usecase"
)

func main() {
	ctx := context.Background()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if cfg.RecordsTable == "" || cfg.ParamPrefix == "" {
		logger.Error("RECORDS_TABLE and PARAM_PREFIX must be set")
		os.Exit(1)
	}

	// ---- AWS SDK config ----
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		logger.Error("failed to load AWS config", "err", err)
		os.Exit(1)
	}

	// ---- Provider, key from SSM ----
	ssmClient, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
	if err != nil {
		logger.Error("failed to create SSM client", "err", err)
		os.Exit(1)
	}
	keys, err := gemini.NewParamKey(ssmClient, cfg.ParamPrefix+"/gemini-api-key")
	if err != nil {
		logger.Error("failed to create key provider", "err", err)
		os.Exit(1)
	}
	llm, err := gemini.NewClient(keys)
	if err != nil {
		logger.Error("failed to create gemini client", "err", err)
		os.Exit(1)
	}
	invoker, err := usecase.NewInvoker(llm, cfg.GeminiModel, usecase.RetryPolicy{
		MaxAttempts: cfg.GenerateMaxAttempts,
		Delay:       cfg.GenerateRetryDelay,
	})
	if err != nil {
		logger.Error("failed to create invoker", "err", err)
		os.Exit(1)
	}

	// ---- Recorder ----
	recorder, err := repository.NewDynamoStore(awsdynamodb.NewFromConfig(awsCfg), cfg.RecordsTable)
	if err != nil {
		logger.Error("failed to create interaction recorder", "err", err)
		os.Exit(1)
	}

	// ---- Orchestration ----
	// Session context lives per warm container; it is not durable.
	sessions := session.NewStore(cfg.SessionMaxTurns)
	svc, err := usecase.NewChatService(sessions, invoker, recorder, logger)
	if err != nil {
		logger.Error("failed to create chat service", "err", err)
		os.Exit(1)
	}

	h, err := handler.NewLambda(svc, cfg.RequestTimeout)
	if err != nil {
		logger.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}
