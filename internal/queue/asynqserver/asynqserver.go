package asynqserver

import (
	"context"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/rubbishit/backend/internal/cache"
	"github.com/rubbishit/backend/internal/config"
	"github.com/rubbishit/backend/internal/queue/processor"
	"github.com/rubbishit/backend/internal/queue/task"
	"github.com/rubbishit/backend/internal/worker"
	"github.com/rubbishit/backend/pkg/logger"
)

const defaultConcurrency = 5

func New(cfg config.Cache, queueCfg config.QueueConfig, workers *worker.Workers) (*asynq.Server, *asynq.ServeMux) {
	concurrency := queueCfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	mux, queues := getQueues(workers)
	srv := asynq.NewServer(
		RedisOptions(cfg),
		asynq.Config{
			Concurrency:  concurrency,
			LogLevel:     asynq.ErrorLevel,
			Queues:       queues,
			ErrorHandler: asynq.ErrorHandlerFunc(reportError),
		},
	)

	return srv, mux
}

func RedisOptions(cfg config.Cache) asynq.RedisConnOpt {
	var opts asynq.RedisConnOpt
	if cfg.Type == cache.RedisTypeCluster {
		opts = asynq.RedisClusterClientOpt{Addrs: cfg.RedisCluster.Addresses, Password: cfg.RedisCluster.Password}
	} else {
		opts = asynq.RedisClientOpt{Addr: cfg.Redis.Address, Password: cfg.Redis.Password}
	}
	return opts
}

func getQueues(workers *worker.Workers) (*asynq.ServeMux, map[string]int) {
	mux := asynq.NewServeMux()
	mux.Handle(task.SendVerificationEmailTaskName, processor.NewSendEmailProcessor(workers))
	queues := map[string]int{
		task.SendVerificationEmailQueueName: 1,
	}
	return mux, queues
}

func reportError(ctx context.Context, t *asynq.Task, err error) {
	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, _ := asynq.GetMaxRetry(ctx)

	logger.Error("task failed",
		zap.String("type", t.Type()),
		zap.Int("retried", retried),
		zap.Int("max_retry", maxRetry),
		zap.Error(err))
}
