package main

import (
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/echoscribe/backend/internal/config"
	"github.com/echoscribe/backend/internal/history"
	"github.com/echoscribe/backend/internal/jobs"
	"github.com/echoscribe/backend/internal/kv"
	"github.com/echoscribe/backend/internal/queue"
	"github.com/echoscribe/backend/internal/queue/workers"
	"github.com/echoscribe/backend/internal/stt"
	"github.com/echoscribe/backend/internal/transcribe"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	store := kv.NewRedisStore(rdb)
	histStore := history.NewStore(store, cfg.History.Key, cfg.History.Limit)
	tracker := jobs.NewTracker(store)
	provider := stt.NewProvider(cfg.STT.Backend,
		stt.OpenAIConfig{
			APIKey:  cfg.STT.OpenAIKey,
			BaseURL: cfg.STT.OpenAIBaseURL,
			Model:   cfg.STT.Model,
		},
		stt.LocalConfig{BaseURL: cfg.STT.LocalBaseURL},
	)
	svc := transcribe.NewService(provider, histStore)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	worker := workers.NewTranscriptionWorker(svc, tracker)
	mux.HandleFunc(queue.TypeTranscriptionProcess, worker.ProcessTask)

	slog.Info("starting worker", "concurrency", 4, "stt", provider.Name())
	if err := srv.Run(mux); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
