package main

import (
	"context"
	"log"
	"time"

	"wardrobeapi/dbhelper"
	"wardrobeapi/services"
	"wardrobeapi/tasks"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
)

func runScheduler(redis asynq.RedisClientOpt) {
	scheduler := asynq.NewScheduler(redis, &asynq.SchedulerOpts{
		LogLevel: asynq.InfoLevel,
	})

	entries := []struct {
		cron string
		task *asynq.Task
		desc string
	}{
		{
			cron: "*/10 * * * *",
			task: tasks.NewRequeueStaleTask(),
			desc: "Requeue stale clothing analysis",
		},
	}

	for _, t := range entries {
		entryID, err := scheduler.Register(t.cron, t.task, asynq.Queue(tasks.QueueGenerate))
		if err != nil {
			log.Fatalf("Failed to register task '%s': %v", t.desc, err)
		}
		log.Printf("Registered task '%s' with ID: %s, cron: %s", t.desc, entryID, t.cron)
	}

	log.Println("Starting scheduler...")
	if err := scheduler.Run(); err != nil {
		log.Fatalf("Scheduler failed: %v", err)
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[Queue] No .env file found, using process environment")
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         services.GetEnv("SENTRY_DSN", ""),
		Environment: services.GetEnv("ENV", "local"),
		Release:     "wardrobeapi-worker@1.0.0",
	}); err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	defer sentry.Flush(2 * time.Second)

	ctx := context.Background()
	redis := asynq.RedisClientOpt{Addr: services.GetEnv("ASYNC_BROKER_ADDRESS", "localhost:6379")}
	srv := asynq.NewServer(
		redis,
		asynq.Config{Concurrency: 10, Queues: map[string]int{
			tasks.QueueGenerate: 7,
		}},
	)

	awsService := &services.AWSService{}
	if err := awsService.InitPresignClient(ctx); err != nil {
		log.Fatalf("[Queue] Failed to initialize AWS provider: %v", err)
	}
	urlCache, err := services.NewURLCacheService(awsService, services.GetEnv("R2_BUCKET_NAME", ""))
	if err != nil {
		log.Fatal("[Queue] Failed to initialize URL cache service")
	}
	genaiClient, err := services.NewGeminiClient(ctx)
	if err != nil {
		log.Fatalf("[Queue] error initializing gemini client: %v", err)
	}
	analyzer := services.NewGeminiStylist(genaiClient.Models, services.ParseLLMModelName(services.GetEnv("ANALYZER_MODEL", ""), services.Flash25))

	db := dbhelper.SetupDB()
	asynqClient := asynq.NewClient(redis)
	defer asynqClient.Close()

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeClothingAnalyze, func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleClothingAnalysisTask(ctx, t, db, analyzer, urlCache)
	})
	mux.HandleFunc(tasks.TypeClothingRequeueStale, func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleRequeueStaleTask(ctx, t, db, asynqClient)
	})

	go runScheduler(redis)
	if err := srv.Run(mux); err != nil {
		log.Fatal(err)
	}
}
