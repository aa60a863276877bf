package main

import (
	"context"
	"log"
	"time"

	"wardrobeapi/controllers"
	"wardrobeapi/dbhelper"
	"wardrobeapi/services"
	"wardrobeapi/stylist"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}
	if services.GetEnv("JWT_SECRET", "") == "" {
		log.Fatal("JWT_SECRET environment variable is not set!")
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              services.GetEnv("SENTRY_DSN", ""),
		Environment:      services.GetEnv("ENV", "local"),
		Release:          "wardrobeapi@1.0.0",
		Debug:            false,
		TracesSampleRate: 1.0,
	})
	if err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	defer sentry.Recover()
	defer sentry.Flush(2 * time.Second)

	ctx := context.Background()
	db := dbhelper.SetupDB()

	genaiClient, err := services.NewGeminiClient(ctx)
	if err != nil {
		log.Fatalf("error initializing gemini client: %v", err)
	}
	model := services.ParseLLMModelName(services.GetEnv("STYLIST_MODEL", ""), services.Flash25)
	gemini := services.NewGeminiStylist(genaiClient.Models, model)

	store := services.NewGormWardrobeStore(db)
	config := services.StylistConfigFromEnv()
	engine := stylist.NewEngine(store, store, gemini, config)
	recommender := stylist.NewRecommender(store)
	log.Printf("[Stylist] model %s, max outfits %d, history %d, turns %d", model, config.MaxOutfits, config.HistoryLimit, config.TurnLimit)

	awsService := &services.AWSService{}
	if err := awsService.InitPresignClient(ctx); err != nil {
		log.Fatalf("Failed to initialize AWS provider: %v", err)
	}
	urlCache, err := services.NewURLCacheService(awsService, services.GetEnv("R2_BUCKET_NAME", ""))
	if err != nil {
		log.Fatal("Failed to initialize URL cache service")
	}
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: services.GetEnv("ASYNC_BROKER_ADDRESS", "localhost:6379")})
	defer asynqClient.Close()

	e := controllers.SetupServer(controllers.Dependencies{
		DB:          db,
		Engine:      engine,
		Recommender: recommender,
		Wardrobe:    store,
		Outfits:     store,
		AWSService:  awsService,
		URLCache:    urlCache,
		AsynqClient: asynqClient,
	})
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(5)))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	e.Logger.Fatal(e.Start(":" + services.GetEnv("PORT", "8083")))
}
