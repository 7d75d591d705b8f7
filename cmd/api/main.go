package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gaiashield/gaiashield/internal/application"
	"github.com/gaiashield/gaiashield/internal/application/analyze"
	"github.com/gaiashield/gaiashield/internal/config"
	"github.com/gaiashield/gaiashield/internal/infra/cache"
	"github.com/gaiashield/gaiashield/internal/infra/httpserver"
	"github.com/gaiashield/gaiashield/internal/infra/llm/gemini"
	"github.com/gaiashield/gaiashield/internal/infra/llm/prompt"
	openweather "github.com/gaiashield/gaiashield/internal/infra/weather"
	"github.com/gaiashield/gaiashield/internal/middleware"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	mode := analyze.ModeLive
	if cfg.IsDemoMode() {
		mode = analyze.ModeDemo
		log.Printf("GOOGLE_API_KEY not set or demo forced - running in DEMO mode with mock data")
	}
	if !cfg.ForceDemoMode && cfg.Weather.APIKey == "" {
		log.Printf("OPENWEATHER_API_KEY not set - using mock weather data")
	}

	results := cache.New(cfg.Cache.MaxEntries, cfg.CacheTTL())
	llm := gemini.NewClient(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.BaseURL, cfg.LLM.MaxRetries, cfg.LLMTimeout())
	forecaster := openweather.NewClient(cfg.Weather.APIKey, cfg.Weather.BaseURL, cfg.WeatherTimeout())

	svc := &analyze.Service{
		Mode:         mode,
		Gen:          llm,
		Cache:        results,
		Weather:      forecaster,
		SystemPrompt: prompt.ForTask,
		Clock:        application.SystemClock{},
	}

	checkers := map[string]middleware.HealthChecker{
		"cache": middleware.CheckerFunc(func(context.Context) error { return nil }),
		"model": middleware.CheckerFunc(func(context.Context) error {
			if mode == analyze.ModeLive && !llm.Configured() {
				return fmt.Errorf("live mode without model credential")
			}
			return nil
		}),
		// weather is never fatal: an unconfigured key falls back to mock forecasts
		"weather": middleware.CheckerFunc(func(context.Context) error { return nil }),
	}

	handler := httpserver.NewRouter(svc, httpserver.Options{
		Health: middleware.HealthHandler(mode.String(), checkers),
		Metrics: middleware.MetricsHandler(func() map[string]interface{} {
			return map[string]interface{}{"cache": results.Stats()}
		}),
		CORSOrigins: cfg.CORS.Origins,
		RateLimit:   cfg.RateLimit.PerMinute,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s mode=%s", addr, mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
