package main

import (
	"log"

	"library-backend/internal/infrastructure/queue"
)

type asynqScheduler struct {
	*queue.Scheduler
}

func setupScheduler(cfg *WorkerConfig) *asynqScheduler {
	scheduler := queue.NewScheduler(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	if err := scheduler.RegisterLoanJobs(); err != nil {
		log.Fatalf("failed to register scheduled jobs: %v", err)
	}

	go func() {
		if err := scheduler.Start(); err != nil {
			log.Fatalf("scheduler failed: %v", err)
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}
