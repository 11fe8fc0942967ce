package main

import (
	"context"
	"log"

	"github.com/hibiken/asynq"

	"library-backend/internal/domains/loan/job"
	"library-backend/internal/shared"
)

type asynqServer struct {
	*asynq.Server
}

func setupAsynqServer(cfg *WorkerConfig, handlers *job.Handler) *asynqServer {
	mux := asynq.NewServeMux()
	mux.HandleFunc(shared.TypeScanOverdueLoans, handlers.HandleScanOverdueLoans)
	mux.HandleFunc(shared.TypeSendDueSoonReminder, handlers.HandleSendDueSoonReminder)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		},
		asynq.Config{
			Queues: map[string]int{
				shared.QueueLoans:   10,
				shared.QueueDefault: 5,
			},
			Concurrency: 10,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("task failed: type=%s err=%v", task.Type(), err)
			}),
		},
	)

	go func() {
		log.Println("worker starting...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("worker failed: %v", err)
		}
	}()

	return &asynqServer{Server: srv}
}

func (s *asynqServer) Shutdown() {
	log.Println("worker shutting down...")
	s.Server.Shutdown()
}
