package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"library-backend/internal/domains/loan/job"
	"library-backend/internal/shared"
	"library-backend/pkg/logger"
)

// Scheduler registers the recurring loan jobs with asynq.
type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(redisAddress, redisPassword string, redisDB int) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     redisAddress,
			Password: redisPassword,
			DB:       redisDB,
		},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

// RegisterLoanJobs wires the overdue sweep. The sweep itself enqueues
// the per-loan reminder tasks, so only one entry needs a schedule.
func (s *Scheduler) RegisterLoanJobs() error {
	_, err := s.scheduler.Register(
		"0 * * * *", // hourly
		job.NewScanOverdueTask(),
		asynq.Queue(shared.QueueLoans),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	)
	if err != nil {
		logger.Error("failed to register overdue scan job", err)
		return err
	}

	logger.Info("registered overdue scan: hourly", map[string]interface{}{})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
