package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"storefront-backend/internal/config"
	"storefront-backend/internal/shared"
	"storefront-backend/pkg/logger"
)

// Scheduler registers recurring tasks. It must run in exactly one process
// instance, the worker binary, so cron entries fire once per tick.
type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redisCfg config.RedisConfig, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		RedisOpt(redisCfg),
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

// RegisterJobs wires every cron entry. Call before Run.
func (s *Scheduler) RegisterJobs() error {
	return s.registerCategoryReindexJob()
}

// Nightly full rebuild of the category search index. TaskID makes the
// enqueue unique so an overlapping manual trigger cannot double-run it.
func (s *Scheduler) registerCategoryReindexJob() error {
	task := asynq.NewTask(shared.TypeCategoryReindexAll, nil)

	_, err := s.scheduler.Register(
		s.jobConfig.ReindexCron,
		task,
		asynq.Queue(shared.QueueSearch),
		asynq.TaskID("scheduled:"+shared.TypeCategoryReindexAll),
		asynq.MaxRetry(1),
		asynq.Timeout(30*time.Minute),
	)
	if err != nil {
		logger.Error("failed to register category reindex job", err)
		return err
	}

	logger.Info("registered category reindex job", map[string]interface{}{
		"cron": s.jobConfig.ReindexCron,
	})
	return nil
}

func (s *Scheduler) Run() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
