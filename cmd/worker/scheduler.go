package main

import (
	"log"

	"storefront-backend/internal/infrastructure/queue"
	"storefront-backend/pkg/container"
)

func setupScheduler(c *container.Container) *queue.Scheduler {
	scheduler := queue.NewScheduler(c.Config.Redis, c.Config.Job)

	if err := scheduler.RegisterJobs(); err != nil {
		log.Fatalf("failed to register scheduled jobs: %v", err)
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			log.Fatalf("scheduler failed: %v", err)
		}
	}()

	return scheduler
}
