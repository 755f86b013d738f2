package main

import (
	"context"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"storefront-backend/internal/infrastructure/queue"
	"storefront-backend/internal/shared"
	"storefront-backend/pkg/container"
	"storefront-backend/pkg/logger"
)

type asynqServer struct {
	*asynq.Server
}

func setupAsynqServer(c *container.Container, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		queue.RedisOpt(c.Config.Redis),
		asynq.Config{
			Queues: map[string]int{
				shared.QueueSearch: 6,
				shared.QueueMedia:  3,
				"default":          1,
			},
			Concurrency: 10,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Warn("task failed", map[string]interface{}{
					"type":  task.Type(),
					"error": err.Error(),
				})
			}),
		},
	)

	// The index must exist before sync tasks start landing documents.
	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := c.CategoryService.EnsureSearchCollection(startupCtx); err != nil {
		logger.Error("failed to ensure category search collection", err)
	}

	go func() {
		logger.Info("worker starting", map[string]interface{}{})
		if err := srv.Run(mux); err != nil {
			log.Fatalf("worker failed: %v", err)
		}
	}()

	return &asynqServer{Server: srv}
}

func (s *asynqServer) Shutdown() {
	s.Server.Shutdown()
	logger.Info("worker stopped", map[string]interface{}{})
}
