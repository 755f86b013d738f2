package queue

import (
	"github.com/hibiken/asynq"

	"storefront-backend/internal/config"
)

// Enqueuer is the slice of the asynq client services use for post-commit
// tasks. Kept narrow so tests can swap in a recorder.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Host,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// NewClient builds the producer side of the work queue.
func NewClient(cfg config.RedisConfig) *asynq.Client {
	return asynq.NewClient(RedisOpt(cfg))
}
