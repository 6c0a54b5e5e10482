package scheduler

import (
	"context"

	"marketplace_backend/platform/config"
	"marketplace_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Periodic enqueues a facet refresh on the configured cron spec.
type Periodic struct {
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

func NewPeriodic(cfg config.SchedulerConfig, log *logger.Logger) (*Periodic, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	task, err := NewFacetsRefreshTask(FacetsRefreshPayload{Reason: "periodic"})
	if err != nil {
		return nil, err
	}

	s := asynq.NewScheduler(opt, &asynq.SchedulerOpts{})
	spec := cfg.GetFacetRefreshSpec()
	if _, err := s.Register(spec, task, asynq.Queue(queueName(cfg))); err != nil {
		return nil, err
	}
	log.Info("facet refresh scheduled", "spec", spec)

	return &Periodic{scheduler: s, log: log}, nil
}

func (p *Periodic) Run(ctx context.Context) {
	if p == nil || p.scheduler == nil {
		return
	}

	if err := p.scheduler.Start(); err != nil {
		p.log.Error("periodic scheduler failed to start", "error", err)
		return
	}

	<-ctx.Done()
	p.scheduler.Shutdown()
}
