package scheduler

import (
	"context"
	"log/slog"
	"time"

	"marketplace_backend/platform/config"
	"marketplace_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// FacetRefresher recomputes and stores the facet universe.
type FacetRefresher interface {
	RefreshFilters(ctx context.Context) error
}

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	refresher FacetRefresher
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, refresher FacetRefresher, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 2
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		refresher: refresher,
		log:       log,
	}

	mux.HandleFunc(TaskFacetsRefresh, w.handleFacetsRefresh)

	return w, nil
}

func (w *Worker) handleFacetsRefresh(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseFacetsRefreshPayload(task)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := w.refresher.RefreshFilters(ctx); err != nil {
		w.log.DatabaseError(ctx, "scheduler.facets.refresh", err)
		return err
	}

	w.log.Info("facet universe refreshed",
		slog.String("reason", payload.Reason),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
