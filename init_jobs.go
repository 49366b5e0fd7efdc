// Package main, zamanlanmış bakım işlerinin wire-up'ı.
package main

import (
	"context"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/config"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/services"
	"go.uber.org/zap"
)

// initJobs, retention işlerine IP throttle temizliğini ekler.
// JOBS_ENABLED=false ise nil döner.
func initJobs(repos *Repositories, limiters *RateLimiters, cfg *config.Config, logger *zap.Logger) (*services.JobScheduler, error) {
	if !cfg.Jobs.Enabled {
		logger.Info("scheduled jobs disabled")
		return nil, nil
	}

	jobs := services.RetentionJobs(
		repos.Audit, repos.Usage, repos.Session,
		cfg.Audit.RetentionDays, cfg.Audit.RequestLogRetentionDays,
	)
	jobs = append(jobs, services.Job{
		Name:     "ip_throttle_cleanup",
		Schedule: "@every 10m",
		Run: func(ctx context.Context) (int64, error) {
			return int64(limiters.IP.Cleanup()), nil
		},
	})

	return services.NewJobScheduler(cfg.Jobs.Schedule, jobs, logger)
}
