package services

import (
	"context"
	"fmt"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/metrics"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/repository"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobTimeout = 10 * time.Minute

// Job, zamanlanmış bir bakım işi. Run etkilenen satır sayısını döner.
// Schedule boşsa scheduler'ın varsayılan ifadesi kullanılır.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) (int64, error)
}

// JobScheduler, bakım işlerini robfig/cron ile çalıştırır.
// Bir işin hatası loglanır; scheduler ve diğer işler devam eder.
type JobScheduler struct {
	cron   *cron.Cron
	jobs   []Job
	logger *zap.Logger
}

// NewJobScheduler, geçersiz cron ifadesinde hata döner.
func NewJobScheduler(defaultSchedule string, jobs []Job, logger *zap.Logger) (*JobScheduler, error) {
	s := &JobScheduler{
		cron:   cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		jobs:   jobs,
		logger: logger.Named("jobs"),
	}

	for _, j := range jobs {
		schedule := j.Schedule
		if schedule == "" {
			schedule = defaultSchedule
		}
		if _, err := s.cron.AddFunc(schedule, func() { s.run(context.Background(), j) }); err != nil {
			return nil, fmt.Errorf("invalid schedule %q for job %s: %w", schedule, j.Name, err)
		}
	}
	return s, nil
}

func (s *JobScheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.jobs)))
}

// Stop, yeni çalıştırmaları durdurur ve devam edenlerin bitmesini ctx kadar bekler.
func (s *JobScheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("jobs still running at shutdown")
	}
}

// RunAll, tüm işleri sırayla hemen çalıştırır.
func (s *JobScheduler) RunAll(ctx context.Context) {
	for _, j := range s.jobs {
		s.run(ctx, j)
	}
}

func (s *JobScheduler) run(ctx context.Context, j Job) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	started := time.Now()
	n, err := j.Run(ctx)
	metrics.RecordJobRun(j.Name, err == nil)
	if err != nil {
		s.logger.Error("job failed", zap.String("job", j.Name), zap.Error(err))
		return
	}
	s.logger.Info("job finished", zap.String("job", j.Name), zap.Int64("affected", n), zap.Duration("took", time.Since(started)))
}

// RetentionJobs, audit, istek log'u ve oturum temizliği işlerini kurar.
// retention günleri 0 veya negatifse ilgili iş eklenmez.
func RetentionJobs(
	auditRepo repository.AuditRepository,
	usageRepo repository.UsageRepository,
	sessionRepo repository.SessionRepository,
	auditDays, requestLogDays int,
) []Job {
	var jobs []Job

	if auditDays > 0 {
		jobs = append(jobs, Job{
			Name: "audit_retention",
			Run: func(ctx context.Context) (int64, error) {
				return auditRepo.DeleteBefore(ctx, now().AddDate(0, 0, -auditDays))
			},
		})
	}
	if requestLogDays > 0 {
		jobs = append(jobs, Job{
			Name: "request_log_retention",
			Run: func(ctx context.Context) (int64, error) {
				return usageRepo.DeleteBefore(ctx, now().AddDate(0, 0, -requestLogDays))
			},
		})
	}
	jobs = append(jobs, Job{
		Name:     "session_purge",
		Schedule: "@every 1h",
		Run: func(ctx context.Context) (int64, error) {
			return sessionRepo.DeleteExpired(ctx, now())
		},
	})

	return jobs
}
