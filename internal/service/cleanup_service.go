package service

import (
	"context"
	"time"

	"chowbot-be/internal/pkg/logger"
	"chowbot-be/internal/repository/specification"
	"chowbot-be/internal/repository/unitofwork"
)

const cleanupInterval = time.Hour

type ICleanupService interface {
	Run(ctx context.Context)
	SweepOnce(ctx context.Context) (int64, error)
}

// cleanupService reaps stale conversations in two phases: a sweep first marks
// conversations idle past the retention window as inactive, and deletes only
// the ones a previous sweep already marked and that are still idle. A new
// message in between revives the conversation and spares it. Orders are never
// touched; they are the audit trail.
type cleanupService struct {
	uowFactory unitofwork.RepositoryFactory
	retention  time.Duration
	log        logger.ILogger
}

func NewCleanupService(uowFactory unitofwork.RepositoryFactory, retentionHours int, log logger.ILogger) ICleanupService {
	return &cleanupService{
		uowFactory: uowFactory,
		retention:  time.Duration(retentionHours) * time.Hour,
		log:        log,
	}
}

func (s *cleanupService) Run(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	s.log.Info("cleanup", "Session reaper started", map[string]interface{}{
		"interval":  cleanupInterval.String(),
		"retention": s.retention.String(),
	})

	for {
		select {
		case <-ctx.Done():
			s.log.Info("cleanup", "Session reaper stopped", nil)
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				s.log.Error("cleanup", "Sweep failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
}

func (s *cleanupService) SweepOnce(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.retention)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ConversationRepository()

	deleted, err := repo.DeleteWhere(ctx,
		specification.InactiveSince{Cutoff: cutoff},
		specification.ActiveIs{Active: false},
	)
	if err != nil {
		return 0, err
	}

	marked, err := repo.MarkInactiveWhere(ctx,
		specification.InactiveSince{Cutoff: cutoff},
		specification.ActiveIs{Active: true},
	)
	if err != nil {
		return deleted, err
	}

	if deleted > 0 || marked > 0 {
		s.log.Info("cleanup", "Swept stale conversations", map[string]interface{}{
			"deleted": deleted,
			"marked":  marked,
			"cutoff":  cutoff.Format(time.RFC3339),
		})
	}
	return deleted, nil
}
