package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/earsip/internal/server/models"
	"github.com/dmitrijs2005/earsip/internal/server/repositories/repomanager"
)

// DashboardService computes dashboard counters and serves the FAQ list.
type DashboardService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewDashboardService(db *sql.DB, m repomanager.RepositoryManager) *DashboardService {
	return &DashboardService{db: db, repomanager: m}
}

// Stats counts letters: totals per kind, archived across both kinds and
// pending (not yet archived) across both kinds.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	repo := s.repomanager.Letters(s.db)
	archived, pending := true, false

	stats := &models.DashboardStats{}
	var err error

	if stats.IncomingTotal, err = repo.Count(ctx, models.Incoming, nil); err != nil {
		return nil, err
	}
	if stats.OutgoingTotal, err = repo.Count(ctx, models.Outgoing, nil); err != nil {
		return nil, err
	}

	for _, kind := range []models.LetterKind{models.Incoming, models.Outgoing} {
		n, err := repo.Count(ctx, kind, &archived)
		if err != nil {
			return nil, err
		}
		stats.ArchivedTotal += n

		n, err = repo.Count(ctx, kind, &pending)
		if err != nil {
			return nil, err
		}
		stats.PendingTotal += n
	}

	return stats, nil
}

// FAQs returns the help questions in display order.
func (s *DashboardService) FAQs(ctx context.Context) ([]*models.FAQ, error) {
	return s.repomanager.FAQs(s.db).List(ctx)
}

// Ping reports whether the database is reachable.
func (s *DashboardService) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
