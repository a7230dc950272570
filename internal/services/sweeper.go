package services

import (
	"context"
	"time"

	applog "libris/internal/log"
	"libris/internal/repos"
)

// OverdueSweeper periodically persists borrowed -> overdue so the stored
// status catches up with the derived one. Reads never depend on it.
type OverdueSweeper struct {
	Loans *repos.LoanRepo
	Every time.Duration
}

func NewOverdueSweeper(loans *repos.LoanRepo, every time.Duration) *OverdueSweeper {
	return &OverdueSweeper{Loans: loans, Every: every}
}

func (s *OverdueSweeper) Run(ctx context.Context) {
	// sweep once at startup so a restart catches up immediately
	s.Sweep(time.Now())

	t := time.NewTicker(s.Every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.Sweep(now)
		}
	}
}

func (s *OverdueSweeper) Sweep(now time.Time) {
	n, err := s.Loans.MarkOverdue(now)
	if err != nil {
		applog.Error(nil, "loan.sweep", err, nil)
		return
	}
	if n > 0 {
		applog.Info(nil, "loan.sweep", map[string]any{"marked_overdue": n})
	}
}
