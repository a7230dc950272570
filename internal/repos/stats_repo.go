package repos

import (
	"time"

	"github.com/jmoiron/sqlx"

	"libris/internal/domain"
)

type StatsRepo struct{ db *sqlx.DB }

func NewStatsRepo(db *sqlx.DB) *StatsRepo { return &StatsRepo{db: db} }

// Summary derives all counters in a single read. Overdue uses the effective
// status, so the numbers are fresh even if the sweeper has not run yet.
func (r *StatsRepo) Summary(now time.Time) (domain.Stats, error) {
	var s domain.Stats
	err := r.db.Get(&s, `
		SELECT
		  (SELECT COUNT(*) FROM books)                                  AS books,
		  (SELECT COALESCE(SUM(total_copies), 0) FROM books)            AS copies,
		  (SELECT COALESCE(SUM(copies_available), 0) FROM books)        AS available,
		  (SELECT COUNT(*) FROM members)                                AS members,
		  (SELECT COUNT(*) FROM loans WHERE status != 'returned')       AS active_loans,
		  (SELECT COUNT(*) FROM loans
		     WHERE status = 'overdue'
		        OR (status = 'borrowed' AND due_at < ?))                AS overdue
	`, domain.FormatTime(now))
	if err != nil {
		return domain.Stats{}, domain.Unavailable(err)
	}
	return s, nil
}
