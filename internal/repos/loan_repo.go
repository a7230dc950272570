package repos

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"libris/internal/domain"
)

type LoanRepo struct{ db *sqlx.DB }

func NewLoanRepo(db *sqlx.DB) *LoanRepo { return &LoanRepo{db: db} }

const loanCols = `id, member_id, book_id, borrowed_at, due_at,
  COALESCE(returned_at,'') AS returned_at, status, COALESCE(updated_at,'') AS updated_at`

// Create inserts the loan and takes the book copy in one transaction, so a
// loan record can never exist without its copy having been decremented.
func (r *LoanRepo) Create(l domain.Loan) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return domain.Unavailable(err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := decrementAvailable(tx, l.BookID, l.BorrowedAt); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		INSERT INTO loans(id, member_id, book_id, borrowed_at, due_at, status)
		VALUES(?,?,?,?,?,?)
	`, l.ID, l.MemberID, l.BookID, l.BorrowedAt, l.DueAt, l.Status); err != nil {
		return domain.Unavailable(err)
	}
	return domain.Unavailable(tx.Commit())
}

// Return marks the loan returned and restocks the book in one transaction.
// Returning an already-returned loan is a no-op that yields the stored
// record; the reported bool says whether inventory actually changed.
func (r *LoanRepo) Return(id string, now time.Time) (domain.Loan, bool, error) {
	nowStr := domain.FormatTime(now)

	tx, err := r.db.Beginx()
	if err != nil {
		return domain.Loan{}, false, domain.Unavailable(err)
	}
	defer func() { _ = tx.Rollback() }()

	var l domain.Loan
	err = tx.Get(&l, `SELECT `+loanCols+` FROM loans WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Loan{}, false, fmt.Errorf("loan %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Loan{}, false, domain.Unavailable(err)
	}
	if l.Status == domain.StatusReturned {
		return l, false, nil
	}

	if _, err := tx.Exec(`
		UPDATE loans SET status = 'returned', returned_at = ?, updated_at = ? WHERE id = ?
	`, nowStr, nowStr, id); err != nil {
		return domain.Loan{}, false, domain.Unavailable(err)
	}
	if err := incrementAvailable(tx, l.BookID, nowStr); err != nil {
		return domain.Loan{}, false, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Loan{}, false, domain.Unavailable(err)
	}

	l.Status = domain.StatusReturned
	l.ReturnedAt = nowStr
	l.UpdatedAt = nowStr
	return l, true, nil
}

// List reports loans newest first with member/book display names joined in.
// Status is the effective status: a past-due borrowed row reads as overdue
// without any write, so correctness does not depend on sweep timing.
func (r *LoanRepo) List(status string, now time.Time) ([]domain.LoanView, error) {
	nowStr := domain.FormatTime(now)

	q := `
		SELECT l.id, l.member_id, l.book_id, l.borrowed_at, l.due_at,
		       COALESCE(l.returned_at,'') AS returned_at,
		       CASE WHEN l.status = 'borrowed' AND l.due_at < ? THEN 'overdue' ELSE l.status END AS status,
		       COALESCE(l.updated_at,'') AS updated_at,
		       COALESCE(m.name,'') AS member_name,
		       COALESCE(b.title,'') AS book_title
		FROM loans l
		LEFT JOIN members m ON m.id = l.member_id
		LEFT JOIN books b   ON b.id = l.book_id`
	args := []any{nowStr}
	if status != "" {
		q += ` WHERE (CASE WHEN l.status = 'borrowed' AND l.due_at < ? THEN 'overdue' ELSE l.status END) = ?`
		args = append(args, nowStr, status)
	}
	q += ` ORDER BY l.borrowed_at DESC`

	out := []domain.LoanView{}
	if err := r.db.Select(&out, q, args...); err != nil {
		return nil, domain.Unavailable(err)
	}
	return out, nil
}

func (r *LoanRepo) Get(id string) (domain.Loan, error) {
	var l domain.Loan
	err := r.db.Get(&l, `SELECT `+loanCols+` FROM loans WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Loan{}, fmt.Errorf("loan %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Loan{}, domain.Unavailable(err)
	}
	return l, nil
}

// MarkOverdue persists borrowed->overdue for every past-due loan. Idempotent;
// returned loans are never touched.
func (r *LoanRepo) MarkOverdue(now time.Time) (int64, error) {
	nowStr := domain.FormatTime(now)
	res, err := r.db.Exec(`
		UPDATE loans SET status = 'overdue', updated_at = ?
		WHERE status = 'borrowed' AND due_at < ?
	`, nowStr, nowStr)
	if err != nil {
		return 0, domain.Unavailable(err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// CountActiveByMember counts loans still out (borrowed or overdue).
func (r *LoanRepo) CountActiveByMember(memberID string) (int, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(*) FROM loans WHERE member_id = ? AND status != 'returned'`, memberID); err != nil {
		return 0, domain.Unavailable(err)
	}
	return n, nil
}
