package repos

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"libris/internal/domain"
)

type MemberRepo struct{ db *sqlx.DB }

func NewMemberRepo(db *sqlx.DB) *MemberRepo { return &MemberRepo{db: db} }

const memberCols = `id, name, email, phone, address, is_active,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *MemberRepo) List(q string) ([]domain.Member, error) {
	where := `1=1`
	args := []any{}
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		where += ` AND (LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(phone) LIKE ?)`
		args = append(args, like, like, like)
	}

	out := []domain.Member{}
	err := r.db.Select(&out, `SELECT `+memberCols+` FROM members WHERE `+where+` ORDER BY name`, args...)
	if err != nil {
		return nil, domain.Unavailable(err)
	}
	return out, nil
}

func (r *MemberRepo) Get(id string) (domain.Member, error) {
	var m domain.Member
	err := r.db.Get(&m, `SELECT `+memberCols+` FROM members WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Member{}, fmt.Errorf("member %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Member{}, domain.Unavailable(err)
	}
	return m, nil
}

func (r *MemberRepo) Insert(m domain.Member) error {
	_, err := r.db.Exec(`
		INSERT INTO members(id, name, email, phone, address, is_active, created_at)
		VALUES(?,?,?,?,?,?,?)
	`, m.ID, m.Name, m.Email, m.Phone, m.Address, m.IsActive, m.CreatedAt)
	return domain.Unavailable(err)
}

func (r *MemberRepo) Update(id, now string, fields map[string]any) (domain.Member, error) {
	sets := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)
	for col, v := range fields {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, now, id)

	res, err := r.db.Exec(`UPDATE members SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return domain.Member{}, domain.Unavailable(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Member{}, fmt.Errorf("member %s: %w", id, domain.ErrNotFound)
	}
	return r.Get(id)
}

// Delete removes a member unless any of their loans is still out. The guard
// count and the delete run in one transaction so a borrow racing the delete
// cannot slip between them.
func (r *MemberRepo) Delete(id string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return domain.Unavailable(err)
	}
	defer func() { _ = tx.Rollback() }()

	var active int
	if err := tx.Get(&active, `SELECT COUNT(*) FROM loans WHERE member_id = ? AND status != 'returned'`, id); err != nil {
		return domain.Unavailable(err)
	}
	if active > 0 {
		return fmt.Errorf("member %s: %w", id, domain.ErrHasActiveLoans)
	}

	res, err := tx.Exec(`DELETE FROM members WHERE id = ?`, id)
	if err != nil {
		return domain.Unavailable(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("member %s: %w", id, domain.ErrNotFound)
	}
	return domain.Unavailable(tx.Commit())
}
