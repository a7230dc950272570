package repos

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"libris/internal/domain"
)

type BookRepo struct{ db *sqlx.DB }

func NewBookRepo(db *sqlx.DB) *BookRepo { return &BookRepo{db: db} }

const bookCols = `id, title, author, isbn, category, description, total_copies, copies_available, tags_json,
  created_at, COALESCE(updated_at,'') AS updated_at`

// List searches title/author/isbn/tags case-insensitively and optionally
// filters by category, ordered by title.
func (r *BookRepo) List(q, category string) ([]domain.Book, error) {
	where := `1=1`
	args := []any{}
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		where += ` AND (LOWER(title) LIKE ? OR LOWER(author) LIKE ? OR LOWER(isbn) LIKE ? OR LOWER(tags_json) LIKE ?)`
		args = append(args, like, like, like, like)
	}
	if category != "" {
		where += ` AND category = ?`
		args = append(args, category)
	}

	out := []domain.Book{}
	err := r.db.Select(&out, `SELECT `+bookCols+` FROM books WHERE `+where+` ORDER BY title`, args...)
	if err != nil {
		return nil, domain.Unavailable(err)
	}
	return out, nil
}

func (r *BookRepo) Get(id string) (domain.Book, error) {
	var b domain.Book
	err := r.db.Get(&b, `SELECT `+bookCols+` FROM books WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Book{}, fmt.Errorf("book %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Book{}, domain.Unavailable(err)
	}
	return b, nil
}

func (r *BookRepo) Insert(b domain.Book) error {
	_, err := r.db.Exec(`
		INSERT INTO books(id, title, author, isbn, category, description, total_copies, copies_available, tags_json, created_at)
		VALUES(?,?,?,?,?,?,?,?,?,?)
	`, b.ID, b.Title, b.Author, b.ISBN, b.Category, b.Description, b.TotalCopies, b.CopiesAvailable, b.TagsJSON, b.CreatedAt)
	if err != nil {
		if isConstraint(err) {
			return fmt.Errorf("%w: copies out of range", domain.ErrValidation)
		}
		return domain.Unavailable(err)
	}
	return nil
}

// Update applies a partial column set and stamps updated_at.
func (r *BookRepo) Update(id, now string, fields map[string]any) (domain.Book, error) {
	sets := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)
	for col, v := range fields {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, now, id)

	res, err := r.db.Exec(`UPDATE books SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		if isConstraint(err) {
			return domain.Book{}, fmt.Errorf("%w: copies_available must stay within [0, total_copies]", domain.ErrValidation)
		}
		return domain.Book{}, domain.Unavailable(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Book{}, fmt.Errorf("book %s: %w", id, domain.ErrNotFound)
	}
	return r.Get(id)
}

func (r *BookRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return domain.Unavailable(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("book %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// DecrementAvailable takes one copy iff at least one is available. The
// conditional UPDATE plus the RowsAffected check make the precondition and
// the mutation a single atomic step, so two concurrent borrowers cannot
// both take the last copy.
func (r *BookRepo) DecrementAvailable(id, now string) error {
	return decrementAvailable(r.db, id, now)
}

// IncrementAvailable puts one copy back, capped at total_copies.
func (r *BookRepo) IncrementAvailable(id, now string) error {
	return incrementAvailable(r.db, id, now)
}

func decrementAvailable(e sqlx.Ext, id, now string) error {
	res, err := e.Exec(`
		UPDATE books SET copies_available = copies_available - 1, updated_at = ?
		WHERE id = ? AND copies_available > 0
	`, now, id)
	if err != nil {
		return domain.Unavailable(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := sqlx.Get(e, &exists, `SELECT COUNT(*) FROM books WHERE id = ?`, id); err != nil {
			return domain.Unavailable(err)
		}
		if exists == 0 {
			return fmt.Errorf("book %s: %w", id, domain.ErrNotFound)
		}
		return fmt.Errorf("book %s: %w", id, domain.ErrOutOfStock)
	}
	return nil
}

func incrementAvailable(e sqlx.Ext, id, now string) error {
	// capped so a stray double return can never push availability past the owned count
	_, err := e.Exec(`
		UPDATE books SET copies_available = copies_available + 1, updated_at = ?
		WHERE id = ? AND copies_available < total_copies
	`, now, id)
	return domain.Unavailable(err)
}

func isConstraint(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "constraint")
}
