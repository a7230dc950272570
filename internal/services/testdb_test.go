package services_test

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"libris/internal/repos"
	"libris/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// each connection would get its own in-memory database
	db.SetMaxOpenConns(1)
	schema := `
	CREATE TABLE books(
	  id TEXT PRIMARY KEY, title TEXT NOT NULL, author TEXT NOT NULL, isbn TEXT NOT NULL,
	  category TEXT NOT NULL DEFAULT '', description TEXT NOT NULL DEFAULT '',
	  total_copies INTEGER NOT NULL DEFAULT 1 CHECK (total_copies >= 0),
	  copies_available INTEGER NOT NULL CHECK (copies_available >= 0 AND copies_available <= total_copies),
	  tags_json TEXT NOT NULL DEFAULT '[]',
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT
	);
	CREATE TABLE members(
	  id TEXT PRIMARY KEY, name TEXT NOT NULL, email TEXT NOT NULL,
	  phone TEXT NOT NULL DEFAULT '', address TEXT NOT NULL DEFAULT '',
	  is_active INTEGER NOT NULL DEFAULT 1,
	  created_at TEXT DEFAULT CURRENT_TIMESTAMP, updated_at TEXT
	);
	CREATE TABLE loans(
	  id TEXT PRIMARY KEY, member_id TEXT NOT NULL, book_id TEXT NOT NULL,
	  borrowed_at TEXT NOT NULL, due_at TEXT NOT NULL, returned_at TEXT,
	  status TEXT NOT NULL DEFAULT 'borrowed' CHECK (status IN ('borrowed','overdue','returned')),
	  updated_at TEXT
	);`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	return db
}

func seedBook(t *testing.T, db *sqlx.DB, id string, total, avail int) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO books(id,title,author,isbn,total_copies,copies_available)
		VALUES(?,?,?,?,?,?)
	`, id, "Title "+id, "Author "+id, "isbn-"+id, total, avail)
	if err != nil {
		t.Fatal(err)
	}
}

func seedMember(t *testing.T, db *sqlx.DB, id string, active bool) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO members(id,name,email,is_active) VALUES(?,?,?,?)
	`, id, "Member "+id, id+"@libris.test", active)
	if err != nil {
		t.Fatal(err)
	}
}

// newLending wires the lending stack over a fresh in-memory DB.
func newLending(db *sqlx.DB) (*services.LendingService, *repos.LoanRepo, *repos.BookRepo, *services.MembershipService) {
	bookRepo := repos.NewBookRepo(db)
	memberRepo := repos.NewMemberRepo(db)
	loanRepo := repos.NewLoanRepo(db)
	guard := services.NewMembershipService(memberRepo, loanRepo)
	return services.NewLendingService(loanRepo, guard), loanRepo, bookRepo, guard
}
