package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if dsn == ":memory:" {
		// each connection gets its own in-memory database; pin the pool to one
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed a small catalog if the DB is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
-- Books. The CHECK keeps 0 <= copies_available <= total_copies after every write.
CREATE TABLE IF NOT EXISTS books(
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  author TEXT NOT NULL,
  isbn TEXT NOT NULL,
  category TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  total_copies INTEGER NOT NULL DEFAULT 1 CHECK (total_copies >= 0),
  copies_available INTEGER NOT NULL CHECK (copies_available >= 0 AND copies_available <= total_copies),
  tags_json TEXT NOT NULL DEFAULT '[]',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_books_title    ON books(LOWER(title));
CREATE INDEX IF NOT EXISTS idx_books_category ON books(category);

-- Members
CREATE TABLE IF NOT EXISTS members(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  phone TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_members_name  ON members(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_members_email ON members(LOWER(email));

-- Loans. member_id/book_id are deliberately not foreign keys: loan history
-- must survive deletion of a member whose loans are all returned.
CREATE TABLE IF NOT EXISTS loans(
  id TEXT PRIMARY KEY,
  member_id TEXT NOT NULL,
  book_id TEXT NOT NULL,
  borrowed_at TEXT NOT NULL,
  due_at TEXT NOT NULL,
  returned_at TEXT,
  status TEXT NOT NULL DEFAULT 'borrowed' CHECK (status IN ('borrowed','overdue','returned')),
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_loans_member     ON loans(member_id);
CREATE INDEX IF NOT EXISTS idx_loans_book       ON loans(book_id);
CREATE INDEX IF NOT EXISTS idx_loans_status_due ON loans(status, due_at);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM books`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo books/members")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO books(id,title,author,isbn,category,description,total_copies,copies_available,tags_json) VALUES
	  ('0c8e1f5a-9b2d-4e7c-8a41-2f6d9c3b7a10','The Go Programming Language','Alan A. A. Donovan','978-0134190440','programming','The definitive Go reference.',3,3,'["go","reference"]'),
	  ('5b1f7c2e-3d94-4a68-b0e5-8c27a1d4f963','Designing Data-Intensive Applications','Martin Kleppmann','978-1449373320','programming','Ideas behind reliable, scalable systems.',2,2,'["systems","databases"]'),
	  ('9a4d2e81-6f3b-47c5-a9d0-1e8b5c7f2a34','The Name of the Wind','Patrick Rothfuss','978-0756404741','fantasy','',1,1,'["fantasy","fiction"]')`)

	tx.MustExec(`INSERT INTO members(id,name,email,phone,is_active) VALUES
	  ('7e2c9b40-5a1d-4f83-9c67-3b8e0d2a6f15','Alice Walker','alice@libris.test','555-0101',1),
	  ('2f8a6d13-4c7e-49b2-8e50-9d1c3a5b7e28','Bob Mercer','bob@libris.test','',1)`)

	return tx.Commit()
}
