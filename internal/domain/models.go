package domain

import "time"

// Loan statuses. Returned is terminal.
const (
	StatusBorrowed = "borrowed"
	StatusOverdue  = "overdue"
	StatusReturned = "returned"
)

// TimeFormat is used for every persisted timestamp. Keeping all of them
// RFC3339 in UTC makes lexicographic comparison in SQL sound.
const TimeFormat = time.RFC3339

func FormatTime(t time.Time) string { return t.UTC().Format(TimeFormat) }

func ParseTime(s string) (time.Time, error) { return time.Parse(TimeFormat, s) }

type Book struct {
	ID              string   `db:"id" json:"id"`
	Title           string   `db:"title" json:"title"`
	Author          string   `db:"author" json:"author"`
	ISBN            string   `db:"isbn" json:"isbn"`
	Category        string   `db:"category" json:"category,omitempty"`
	Description     string   `db:"description" json:"description,omitempty"`
	TotalCopies     int      `db:"total_copies" json:"total_copies"`
	CopiesAvailable int      `db:"copies_available" json:"copies_available"`
	TagsJSON        string   `db:"tags_json" json:"-"`
	Tags            []string `db:"-" json:"tags"`
	CreatedAt       string   `db:"created_at" json:"created_at"`
	UpdatedAt       string   `db:"updated_at" json:"updated_at,omitempty"`
}

type Member struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Email     string `db:"email" json:"email"`
	Phone     string `db:"phone" json:"phone,omitempty"`
	Address   string `db:"address" json:"address,omitempty"`
	IsActive  bool   `db:"is_active" json:"is_active"`
	CreatedAt string `db:"created_at" json:"created_at"`
	UpdatedAt string `db:"updated_at" json:"updated_at,omitempty"`
}

type Loan struct {
	ID         string `db:"id" json:"id"`
	MemberID   string `db:"member_id" json:"member_id"`
	BookID     string `db:"book_id" json:"book_id"`
	BorrowedAt string `db:"borrowed_at" json:"borrowed_at"`
	DueAt      string `db:"due_at" json:"due_at"`
	ReturnedAt string `db:"returned_at" json:"returned_at,omitempty"`
	Status     string `db:"status" json:"status"`
	UpdatedAt  string `db:"updated_at" json:"updated_at,omitempty"`
}

// EffectiveStatus derives the reported status without mutating anything:
// a borrowed loan whose due date has passed is overdue.
func (l Loan) EffectiveStatus(now time.Time) string {
	if l.Status != StatusBorrowed {
		return l.Status
	}
	if due, err := ParseTime(l.DueAt); err == nil && due.Before(now) {
		return StatusOverdue
	}
	return l.Status
}

// LoanView is a loan enriched with display names for list responses.
type LoanView struct {
	Loan
	MemberName string `db:"member_name" json:"member_name"`
	BookTitle  string `db:"book_title" json:"book_title"`
}

type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty"`
}

type Stats struct {
	Books       int `db:"books" json:"books"`
	Copies      int `db:"copies" json:"copies"`
	Available   int `db:"available" json:"available"`
	Members     int `db:"members" json:"members"`
	ActiveLoans int `db:"active_loans" json:"active_loans"`
	Overdue     int `db:"overdue" json:"overdue"`
}
