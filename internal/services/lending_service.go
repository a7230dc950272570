package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"libris/internal/domain"
	"libris/internal/repos"
)

const (
	DefaultLoanDays = 14
	MinLoanDays     = 1
	MaxLoanDays     = 60
)

// LendingService owns the borrowed -> overdue -> returned lifecycle.
type LendingService struct {
	Loans *repos.LoanRepo
	Guard *MembershipService
}

func NewLendingService(loans *repos.LoanRepo, guard *MembershipService) *LendingService {
	return &LendingService{Loans: loans, Guard: guard}
}

// Borrow creates a loan for an active member and takes the book copy.
// days == 0 means the default period. The loan insert and the inventory
// decrement are one transaction inside the repo.
func (s *LendingService) Borrow(memberID, bookID string, days int, now time.Time) (domain.Loan, error) {
	if days == 0 {
		days = DefaultLoanDays
	}
	if days < MinLoanDays || days > MaxLoanDays {
		return domain.Loan{}, fmt.Errorf("%w: days must be between %d and %d", domain.ErrValidation, MinLoanDays, MaxLoanDays)
	}
	if _, err := s.Guard.CanBorrow(memberID); err != nil {
		return domain.Loan{}, err
	}

	l := domain.Loan{
		ID:         uuid.NewString(),
		MemberID:   memberID,
		BookID:     bookID,
		BorrowedAt: domain.FormatTime(now),
		DueAt:      domain.FormatTime(now.Add(time.Duration(days) * 24 * time.Hour)),
		Status:     domain.StatusBorrowed,
	}
	if err := s.Loans.Create(l); err != nil {
		return domain.Loan{}, err
	}
	return l, nil
}

// Return is idempotent: a second return yields the stored record unchanged
// and does not restock twice. The bool reports whether inventory changed.
func (s *LendingService) Return(loanID string, now time.Time) (domain.Loan, bool, error) {
	return s.Loans.Return(loanID, now)
}

// List reports loans with effective status; status filters on that same
// derived value.
func (s *LendingService) List(status string, now time.Time) ([]domain.LoanView, error) {
	return s.Loans.List(status, now)
}
