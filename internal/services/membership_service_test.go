package services_test

import (
	"errors"
	"testing"
	"time"

	"libris/internal/domain"
	"libris/internal/services"
)

func TestMemberDeleteGuard(t *testing.T) {
	db := memdb(t)
	lending, _, _, guard := newLending(db)
	seedBook(t, db, "bk-1", 1, 1)
	seedMember(t, db, "mb-1", true)
	now := time.Now()

	l, err := lending.Borrow("mb-1", "bk-1", 7, now)
	if err != nil {
		t.Fatal(err)
	}

	ok, err := guard.CanDelete("mb-1")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("CanDelete must be false with a loan out")
	}
	if err := guard.Delete("mb-1"); !errors.Is(err, domain.ErrHasActiveLoans) {
		t.Fatalf("want ErrHasActiveLoans, got %v", err)
	}

	// an overdue loan still blocks deletion
	if _, err := db.Exec(`UPDATE loans SET status='overdue' WHERE id=?`, l.ID); err != nil {
		t.Fatal(err)
	}
	if err := guard.Delete("mb-1"); !errors.Is(err, domain.ErrHasActiveLoans) {
		t.Fatalf("overdue loan: want ErrHasActiveLoans, got %v", err)
	}

	if _, _, err := lending.Return(l.ID, now); err != nil {
		t.Fatal(err)
	}
	if err := guard.Delete("mb-1"); err != nil {
		t.Fatalf("delete after return: %v", err)
	}
	if err := guard.Delete("mb-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
}

func TestMemberCreateAndUpdate(t *testing.T) {
	db := memdb(t)
	_, _, _, guard := newLending(db)
	now := time.Now()

	if _, err := guard.Create(services.MemberInput{Name: "Ada", Email: "not-an-email"}, now); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("bad email: want ErrValidation, got %v", err)
	}
	if _, err := guard.Create(services.MemberInput{Name: "", Email: "ada@libris.test"}, now); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("empty name: want ErrValidation, got %v", err)
	}

	m, err := guard.Create(services.MemberInput{Name: "Ada Lovelace", Email: "ada@libris.test"}, now)
	if err != nil {
		t.Fatal(err)
	}
	if !m.IsActive {
		t.Fatal("is_active must default to true")
	}

	inactive := false
	upd, err := guard.Update(m.ID, services.MemberPatch{IsActive: &inactive}, now)
	if err != nil {
		t.Fatal(err)
	}
	if upd.IsActive || upd.UpdatedAt == "" {
		t.Fatalf("bad update: %+v", upd)
	}

	if _, err := guard.CanBorrow(m.ID); !errors.Is(err, domain.ErrInvalidMember) {
		t.Fatalf("deactivated member can borrow: %v", err)
	}

	if _, err := guard.Update(m.ID, services.MemberPatch{}, now); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("empty patch: want ErrValidation, got %v", err)
	}
}
