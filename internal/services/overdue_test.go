package services_test

import (
	"testing"
	"time"

	"libris/internal/domain"
	"libris/internal/services"
)

func TestOverdueDerivationAndSweep(t *testing.T) {
	db := memdb(t)
	lending, loanRepo, _, _ := newLending(db)
	now := time.Now()

	past := domain.FormatTime(now.Add(-48 * time.Hour))
	future := domain.FormatTime(now.Add(48 * time.Hour))
	borrowed := domain.FormatTime(now.Add(-72 * time.Hour))

	mustExec := func(q string, args ...any) {
		t.Helper()
		if _, err := db.Exec(q, args...); err != nil {
			t.Fatal(err)
		}
	}
	mustExec(`INSERT INTO loans(id,member_id,book_id,borrowed_at,due_at,status) VALUES('ln-late','mb-1','bk-1',?,?,'borrowed')`, borrowed, past)
	mustExec(`INSERT INTO loans(id,member_id,book_id,borrowed_at,due_at,status) VALUES('ln-ok','mb-1','bk-1',?,?,'borrowed')`, borrowed, future)
	mustExec(`INSERT INTO loans(id,member_id,book_id,borrowed_at,due_at,returned_at,status) VALUES('ln-done','mb-1','bk-1',?,?,?,'returned')`, borrowed, past, borrowed)

	// listing derives overdue without writing anything
	all, err := lending.List("", now)
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]string{}
	for _, l := range all {
		got[l.ID] = l.Status
	}
	if got["ln-late"] != domain.StatusOverdue || got["ln-ok"] != domain.StatusBorrowed || got["ln-done"] != domain.StatusReturned {
		t.Fatalf("bad derived statuses: %v", got)
	}
	stored, err := loanRepo.Get("ln-late")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != domain.StatusBorrowed {
		t.Fatalf("listing must not mutate; stored status=%s", stored.Status)
	}

	// filtering applies to the derived status
	overdue, err := lending.List(domain.StatusOverdue, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(overdue) != 1 || overdue[0].ID != "ln-late" {
		t.Fatalf("bad overdue filter result: %+v", overdue)
	}

	// sweep persists it, idempotently
	sweeper := services.NewOverdueSweeper(loanRepo, time.Hour)
	sweeper.Sweep(now)
	stored, _ = loanRepo.Get("ln-late")
	if stored.Status != domain.StatusOverdue {
		t.Fatalf("sweep did not persist overdue: %s", stored.Status)
	}
	n, err := loanRepo.MarkOverdue(now)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("second sweep must be a no-op, marked %d", n)
	}

	// a returned loan with a past due date is never reclassified
	stored, _ = loanRepo.Get("ln-done")
	if stored.Status != domain.StatusReturned {
		t.Fatalf("sweep touched a returned loan: %s", stored.Status)
	}
	if s := stored.EffectiveStatus(now); s != domain.StatusReturned {
		t.Fatalf("effective status of returned loan: %s", s)
	}
}
