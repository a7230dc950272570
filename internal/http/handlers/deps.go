package handlers

import (
	"github.com/jmoiron/sqlx"

	"libris/internal/repos"
	"libris/internal/services"
)

type Deps struct {
	BookHandler   *BookHandler
	MemberHandler *MemberHandler
	LoanHandler   *LoanHandler
	StatsHandler  *StatsHandler
	MetaHandler   *MetaHandler
	LoanRepo      *repos.LoanRepo
}

func NewDeps(db *sqlx.DB) *Deps {
	bookRepo := repos.NewBookRepo(db)
	memberRepo := repos.NewMemberRepo(db)
	loanRepo := repos.NewLoanRepo(db)
	statsRepo := repos.NewStatsRepo(db)

	catalogSvc := services.NewCatalogService(bookRepo)
	invSvc := services.NewInventoryService(bookRepo)
	membershipSvc := services.NewMembershipService(memberRepo, loanRepo)
	lendingSvc := services.NewLendingService(loanRepo, membershipSvc)
	statsSvc := services.NewStatsService(statsRepo)

	return &Deps{
		BookHandler:   &BookHandler{Catalog: catalogSvc, Inv: invSvc},
		MemberHandler: &MemberHandler{Membership: membershipSvc},
		LoanHandler:   &LoanHandler{Lending: lendingSvc},
		StatsHandler:  &StatsHandler{Stats: statsSvc},
		MetaHandler:   &MetaHandler{Stats: statsSvc},
		LoanRepo:      loanRepo,
	}
}
