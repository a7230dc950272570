package services

import (
	"libris/internal/domain"
	"libris/internal/repos"
)

type InventoryService struct {
	Books *repos.BookRepo
}

func NewInventoryService(books *repos.BookRepo) *InventoryService {
	return &InventoryService{Books: books}
}

// CheckAvailability converts a copy count to IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func (s *InventoryService) CheckAvailability(bookID string) (domain.Availability, error) {
	b, err := s.Books.Get(bookID)
	if err != nil {
		return domain.Availability{}, err
	}

	status := "OUT_OF_STOCK"
	switch {
	case b.CopiesAvailable >= 5:
		status = "IN_STOCK"
	case b.CopiesAvailable > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: b.CopiesAvailable}, nil
}
