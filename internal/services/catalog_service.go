package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"libris/internal/domain"
	"libris/internal/repos"
)

type CatalogService struct {
	Books *repos.BookRepo
}

func NewCatalogService(books *repos.BookRepo) *CatalogService {
	return &CatalogService{Books: books}
}

type BookInput struct {
	Title           string
	Author          string
	ISBN            string
	Category        string
	Description     string
	TotalCopies     *int
	CopiesAvailable *int
	Tags            []string
}

func (s *CatalogService) Create(in BookInput, now time.Time) (domain.Book, error) {
	title := strings.TrimSpace(in.Title)
	author := strings.TrimSpace(in.Author)
	isbn := strings.TrimSpace(in.ISBN)
	if title == "" || author == "" || isbn == "" {
		return domain.Book{}, fmt.Errorf("%w: title, author and isbn are required", domain.ErrValidation)
	}
	total := 1
	if in.TotalCopies != nil {
		total = *in.TotalCopies
	}
	if total < 0 {
		return domain.Book{}, fmt.Errorf("%w: total_copies must be >= 0", domain.ErrValidation)
	}
	// omitted copies_available means every copy starts on the shelf
	avail := total
	if in.CopiesAvailable != nil {
		avail = *in.CopiesAvailable
	}
	if avail < 0 || avail > total {
		return domain.Book{}, fmt.Errorf("%w: copies_available must be within [0, total_copies]", domain.ErrValidation)
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return domain.Book{}, fmt.Errorf("%w: bad tags", domain.ErrValidation)
	}

	b := domain.Book{
		ID:              uuid.NewString(),
		Title:           title,
		Author:          author,
		ISBN:            isbn,
		Category:        strings.TrimSpace(in.Category),
		Description:     in.Description,
		TotalCopies:     total,
		CopiesAvailable: avail,
		TagsJSON:        string(raw),
		Tags:            tags,
		CreatedAt:       domain.FormatTime(now),
	}
	if err := s.Books.Insert(b); err != nil {
		return domain.Book{}, err
	}
	return b, nil
}

type BookPatch struct {
	Title           *string
	Author          *string
	ISBN            *string
	Category        *string
	Description     *string
	TotalCopies     *int
	CopiesAvailable *int
	Tags            *[]string
}

func (p BookPatch) Empty() bool {
	return p.Title == nil && p.Author == nil && p.ISBN == nil && p.Category == nil &&
		p.Description == nil && p.TotalCopies == nil && p.CopiesAvailable == nil && p.Tags == nil
}

func (s *CatalogService) Update(id string, p BookPatch, now time.Time) (domain.Book, error) {
	fields := map[string]any{}
	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return domain.Book{}, fmt.Errorf("%w: title cannot be empty", domain.ErrValidation)
		}
		fields["title"] = strings.TrimSpace(*p.Title)
	}
	if p.Author != nil {
		if strings.TrimSpace(*p.Author) == "" {
			return domain.Book{}, fmt.Errorf("%w: author cannot be empty", domain.ErrValidation)
		}
		fields["author"] = strings.TrimSpace(*p.Author)
	}
	if p.ISBN != nil {
		fields["isbn"] = strings.TrimSpace(*p.ISBN)
	}
	if p.Category != nil {
		fields["category"] = strings.TrimSpace(*p.Category)
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.TotalCopies != nil {
		if *p.TotalCopies < 0 {
			return domain.Book{}, fmt.Errorf("%w: total_copies must be >= 0", domain.ErrValidation)
		}
		fields["total_copies"] = *p.TotalCopies
	}
	if p.CopiesAvailable != nil {
		if *p.CopiesAvailable < 0 {
			return domain.Book{}, fmt.Errorf("%w: copies_available must be >= 0", domain.ErrValidation)
		}
		fields["copies_available"] = *p.CopiesAvailable
	}
	if p.Tags != nil {
		raw, err := json.Marshal(*p.Tags)
		if err != nil {
			return domain.Book{}, fmt.Errorf("%w: bad tags", domain.ErrValidation)
		}
		fields["tags_json"] = string(raw)
	}
	if len(fields) == 0 {
		return domain.Book{}, fmt.Errorf("%w: no fields to update", domain.ErrValidation)
	}

	b, err := s.Books.Update(id, domain.FormatTime(now), fields)
	if err != nil {
		return domain.Book{}, err
	}
	decodeTags(&b)
	return b, nil
}

func (s *CatalogService) Delete(id string) error {
	return s.Books.Delete(id)
}

func (s *CatalogService) Search(q, category string) ([]domain.Book, error) {
	books, err := s.Books.List(q, category)
	if err != nil {
		return nil, err
	}
	for i := range books {
		decodeTags(&books[i])
	}
	return books, nil
}

func decodeTags(b *domain.Book) {
	b.Tags = []string{}
	_ = json.Unmarshal([]byte(b.TagsJSON), &b.Tags)
}
