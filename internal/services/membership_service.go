package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"libris/internal/domain"
	"libris/internal/repos"
	"libris/internal/validate"
)

type MembershipService struct {
	Members *repos.MemberRepo
	Loans   *repos.LoanRepo
}

func NewMembershipService(members *repos.MemberRepo, loans *repos.LoanRepo) *MembershipService {
	return &MembershipService{Members: members, Loans: loans}
}

type MemberInput struct {
	Name     string
	Email    string
	Phone    string
	Address  string
	IsActive *bool
}

func (s *MembershipService) Create(in MemberInput, now time.Time) (domain.Member, error) {
	name, ok := validate.Name(in.Name)
	if !ok {
		return domain.Member{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	email, ok := validate.Email(in.Email)
	if !ok {
		return domain.Member{}, fmt.Errorf("%w: enter a valid email", domain.ErrValidation)
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	m := domain.Member{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
		IsActive:  active,
		CreatedAt: domain.FormatTime(now),
	}
	if err := s.Members.Insert(m); err != nil {
		return domain.Member{}, err
	}
	return m, nil
}

type MemberPatch struct {
	Name     *string
	Email    *string
	Phone    *string
	Address  *string
	IsActive *bool
}

func (p MemberPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Address == nil && p.IsActive == nil
}

func (s *MembershipService) Update(id string, p MemberPatch, now time.Time) (domain.Member, error) {
	fields := map[string]any{}
	if p.Name != nil {
		name, ok := validate.Name(*p.Name)
		if !ok {
			return domain.Member{}, fmt.Errorf("%w: name cannot be empty", domain.ErrValidation)
		}
		fields["name"] = name
	}
	if p.Email != nil {
		email, ok := validate.Email(*p.Email)
		if !ok {
			return domain.Member{}, fmt.Errorf("%w: enter a valid email", domain.ErrValidation)
		}
		fields["email"] = email
	}
	if p.Phone != nil {
		fields["phone"] = strings.TrimSpace(*p.Phone)
	}
	if p.Address != nil {
		fields["address"] = strings.TrimSpace(*p.Address)
	}
	if p.IsActive != nil {
		fields["is_active"] = *p.IsActive
	}
	if len(fields) == 0 {
		return domain.Member{}, fmt.Errorf("%w: no fields to update", domain.ErrValidation)
	}
	return s.Members.Update(id, domain.FormatTime(now), fields)
}

func (s *MembershipService) List(q string) ([]domain.Member, error) {
	return s.Members.List(q)
}

// CanBorrow enforces that only an existing, active member may borrow.
func (s *MembershipService) CanBorrow(memberID string) (domain.Member, error) {
	m, err := s.Members.Get(memberID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Member{}, fmt.Errorf("member %s: %w", memberID, domain.ErrInvalidMember)
	}
	if err != nil {
		return domain.Member{}, err
	}
	if !m.IsActive {
		return domain.Member{}, fmt.Errorf("member %s: %w", memberID, domain.ErrInvalidMember)
	}
	return m, nil
}

// CanDelete reports whether the member has no loans still out.
func (s *MembershipService) CanDelete(memberID string) (bool, error) {
	n, err := s.Loans.CountActiveByMember(memberID)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// Delete is guarded inside the repo transaction; a member with an active
// loan fails with ErrHasActiveLoans.
func (s *MembershipService) Delete(id string) error {
	return s.Members.Delete(id)
}
