package stats

import (
	"context"
)

// DefaultTopMembers is the number of members in the top-borrowers list.
const DefaultTopMembers = 5

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Overview assembles the full statistics payload.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	total, available, err := s.repo.BookCounts(ctx)
	if err != nil {
		return Overview{}, err
	}

	categories, err := s.repo.ActiveLoanCountsByCategory(ctx)
	if err != nil {
		return Overview{}, err
	}

	members, err := s.repo.LoanCountsByMember(ctx, DefaultTopMembers)
	if err != nil {
		return Overview{}, err
	}

	return Overview{
		TotalBooks:       total,
		AvailableBooks:   available,
		AvailabilityRate: AvailabilityRate(available, total),
		LoansByCategory:  CategoryShares(categories),
		TopMembers:       TopMemberShares(members),
	}, nil
}
