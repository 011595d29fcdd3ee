package stats

import (
	"context"
)

// Repository defines the aggregate queries the statistics need.
type Repository interface {
	BookCounts(ctx context.Context) (total, available int, err error)
	ActiveLoanCountsByCategory(ctx context.Context) ([]CategoryCount, error)
	LoanCountsByMember(ctx context.Context, limit int) ([]MemberCount, error)
}
