// Package stats computes derived counts and percentages over the member,
// book and loan collections. Counting happens in SQL; the percentage math
// lives here so it can be pinned by unit tests.
package stats

import (
	"math"
)

// CategoryCount is the number of active loans in one book category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CategoryShare adds the category's share of all active loans.
type CategoryShare struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Percent  int    `json:"percent"`
}

// MemberCount is the number of loans (any status) held by one member.
type MemberCount struct {
	MemberID int64  `json:"member_id"`
	Name     string `json:"name"`
	Count    int    `json:"count"`
}

// MemberShare adds the member's count relative to the top borrower.
type MemberShare struct {
	MemberID int64  `json:"member_id"`
	Name     string `json:"name"`
	Count    int    `json:"count"`
	Percent  int    `json:"percent"`
}

// Overview is the statistics payload served to the administrator screens.
type Overview struct {
	TotalBooks       int             `json:"total_books"`
	AvailableBooks   int             `json:"available_books"`
	AvailabilityRate int             `json:"availability_rate"`
	LoansByCategory  []CategoryShare `json:"loans_by_category"`
	TopMembers       []MemberShare   `json:"top_members"`
}

// roundPercent rounds half away from zero.
func roundPercent(part, total int) int {
	return int(math.Round(float64(part) / float64(total) * 100))
}

// AvailabilityRate is round(available/total*100), and 100 for an empty
// catalogue.
func AvailabilityRate(available, total int) int {
	if total == 0 {
		return 100
	}
	return roundPercent(available, total)
}

// CategoryShares computes each category's share of the active loans. The
// input order (count descending, category ascending) is preserved. With no
// active loans every share is 0.
func CategoryShares(counts []CategoryCount) []CategoryShare {
	total := 0
	for _, c := range counts {
		total += c.Count
	}

	out := make([]CategoryShare, 0, len(counts))
	for _, c := range counts {
		percent := 0
		if total > 0 {
			percent = roundPercent(c.Count, total)
		}
		out = append(out, CategoryShare{Category: c.Category, Count: c.Count, Percent: percent})
	}
	return out
}

// TopMemberShares scales each member's loan count against the highest count
// in the result set. The divisor is at least 1, so an empty set produces no
// division by zero (and no shares at all).
func TopMemberShares(counts []MemberCount) []MemberShare {
	max := 1
	for _, c := range counts {
		if c.Count > max {
			max = c.Count
		}
	}

	out := make([]MemberShare, 0, len(counts))
	for _, c := range counts {
		out = append(out, MemberShare{
			MemberID: c.MemberID,
			Name:     c.Name,
			Count:    c.Count,
			Percent:  roundPercent(c.Count, max),
		})
	}
	return out
}
