package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func catalogue() []Book {
	return []Book{
		{ID: 1, ISBN: "9780141439518", Title: "Pride and Prejudice", Author: "Jane Austen", Category: "Fiction", Available: true},
		{ID: 2, ISBN: "9780451524935", Title: "1984", Author: "George Orwell", Category: "Fiction", Available: false},
		{ID: 3, ISBN: "9780553380163", Title: "A Brief History of Time", Author: "Stephen Hawking", Category: "Science", Available: true},
		{ID: 4, ISBN: "9780062316097", Title: "Sapiens", Author: "Yuval Noah Harari", Category: "History", Available: true},
	}
}

func ids(books []Book) []int64 {
	out := make([]int64, 0, len(books))
	for _, b := range books {
		out = append(out, b.ID)
	}
	return out
}

func TestApplyFilter_NoRestrictions(t *testing.T) {
	books := catalogue()

	assert.Equal(t, []int64{1, 2, 3, 4}, ids(ApplyFilter(books, Filter{})))
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(ApplyFilter(books, Filter{Category: CategoryAll, Status: StatusAll})))
}

func TestApplyFilter_EmptySearchMatchesEverything(t *testing.T) {
	books := catalogue()

	got := ApplyFilter(books, Filter{Search: ""})
	assert.Len(t, got, len(books), "an empty search term matches everything, not nothing")
}

func TestApplyFilter_CategoryAndStatus(t *testing.T) {
	books := catalogue()

	got := ApplyFilter(books, Filter{Category: "Fiction", Status: StatusAvailable, Search: ""})
	assert.Equal(t, []int64{1}, ids(got), "only available Fiction, order preserved")

	got = ApplyFilter(books, Filter{Status: StatusBorrowed})
	assert.Equal(t, []int64{2}, ids(got))

	got = ApplyFilter(books, Filter{Category: "fiction"})
	assert.Empty(t, got, "category match is case-sensitive")
}

func TestApplyFilter_Search(t *testing.T) {
	books := catalogue()

	assert.Equal(t, []int64{2}, ids(ApplyFilter(books, Filter{Search: "orwell"})), "author match is case-insensitive")
	assert.Equal(t, []int64{3}, ids(ApplyFilter(books, Filter{Search: "BRIEF"})), "title match is case-insensitive")
	assert.Equal(t, []int64{4}, ids(ApplyFilter(books, Filter{Search: "9780062316097"})), "isbn substring matches")
	assert.Empty(t, ApplyFilter(books, Filter{Search: "no such book"}))
}

func TestApplyFilter_PredicatesAreANDed(t *testing.T) {
	books := catalogue()

	got := ApplyFilter(books, Filter{Category: "Fiction", Status: StatusAvailable, Search: "orwell"})
	assert.Empty(t, got, "1984 is Fiction and matches the search but is borrowed")

	got = ApplyFilter(books, Filter{Category: "Fiction", Status: StatusBorrowed, Search: "orwell"})
	assert.Equal(t, []int64{2}, ids(got))
}

func TestApplyFilter_OrderPreserved(t *testing.T) {
	books := catalogue()

	got := ApplyFilter(books, Filter{Status: StatusAvailable})
	assert.Equal(t, []int64{1, 3, 4}, ids(got), "original collection order is preserved")
}
