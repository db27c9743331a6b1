package listing

import (
	"strconv"
	"strings"

	"github.com/hongminglow/lendsqr-admin/internal/models"
)

// PageSize is the fixed number of rows per page.
const PageSize = 20

// Page is one window of the in-memory list. Number is 1-based.
type Page struct {
	Items        []models.User
	Number       int
	TotalPages   int
	Total        int
	PrevDisabled bool
	NextDisabled bool
}

// PrevNumber is the page before this one.
func (p Page) PrevNumber() int { return p.Number - 1 }

// NextNumber is the page after this one.
func (p Page) NextNumber() int { return p.Number + 1 }

// TotalPages returns ceil(n / PageSize).
func TotalPages(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + PageSize - 1) / PageSize
}

// Paginate returns rows [(page-1)*PageSize, page*PageSize) of users.
// Pages outside [1, TotalPages] are clamped; an empty list yields page 1 of 0.
func Paginate(users []models.User, page int) Page {
	total := TotalPages(len(users))
	if page < 1 {
		page = 1
	}
	if total > 0 && page > total {
		page = total
	}
	if total == 0 {
		page = 1
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > len(users) {
		start = len(users)
	}
	if end > len(users) {
		end = len(users)
	}

	return Page{
		Items:        users[start:end],
		Number:       page,
		TotalPages:   total,
		Total:        len(users),
		PrevDisabled: page == 1,
		NextDisabled: page == total || total == 0,
	}
}

// ParsePage reads a page number from a query value, defaulting to 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
