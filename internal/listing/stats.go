package listing

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hongminglow/lendsqr-admin/internal/models"
)

// Stats are the headline counts shown above the dashboard table.
type Stats struct {
	Users       int
	Active      int
	WithLoans   int
	WithSavings int
}

// StatCard is a rendered stats tile.
type StatCard struct {
	Label string
	Value string
	Class string
}

// ComputeStats counts users by status and by loan/savings presence.
func ComputeStats(users []models.User) Stats {
	s := Stats{Users: len(users)}
	for _, u := range users {
		if models.IsActive(u.Status) {
			s.Active++
		}
		if u.HasLoans() {
			s.WithLoans++
		}
		if u.HasSavings() {
			s.WithSavings++
		}
	}
	return s
}

// Cards formats the counts with thousands separators.
func (s Stats) Cards() []StatCard {
	p := message.NewPrinter(language.English)
	return []StatCard{
		{Label: "USERS", Value: p.Sprintf("%d", s.Users), Class: "users-icon"},
		{Label: "ACTIVE USERS", Value: p.Sprintf("%d", s.Active), Class: "active-users-icon"},
		{Label: "USERS WITH LOANS", Value: p.Sprintf("%d", s.WithLoans), Class: "loans-icon"},
		{Label: "USERS WITH SAVINGS", Value: p.Sprintf("%d", s.WithSavings), Class: "savings-icon"},
	}
}

// Options are the choices offered by the organization and status dropdowns.
type Options struct {
	Organizations []string
	Statuses      []string
}

// DistinctOptions collects non-empty organizations and statuses in order of
// first occurrence.
func DistinctOptions(users []models.User) Options {
	return Options{
		Organizations: distinct(users, func(u models.User) string { return u.Organization }),
		Statuses:      distinct(users, func(u models.User) string { return u.Status }),
	}
}

func distinct(users []models.User, field func(models.User) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, u := range users {
		v := field(u)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
